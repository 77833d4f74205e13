package admin_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/redteahq/redtea/internal/app/features/admin"
	"github.com/redteahq/redtea/internal/app/features/shared"
	"github.com/redteahq/redtea/internal/app/store/adminactions"
	poststore "github.com/redteahq/redtea/internal/app/store/posts"
	userstore "github.com/redteahq/redtea/internal/app/store/users"
	"github.com/redteahq/redtea/internal/app/system/adminlist"
	"github.com/redteahq/redtea/internal/app/system/filestore"
	"github.com/redteahq/redtea/internal/domain/models"
	"github.com/redteahq/redtea/internal/testutil"
)

const adminID = "user_admin1"

type env struct {
	handler  *admin.Handler
	users    *userstore.Store
	actions  *adminactions.Store
	fixtures *testutil.Fixtures
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	admins := adminlist.New(adminID)
	us := userstore.New(db, admins)
	ps := poststore.New(db, admins)
	ac := adminactions.New(db)
	h := admin.NewHandler(us, ps, ac, filestore.NewNoop(), admins, zap.NewNop())
	return env{handler: h, users: us, actions: ac, fixtures: testutil.NewFixtures(t, db)}
}

func TestListUsers_ResolvesDocumentURLs(t *testing.T) {
	e := setup(t)
	pending := e.fixtures.PendingUser()

	req := httptest.NewRequest("GET", "/admin/users?status=pending", nil)
	req.Header.Set(shared.CallerIDHeader, adminID)
	rec := httptest.NewRecorder()
	e.handler.ListUsers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var body struct {
		Users []struct {
			ClerkID       string `json:"clerk_id"`
			SelfieURL     string `json:"selfie_url"`
			IDDocumentURL string `json:"id_document_url"`
		} `json:"users"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(body.Users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(body.Users))
	}
	if body.Users[0].ClerkID != pending.ClerkID {
		t.Errorf("clerk_id: got %q", body.Users[0].ClerkID)
	}
	if body.Users[0].SelfieURL == "" || body.Users[0].IDDocumentURL == "" {
		t.Error("expected document URLs to be resolved")
	}
}

func TestListUsers_Unauthorized(t *testing.T) {
	e := setup(t)
	e.fixtures.PendingUser()

	req := httptest.NewRequest("GET", "/admin/users", nil)
	req.Header.Set(shared.CallerIDHeader, "user_intruder")
	rec := httptest.NewRecorder()
	e.handler.ListUsers(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestApproveUser(t *testing.T) {
	e := setup(t)
	pending := e.fixtures.PendingUser()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := httptest.NewRequest("POST", "/admin/users/"+pending.ID.Hex()+"/approve", nil)
	req.Header.Set(shared.CallerIDHeader, adminID)
	req = testutil.WithChiURLParam(req, "userID", pending.ID.Hex())
	rec := httptest.NewRecorder()
	e.handler.ApproveUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	u, err := e.users.GetByID(ctx, pending.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !u.IsApproved || u.VerificationStatus != models.VerificationApproved {
		t.Errorf("user not approved: %+v", u)
	}

	actions, err := e.actions.ByTargetUser(ctx, pending.ID, 10)
	if err != nil {
		t.Fatalf("audit lookup: %v", err)
	}
	if len(actions) != 1 || actions[0].ActionType != models.ActionApproveUser {
		t.Errorf("expected 1 approve_user audit record, got %v", actions)
	}
}

func TestDenyUser(t *testing.T) {
	e := setup(t)
	pending := e.fixtures.PendingUser()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := httptest.NewRequest("POST", "/admin/users/"+pending.ID.Hex()+"/deny", nil)
	req.Header.Set(shared.CallerIDHeader, adminID)
	req = testutil.WithChiURLParam(req, "userID", pending.ID.Hex())
	rec := httptest.NewRecorder()
	e.handler.DenyUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	u, err := e.users.GetByID(ctx, pending.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.VerificationStatus != models.VerificationRejected {
		t.Errorf("verification_status: got %q, want rejected", u.VerificationStatus)
	}
	if u.SelfieID != nil || u.IDDocumentID != nil {
		t.Error("deny must clear document keys")
	}
}

func TestApproveUser_Unauthorized(t *testing.T) {
	e := setup(t)
	pending := e.fixtures.PendingUser()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := httptest.NewRequest("POST", "/admin/users/"+pending.ID.Hex()+"/approve", nil)
	req.Header.Set(shared.CallerIDHeader, "user_intruder")
	req = testutil.WithChiURLParam(req, "userID", pending.ID.Hex())
	rec := httptest.NewRecorder()
	e.handler.ApproveUser(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rec.Code)
	}
	u, err := e.users.GetByID(ctx, pending.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.IsApproved {
		t.Error("unauthorized approve must not mutate")
	}
}

func TestApproveUser_BadID(t *testing.T) {
	e := setup(t)

	req := httptest.NewRequest("POST", "/admin/users/xyz/approve", nil)
	req.Header.Set(shared.CallerIDHeader, adminID)
	req = testutil.WithChiURLParam(req, "userID", "xyz")
	rec := httptest.NewRecorder()
	e.handler.ApproveUser(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestDeletePost(t *testing.T) {
	e := setup(t)
	post := e.fixtures.InsertPost(models.Post{})

	req := httptest.NewRequest("DELETE", "/admin/posts/"+post.ID.Hex(), nil)
	req.Header.Set(shared.CallerIDHeader, adminID)
	req = testutil.WithChiURLParam(req, "postID", post.ID.Hex())
	rec := httptest.NewRecorder()
	e.handler.DeletePost(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rec.Code)
	}
}

func TestListActions(t *testing.T) {
	e := setup(t)
	pending := e.fixtures.PendingUser()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := e.users.Approve(ctx, adminID, pending.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	req := httptest.NewRequest("GET", "/admin/actions", nil)
	req.Header.Set(shared.CallerIDHeader, adminID)
	rec := httptest.NewRecorder()
	e.handler.ListActions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body struct {
		Actions []models.AdminAction `json:"actions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(body.Actions) != 1 {
		t.Errorf("expected 1 action, got %d", len(body.Actions))
	}
}
