package payments_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/redteahq/redtea/internal/app/features/payments"
	paymentstore "github.com/redteahq/redtea/internal/app/store/payments"
	userstore "github.com/redteahq/redtea/internal/app/store/users"
	"github.com/redteahq/redtea/internal/app/system/adminlist"
	"github.com/redteahq/redtea/internal/testutil"
)

type stubVerifier struct {
	err error
}

func (v stubVerifier) Verify([]byte, http.Header) error { return v.err }

type env struct {
	handler  *payments.Handler
	users    *userstore.Store
	payments *paymentstore.Store
}

func setup(t *testing.T, verifier stubVerifier) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	us := userstore.New(db, adminlist.New("user_admin1"))
	ps := paymentstore.New(db)
	return env{
		handler:  payments.NewHandler(ps, us, verifier, zap.NewNop()),
		users:    us,
		payments: ps,
	}
}

func post(h *payments.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/webhooks/polar", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Polar(rec, req)
	return rec
}

func TestPolar_OrderCreated(t *testing.T) {
	e := setup(t, stubVerifier{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := e.users.UpsertOnLogin(ctx, "user_buyer", "b@example.com", "Buyer")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	body := `{"type":"order.created","data":{"id":"pay_1","amount":999,"metadata":{"clerk_id":"user_buyer","plan":"monthly"}}}`
	rec := post(e.handler, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	got, err := e.users.GetByClerkID(ctx, "user_buyer")
	if err != nil {
		t.Fatalf("GetByClerkID: %v", err)
	}
	if !got.IsSubscribed || got.SubscriptionPlan != "monthly" {
		t.Errorf("subscription not recorded: %+v", got)
	}

	records, err := e.payments.ByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("ByUser: %v", err)
	}
	if len(records) != 1 || records[0].PaymentID != "pay_1" || records[0].Amount != 999 {
		t.Errorf("payment record: got %v", records)
	}
}

func TestPolar_SubscriptionCanceled(t *testing.T) {
	e := setup(t, stubVerifier{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := e.users.UpsertOnLogin(ctx, "user_buyer", "b@example.com", "Buyer"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := e.users.MarkSubscribed(ctx, "user_buyer", true, "monthly"); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}

	body := `{"type":"subscription.canceled","data":{"id":"sub_1","metadata":{"clerk_id":"user_buyer"}}}`
	rec := post(e.handler, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	got, err := e.users.GetByClerkID(ctx, "user_buyer")
	if err != nil {
		t.Fatalf("GetByClerkID: %v", err)
	}
	if got.IsSubscribed {
		t.Errorf("subscription still active after cancellation: %+v", got)
	}
}

func TestPolar_BadSignature(t *testing.T) {
	e := setup(t, stubVerifier{err: errors.New("signature mismatch")})

	body := `{"type":"order.created","data":{"id":"pay_1","amount":999,"metadata":{"clerk_id":"user_buyer"}}}`
	rec := post(e.handler, body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestPolar_UnknownUserAcked(t *testing.T) {
	e := setup(t, stubVerifier{})

	body := `{"type":"order.created","data":{"id":"pay_2","amount":999,"metadata":{"clerk_id":"user_unknown","plan":"monthly"}}}`
	rec := post(e.handler, body)
	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200 ack", rec.Code)
	}
}

func TestPolar_UnknownEventAcked(t *testing.T) {
	e := setup(t, stubVerifier{})

	rec := post(e.handler, `{"type":"benefit.granted","data":{"id":"x"}}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
}
