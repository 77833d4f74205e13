package httpjson_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/redteahq/redtea/internal/app/system/httpjson"
)

func TestRespond(t *testing.T) {
	rec := httptest.NewRecorder()
	httpjson.Respond(rec, http.StatusCreated, map[string]string{"id": "abc"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusCreated)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["id"] != "abc" {
		t.Errorf("body: got %v", body)
	}
}

func TestFail_StatusMapping(t *testing.T) {
	cases := []struct {
		kind string
		want int
	}{
		{httpjson.KindInvalidRequest, http.StatusBadRequest},
		{httpjson.KindUnauthorized, http.StatusUnauthorized},
		{httpjson.KindNotFound, http.StatusNotFound},
		{httpjson.KindConflict, http.StatusConflict},
		{httpjson.KindPreconditionFailed, http.StatusPreconditionFailed},
		{httpjson.KindUpstreamFailure, http.StatusBadGateway},
		{httpjson.KindInternal, http.StatusInternalServerError},
		{"bogus", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		httpjson.Fail(rec, tc.kind, "boom")
		if rec.Code != tc.want {
			t.Errorf("Fail(%q): got status %d, want %d", tc.kind, rec.Code, tc.want)
		}
		var env struct {
			Error struct {
				Kind    string `json:"kind"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("Fail(%q): unmarshal: %v", tc.kind, err)
		}
		if env.Error.Message != "boom" {
			t.Errorf("Fail(%q): message %q", tc.kind, env.Error.Message)
		}
	}
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"hi","bogus":1}`))
	var body struct {
		Text string `json:"text"`
	}
	if err := httpjson.Decode(req, &body); err == nil {
		t.Error("expected error for unknown field, got nil")
	}
}

func TestDecode_OK(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"hi"}`))
	var body struct {
		Text string `json:"text"`
	}
	if err := httpjson.Decode(req, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Text != "hi" {
		t.Errorf("text: got %q", body.Text)
	}
}
