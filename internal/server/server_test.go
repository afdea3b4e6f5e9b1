package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/bugasmarcondes/taskade-backend/internal/auth"
	"github.com/bugasmarcondes/taskade-backend/internal/server"
	"github.com/bugasmarcondes/taskade-backend/internal/service"
	"github.com/bugasmarcondes/taskade-backend/internal/store/storetest"
)

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	tokens := auth.NewTokenService("test-secret")
	st := storetest.New()
	svc := service.New(tokens)
	resolver := &service.IdentityResolver{Store: st, Tokens: tokens}
	logger := log.New(io.Discard)
	return server.New(svc, resolver, st, logger).Handler()
}

// query posts an operation envelope and decodes the JSON response.
func query(t *testing.T, handler http.Handler, token, operation string, input any) (int, map[string]any) {
	t.Helper()
	body, err := json.Marshal(map[string]any{"operation": operation, "input": input})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest("POST", "/api/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec.Code, resp
}

func TestHealth(t *testing.T) {
	handler := newHandler(t)
	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
}

func TestSignUpAndAuthenticatedFlow(t *testing.T) {
	handler := newHandler(t)

	code, resp := query(t, handler, "", "signUp", map[string]any{
		"email": "a@x.com", "password": "pw1", "name": "Alice",
	})
	if code != http.StatusOK {
		t.Fatalf("sign up status %d, resp %v", code, resp)
	}
	data := resp["data"].(map[string]any)
	token := data["token"].(string)
	if token == "" {
		t.Fatal("sign up should return a token")
	}

	code, resp = query(t, handler, token, "createTaskList", map[string]any{"title": "Groceries"})
	if code != http.StatusOK {
		t.Fatalf("create task list status %d, resp %v", code, resp)
	}
	list := resp["data"].(map[string]any)
	if list["title"] != "Groceries" {
		t.Errorf("got title %v, want Groceries", list["title"])
	}

	code, resp = query(t, handler, token, "myTaskLists", nil)
	if code != http.StatusOK {
		t.Fatalf("my task lists status %d, resp %v", code, resp)
	}
	lists := resp["data"].([]any)
	if len(lists) != 1 {
		t.Fatalf("got %d lists, want 1", len(lists))
	}
}

func TestAnonymousMutationRejected(t *testing.T) {
	handler := newHandler(t)

	code, resp := query(t, handler, "", "createTaskList", map[string]any{"title": "Nope"})
	if code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", code)
	}
	errObj := resp["error"].(map[string]any)
	if errObj["type"] != "AuthenticationError" {
		t.Errorf("got error type %v, want AuthenticationError", errObj["type"])
	}
}

func TestInvalidBearerIsAnonymousNotRejected(t *testing.T) {
	handler := newHandler(t)

	// A bad token must not fail at the transport; it degrades to anonymous
	// and only the operation's own auth check fires.
	code, resp := query(t, handler, "invalid.token.here", "myTaskLists", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401 from the operation", code)
	}
	errObj := resp["error"].(map[string]any)
	if errObj["type"] != "AuthenticationError" {
		t.Errorf("got error type %v, want AuthenticationError", errObj["type"])
	}
}

func TestUnknownTaskListIsNullData(t *testing.T) {
	handler := newHandler(t)

	_, resp := query(t, handler, "", "signUp", map[string]any{
		"email": "a@x.com", "password": "pw1", "name": "Alice",
	})
	token := resp["data"].(map[string]any)["token"].(string)

	code, resp := query(t, handler, token, "getTaskList", map[string]any{"id": "64a0f1c2d3e4f5a6b7c8d9e0"})
	if code != http.StatusOK {
		t.Fatalf("got status %d, want 200", code)
	}
	if data, present := resp["data"]; !present || data != nil {
		t.Errorf("got data %v, want null", data)
	}
}

func TestUnknownOperation(t *testing.T) {
	handler := newHandler(t)

	code, resp := query(t, handler, "", "frobnicate", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", code)
	}
	errObj := resp["error"].(map[string]any)
	if errObj["type"] != "BadRequest" {
		t.Errorf("got error type %v, want BadRequest", errObj["type"])
	}
}

func TestMalformedEnvelope(t *testing.T) {
	handler := newHandler(t)

	req := httptest.NewRequest("POST", "/api/query", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
}

func TestDuplicateSignUpIsValidationError(t *testing.T) {
	handler := newHandler(t)

	input := map[string]any{"email": "a@x.com", "password": "pw1", "name": "Alice"}
	if code, resp := query(t, handler, "", "signUp", input); code != http.StatusOK {
		t.Fatalf("first sign up status %d, resp %v", code, resp)
	}
	code, resp := query(t, handler, "", "signUp", input)
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("got status %d, want 422", code)
	}
	errObj := resp["error"].(map[string]any)
	if errObj["type"] != "ValidationError" {
		t.Errorf("got error type %v, want ValidationError", errObj["type"])
	}
}
