package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ildarkit/hw3/internal/method"
	"github.com/ildarkit/hw3/internal/store"
)

const (
	testSalt      = "Otus"
	testAdminSalt = "42"
)

func newTestRouter(st store.Store) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auth := method.NewAuthenticator(testSalt, testAdminSalt)
	dispatcher := method.NewDispatcher(st, auth, logger)
	return NewRouter(logger, RouterDependencies{
		Health: StoreHealthService{Store: st},
		API:    NewAPIHandlers(logger, dispatcher),
	})
}

type envelope struct {
	Response map[string]any `json:"response"`
	Error    string         `json:"error"`
	Code     int            `json:"code"`
}

func postMethod(t *testing.T, router http.Handler, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if raw, ok := body.(string); ok {
		buf.WriteString(raw)
	} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("failed to encode body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/method", &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func TestHandleMethodMalformedBody(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore())

	rec, env := postMethod(t, router, "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if env.Error != "Bad Request" || env.Code != http.StatusBadRequest {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestHandleMethodScoreRoundTrip(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore())

	body := map[string]any{
		"account": "horns&hoofs",
		"login":   "h&f",
		"method":  "online_score",
		"token":   method.Token("horns&hoofs", "h&f", testSalt),
		"arguments": map[string]any{
			"phone":      "79175002040",
			"email":      "a@b.com",
			"first_name": "A",
			"last_name":  "B",
			"birthday":   "01.01.1990",
			"gender":     1,
		},
	}

	rec, env := postMethod(t, router, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if env.Code != http.StatusOK {
		t.Fatalf("unexpected envelope code %d", env.Code)
	}
	if score := env.Response["score"].(float64); score != 5.0 {
		t.Fatalf("expected score 5.0, got %v", score)
	}
}

func TestHandleMethodForbidden(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore())

	body := map[string]any{
		"account":   "horns&hoofs",
		"login":     "h&f",
		"method":    "online_score",
		"token":     "wrong",
		"arguments": map[string]any{"phone": "79175002040", "email": "a@b.com"},
	}

	rec, env := postMethod(t, router, body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
	if env.Error != "Forbidden" {
		t.Fatalf("expected the standard phrase, got %q", env.Error)
	}
}

func TestHandleMethodValidationError(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore())

	rec, env := postMethod(t, router, map[string]any{"account": "horns&hoofs"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	if !strings.Contains(env.Error, "login") {
		t.Fatalf("expected the error to name the missing field, got %q", env.Error)
	}
}

func TestHandleMethodRejectsNonPost(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/method", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
		t.Fatalf("expected Allow: POST, got %q", allow)
	}
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if env.Error != "Not Found" || env.Code != http.StatusNotFound {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestHealthzDegraded(t *testing.T) {
	st := store.NewMemoryStore().WithUnavailable(io.ErrUnexpectedEOF)
	router := newTestRouter(st)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestHandleMethodClientsInterests(t *testing.T) {
	st := store.NewMemoryStore()
	st.SetList("i:1", []string{"books"})
	st.SetList("i:2", []string{"travel", "music"})
	router := newTestRouter(st)

	body := map[string]any{
		"account": "horns&hoofs",
		"login":   "h&f",
		"method":  "clients_interests",
		"token":   method.Token("horns&hoofs", "h&f", testSalt),
		"arguments": map[string]any{
			"client_ids": []int{1, 1, 2},
		},
	}

	rec, env := postMethod(t, router, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if len(env.Response) != 2 {
		t.Fatalf("expected interests for two distinct clients, got %v", env.Response)
	}
	first := env.Response["1"].([]any)
	if len(first) != 1 || first[0].(string) != "books" {
		t.Fatalf("unexpected interests for client 1: %v", first)
	}
}

func TestRecoverMiddlewarePanic(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := recoverMiddleware(logger, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodPost, "/method", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	if env.Error != "Internal Server Error" || env.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}
