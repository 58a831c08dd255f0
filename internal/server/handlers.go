package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ildarkit/hw3/internal/method"
)

// statusPhrases are the standard error strings rendered when a handler
// produced no message of its own.
var statusPhrases = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusUnprocessableEntity: "Invalid Request",
	http.StatusInternalServerError: "Internal Server Error",
}

// APIHandlers exposes the HTTP handlers of the scoring API.
type APIHandlers struct {
	logger     *slog.Logger
	dispatcher *method.Dispatcher
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, dispatcher *method.Dispatcher) *APIHandlers {
	return &APIHandlers{
		logger:     logger,
		dispatcher: dispatcher,
	}
}

func (h *APIHandlers) handleMethod(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	rctx := &method.RequestContext{RequestID: requestID(r)}

	body, err := decodeBody(r)
	if err != nil {
		h.logger.Info("malformed request body",
			"error", err,
			"request_id", rctx.RequestID,
		)
		writeEnvelope(w, nil, http.StatusBadRequest)
		return
	}

	payload, code := h.dispatcher.Dispatch(r.Context(), body, rctx)

	h.logger.Info("method dispatched",
		"code", code,
		"request_id", rctx.RequestID,
		"has", rctx.Has,
		"nclients", rctx.ClientCount,
	)
	writeEnvelope(w, payload, code)
}

// decodeBody parses the request body with UseNumber so integer and float
// literals stay distinguishable for the validators.
func decodeBody(r *http.Request) (map[string]any, error) {
	defer r.Body.Close()

	var body map[string]any
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

// requestID honours a caller-provided X-Request-Id and generates one otherwise.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-Id"); id != "" {
		return id
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// writeEnvelope renders the response contract: {"response": ..., "code": 200}
// on success, {"error": ..., "code": ...} otherwise. The HTTP status mirrors
// the envelope code.
func writeEnvelope(w http.ResponseWriter, payload any, code int) {
	var body map[string]any
	if code < http.StatusBadRequest {
		body = map[string]any{"response": payload, "code": code}
	} else {
		msg, ok := payload.(string)
		if !ok || msg == "" {
			if msg = statusPhrases[code]; msg == "" {
				msg = http.StatusText(code)
			}
		}
		body = map[string]any{"error": msg, "code": code}
	}
	respondJSON(w, code, body)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeEnvelope(w, "method not allowed", http.StatusMethodNotAllowed)
}
