package method

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ildarkit/hw3/internal/schema"
	"github.com/ildarkit/hw3/internal/scoring"
	"github.com/ildarkit/hw3/internal/store"
)

// adminScore is returned to the admin principal without consulting the store.
const adminScore = 42

// RequestContext carries auxiliary dispatch data computed while routing a
// request. It is logged for observability and never returned in the body.
type RequestContext struct {
	RequestID string
	// Has lists the optional scoring fields that were supplied.
	Has []string
	// ClientCount is the number of distinct client ids requested.
	ClientCount int
}

// Dispatcher binds the outer envelope, authenticates it, and routes the
// method's arguments to its handler. It holds no per-request state and is
// safe for concurrent use as long as the store is.
type Dispatcher struct {
	store  store.Store
	auth   *Authenticator
	logger *slog.Logger
}

// NewDispatcher constructs a Dispatcher over the given store and authenticator.
func NewDispatcher(st store.Store, auth *Authenticator, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{store: st, auth: auth, logger: logger}
}

// Dispatch processes one raw request body to completion and returns the
// response payload with its code. A nil payload on a non-200 code means the
// caller should render the standard phrase for that code.
func (d *Dispatcher) Dispatch(ctx context.Context, body map[string]any, rctx *RequestContext) (any, int) {
	rec, err := schema.Bind(methodSchema, body)
	if err != nil {
		return err.Error(), http.StatusUnprocessableEntity
	}
	req := methodRequestFromRecord(rec)

	if !d.auth.Check(req) {
		d.logger.Info("authentication failed",
			"login", req.Login,
			"request_id", rctx.RequestID,
		)
		return nil, http.StatusForbidden
	}

	switch req.Method {
	case MethodOnlineScore:
		return d.onlineScore(ctx, req, rctx)
	case MethodClientsInterests:
		return d.clientsInterests(ctx, req, rctx)
	default:
		return "method " + strconv.Quote(req.Method) + " is not supported", http.StatusNotFound
	}
}

func (d *Dispatcher) onlineScore(ctx context.Context, req MethodRequest, rctx *RequestContext) (any, int) {
	rec, err := schema.Bind(onlineScoreSchema, req.Arguments)
	if err != nil {
		return err.Error(), http.StatusUnprocessableEntity
	}
	args := onlineScoreFromRecord(rec)
	if !args.HasFullPair() {
		return "arguments must contain at least one full pair: " +
				"phone-email, first_name-last_name or birthday-gender",
			http.StatusUnprocessableEntity
	}

	for _, def := range onlineScoreSchema {
		if rec.Present(def.Name) {
			rctx.Has = append(rctx.Has, def.Name)
		}
	}

	if req.IsAdmin() {
		return map[string]any{"score": adminScore}, http.StatusOK
	}

	score := scoring.Score(ctx, d.store, scoring.Person{
		FirstName: args.FirstName,
		LastName:  args.LastName,
		Email:     args.Email,
		Phone:     args.Phone,
		Birthday:  args.Birthday,
		Gender:    args.Gender,
	})
	return map[string]any{"score": score}, http.StatusOK
}

func (d *Dispatcher) clientsInterests(ctx context.Context, req MethodRequest, rctx *RequestContext) (any, int) {
	rec, err := schema.Bind(clientsInterestsSchema, req.Arguments)
	if err != nil {
		return err.Error(), http.StatusUnprocessableEntity
	}
	args := clientsInterestsFromRecord(rec)

	ids := distinct(args.ClientIDs)
	rctx.ClientCount = len(ids)

	resp := make(map[string][]string, len(ids))
	for _, id := range ids {
		interests, err := scoring.Interests(ctx, d.store, id)
		if err != nil {
			d.logger.Error("interests lookup failed",
				"error", err,
				"client_id", id,
				"request_id", rctx.RequestID,
			)
			return nil, http.StatusInternalServerError
		}
		resp[strconv.FormatInt(id, 10)] = interests
	}
	return resp, http.StatusOK
}

// distinct collapses duplicates while keeping first-seen order.
func distinct(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
