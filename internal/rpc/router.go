package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"taxi24/internal/apperr"
	"taxi24/internal/logger"
	"taxi24/internal/metrics"
)

// HandlerFunc serves one message pattern. body is the raw JSON payload.
type HandlerFunc func(ctx context.Context, body []byte) (any, error)

// Router maps message patterns to handlers.
type Router struct {
	service  string
	handlers map[string]HandlerFunc
	log      logger.Logger
}

func NewRouter(service string, log logger.Logger) *Router {
	return &Router{
		service:  service,
		handlers: make(map[string]HandlerFunc),
		log:      log,
	}
}

// Handle registers h for pattern, replacing any previous handler.
func (r *Router) Handle(pattern string, h HandlerFunc) {
	r.handlers[pattern] = h
}

// Patterns returns the registered patterns in order.
func (r *Router) Patterns() []string {
	out := make([]string, 0, len(r.handlers))
	for p := range r.handlers {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Dispatch runs the handler registered for pattern and returns the encoded
// reply envelope. Failures are logged here and never escape as Go errors.
func (r *Router) Dispatch(ctx context.Context, pattern string, body []byte) []byte {
	start := time.Now()
	ctx = logger.WithAction(ctx, pattern)

	reply, status := r.dispatch(ctx, pattern, body)
	metrics.RecordRPC(r.service, pattern, status, time.Since(start))
	return reply
}

func (r *Router) dispatch(ctx context.Context, pattern string, body []byte) (reply []byte, status int) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("handler panic: %v", rec)
			r.log.Error(ctx, "rpc handler panicked", err)
			reply, status = encodeError(err), http.StatusBadRequest
		}
	}()

	h, ok := r.handlers[pattern]
	if !ok {
		r.log.Warn(ctx, "unknown rpc pattern", "pattern", pattern)
		return encodeError(ErrUnknownPattern), http.StatusBadRequest
	}

	result, err := h(ctx, body)
	if err == nil {
		reply, err = encodeData(result)
		if err == nil {
			return reply, http.StatusOK
		}
	}

	err = apperr.Classify(err)
	kind, _ := apperr.KindOf(err)
	if kind == apperr.KindBadRequest {
		r.log.Warn(ctx, "rpc request rejected", "error", err.Error())
	} else {
		r.log.Info(ctx, "rpc request failed", "error", err.Error(), "kind", kind.String())
	}
	return encodeError(err), kind.StatusCode()
}

// Bind decodes a JSON payload into a request struct. An empty body leaves v
// untouched.
func Bind(body []byte, v any) error {
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apperr.Wrap(apperr.KindBadRequest, "invalid request payload", err)
	}
	return nil
}
