package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi24/internal/apperr"
	"taxi24/internal/logger"
	"taxi24/internal/rpc"
)

// Caller sends one request to the dispatch service and decodes the reply
// data into out.
type Caller interface {
	Call(ctx context.Context, pattern string, payload, out any) error
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// relay forwards payload under pattern and writes the dispatch reply as is.
func relay(c *gin.Context, caller Caller, log logger.Logger, pattern string, payload any, code int) {
	var data json.RawMessage
	if err := caller.Call(c.Request.Context(), pattern, payload, &data); err != nil {
		respondError(c, log, err)
		return
	}
	respondJSON(c, code, data)
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, log logger.Logger, err error) {
	resp := mapError(err)
	if resp.StatusCode >= http.StatusInternalServerError {
		log.Error(c.Request.Context(), "dispatch call failed", err, "path", c.FullPath())
		_ = c.Error(err)
	}
	c.JSON(resp.StatusCode, resp)
}

// respondBindError reports a request that failed binding or validation.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Error:      apperr.KindBadRequest.String(),
		Message:    err.Error(),
	})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapError maps dispatch and transport errors to the response body.
func mapError(err error) ErrorResponse {
	var remote *rpc.RemoteError
	switch {
	case errors.As(err, &remote):
		return ErrorResponse{StatusCode: remote.StatusCode, Error: remote.Label, Message: remote.Message}
	case errors.Is(err, rpc.ErrTimeout):
		return ErrorResponse{
			StatusCode: http.StatusGatewayTimeout,
			Error:      "gateway timeout",
			Message:    "dispatch service did not answer in time",
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusServiceUnavailable,
			Error:      "service unavailable",
			Message:    "dispatch service is unavailable",
		}
	}
}
