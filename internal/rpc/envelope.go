// Package rpc carries request/reply calls between the gateway and the
// dispatch service over RabbitMQ.
package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"taxi24/internal/apperr"
)

// Envelope is the body of every reply.
type Envelope struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error *ErrorBody      `json:"error,omitempty"`
}

// ErrorBody describes a failed call.
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// RemoteError is a failure reported by the other side of a call.
type RemoteError struct {
	StatusCode int
	Label      string
	Message    string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Unwrap exposes the classified form so errors.Is(err, apperr.ErrNotFound)
// works on the caller side.
func (e *RemoteError) Unwrap() error {
	return &apperr.Error{Kind: apperr.KindFromStatus(e.StatusCode), Message: e.Message}
}

var (
	ErrTimeout        = errors.New("rpc: request timed out")
	ErrClosed         = errors.New("rpc: client closed")
	ErrUnknownPattern = apperr.BadRequest("unknown message pattern")
)

func encodeData(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal reply data: %w", err)
	}
	return json.Marshal(Envelope{Data: data})
}

func encodeError(err error) []byte {
	classified := apperr.Classify(err)
	kind, _ := apperr.KindOf(classified)
	body, mErr := json.Marshal(Envelope{Error: &ErrorBody{
		StatusCode: kind.StatusCode(),
		Error:      kind.String(),
		Message:    classified.Error(),
	}})
	if mErr != nil {
		// ErrorBody only holds strings and an int.
		return []byte(`{"error":{"statusCode":500,"error":"internal","message":"encode error"}}`)
	}
	return body
}

func decodeEnvelope(body []byte, out any) (int, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return 0, fmt.Errorf("decode reply: %w", err)
	}
	if env.Error != nil {
		return env.Error.StatusCode, &RemoteError{
			StatusCode: env.Error.StatusCode,
			Label:      env.Error.Error,
			Message:    env.Error.Message,
		}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return http.StatusOK, fmt.Errorf("decode reply data: %w", err)
		}
	}
	return http.StatusOK, nil
}
