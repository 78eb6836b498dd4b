package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"taxi24/internal/apperr"
	"taxi24/internal/logger"
	"taxi24/internal/repository"
)

func TestRouter_Dispatch(t *testing.T) {
	t.Parallel()

	r := NewRouter("test", logger.Nop())
	r.Handle("echo", func(_ context.Context, body []byte) (any, error) {
		var in map[string]string
		if err := Bind(body, &in); err != nil {
			return nil, err
		}
		return in, nil
	})
	r.Handle("missing", func(context.Context, []byte) (any, error) {
		return nil, repository.ErrNotFound
	})
	r.Handle("busy", func(context.Context, []byte) (any, error) {
		return nil, apperr.InvalidState("Trip is not active")
	})
	r.Handle("boom", func(context.Context, []byte) (any, error) {
		panic("boom")
	})

	tests := []struct {
		name       string
		pattern    string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "success", pattern: "echo", body: `{"a":"b"}`, wantStatus: http.StatusOK},
		{name: "bad payload", pattern: "echo", body: `{`, wantStatus: http.StatusBadRequest, wantMsg: "invalid request payload"},
		{name: "not found", pattern: "missing", wantStatus: http.StatusNotFound, wantMsg: "resource not found"},
		{name: "invalid state", pattern: "busy", wantStatus: http.StatusConflict, wantMsg: "Trip is not active"},
		{name: "unknown pattern", pattern: "nope", wantStatus: http.StatusBadRequest, wantMsg: "unknown message pattern"},
		{name: "panic", pattern: "boom", wantStatus: http.StatusBadRequest, wantMsg: "handler panic: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var env Envelope
			if err := json.Unmarshal(r.Dispatch(context.Background(), tt.pattern, []byte(tt.body)), &env); err != nil {
				t.Fatalf("reply is not an envelope: %v", err)
			}

			if tt.wantStatus == http.StatusOK {
				if env.Error != nil {
					t.Fatalf("unexpected error %+v", env.Error)
				}
				if string(env.Data) != tt.body {
					t.Errorf("expected data %s, got %s", tt.body, env.Data)
				}
				return
			}

			if env.Error == nil {
				t.Fatalf("expected error envelope, got data %s", env.Data)
			}
			if env.Error.StatusCode != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, env.Error.StatusCode)
			}
			if env.Error.Message != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, env.Error.Message)
			}
		})
	}
}

func TestDecodeEnvelope_RemoteErrorKeepsKind(t *testing.T) {
	t.Parallel()

	for _, kind := range []apperr.Kind{apperr.KindNotFound, apperr.KindInvalidState, apperr.KindBadRequest} {
		reply := encodeError(&apperr.Error{Kind: kind, Message: "msg"})

		status, err := decodeEnvelope(reply, nil)
		if status != kind.StatusCode() {
			t.Errorf("%s: expected status %d, got %d", kind, kind.StatusCode(), status)
		}

		var remote *RemoteError
		if !errors.As(err, &remote) {
			t.Fatalf("%s: expected *RemoteError, got %T", kind, err)
		}
		if remote.Label != kind.String() || remote.Message != "msg" {
			t.Errorf("%s: unexpected remote error %+v", kind, remote)
		}
		if got, _ := apperr.KindOf(err); got != kind {
			t.Errorf("expected kind %s, got %s", kind, got)
		}
	}
}

func TestRouter_PatternsSorted(t *testing.T) {
	t.Parallel()

	r := NewRouter("test", logger.Nop())
	noop := func(context.Context, []byte) (any, error) { return nil, nil }
	r.Handle("get_trips", noop)
	r.Handle("complete_trip", noop)
	r.Handle("get_drivers", noop)

	got := r.Patterns()
	want := []string{"complete_trip", "get_drivers", "get_trips"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}
