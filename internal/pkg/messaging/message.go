package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"

	"github.com/shandysiswandi/estatenotify/internal/pkg/stacktrace"
)

// message is the Message shared by every driver. ack and nack run at most
// once between them.
type message struct {
	id       string
	body     []byte
	headers  map[string]string
	attempts int

	ack  func(ctx context.Context) error
	nack func(ctx context.Context) error

	settled atomic.Bool
}

func (m *message) ID() string                 { return m.id }
func (m *message) Body() []byte               { return m.body }
func (m *message) Headers() map[string]string { return m.headers }
func (m *message) Attempts() int              { return m.attempts }

func (m *message) Ack(ctx context.Context) error {
	if m.settled.Swap(true) || m.ack == nil {
		return nil
	}
	return m.ack(ctx)
}

func (m *message) Nack(ctx context.Context) error {
	if m.settled.Swap(true) || m.nack == nil {
		return nil
	}
	return m.nack(ctx)
}

// dispatch runs handler with panic recovery and settles msg from the result.
func dispatch(ctx context.Context, driver string, handler Handler, msg Message) {
	err := callWithRecover(ctx, driver, func() error { return handler(ctx, msg) })

	var settleErr error
	if err == nil {
		settleErr = msg.Ack(ctx)
	} else {
		settleErr = msg.Nack(ctx)
	}
	if settleErr != nil {
		slog.ErrorContext(ctx, "failed to settle message", "driver", driver, "id", msg.ID(), "error", settleErr)
	}
}

func callWithRecover(ctx context.Context, driver string, fn func() error) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}

		stack := debug.Stack()
		if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
			slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", paths)
		} else {
			slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", string(stack))
		}
		err = fmt.Errorf("messaging: panic in %s handler: %v", driver, rvr)
	}()

	return fn()
}

// envelope carries headers for brokers whose wire format has none (NSQ).
type envelope struct {
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"body"`
}

func encodeEnvelope(msg OutgoingMessage) ([]byte, error) {
	return json.Marshal(envelope{Headers: msg.Headers, Body: msg.Body})
}

// decodeEnvelope falls back to treating raw as a bare body so messages
// published by other tools are still readable.
func decodeEnvelope(raw []byte) (map[string]string, []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Body == nil {
		return nil, raw
	}
	return env.Headers, env.Body
}
