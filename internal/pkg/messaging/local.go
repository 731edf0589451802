package messaging

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// ErrBacklogFull is returned when a topic without consumers has buffered LocalConfig.Buffer messages.
var ErrBacklogFull = errors.New("messaging: local backlog is full")

const defaultLocalGroup = "default"

// LocalConfig configures the in-process broker.
type LocalConfig struct {
	// Buffer is the per-group queue size and the backlog kept for topics
	// nobody consumes yet.
	Buffer int
	// MaxAttempts caps deliveries of a nacked message before it is dropped.
	MaxAttempts int
	// RedeliveryDelay is the pause before a nacked message is queued again.
	RedeliveryDelay time.Duration
}

// Local is an in-process broker. Every consumer group of a topic receives
// each message once; consumers sharing a group compete for messages.
type Local struct {
	cfg LocalConfig
	seq *atomic.Uint64

	mu     sync.Mutex
	topics map[string]*localTopic
	closed bool
	done   chan struct{}
}

type localTopic struct {
	groups  map[string]chan *localDelivery
	backlog []*localDelivery
}

type localDelivery struct {
	id       string
	body     []byte
	headers  map[string]string
	attempts int
}

func NewLocal(cfg LocalConfig) *Local {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 256
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.RedeliveryDelay < 0 {
		cfg.RedeliveryDelay = 0
	}

	return &Local{
		cfg:    cfg,
		seq:    atomic.NewUint64(0),
		topics: make(map[string]*localTopic),
		done:   make(chan struct{}),
	}
}

func (l *Local) topic(name string) *localTopic {
	t, ok := l.topics[name]
	if !ok {
		t = &localTopic{groups: make(map[string]chan *localDelivery)}
		l.topics[name] = t
	}
	return t
}

func (l *Local) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}

	id := strconv.FormatUint(l.seq.Inc(), 10)
	newDelivery := func() *localDelivery {
		return &localDelivery{
			id:      id,
			body:    append([]byte(nil), msg.Body...),
			headers: maps.Clone(msg.Headers),
		}
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return PublishResult{}, ErrClosed
	}

	t := l.topic(destination)
	if len(t.groups) == 0 {
		if len(t.backlog) >= l.cfg.Buffer {
			l.mu.Unlock()
			return PublishResult{}, ErrBacklogFull
		}
		t.backlog = append(t.backlog, newDelivery())
		l.mu.Unlock()
		return PublishResult{MessageID: id, Destination: destination, Timestamp: time.Now()}, nil
	}

	queues := make([]chan *localDelivery, 0, len(t.groups))
	for _, q := range t.groups {
		queues = append(queues, q)
	}
	l.mu.Unlock()

	for _, q := range queues {
		select {
		case q <- newDelivery():
		case <-ctx.Done():
			return PublishResult{}, ctx.Err()
		case <-l.done:
			return PublishResult{}, ErrClosed
		}
	}

	return PublishResult{MessageID: id, Destination: destination, Timestamp: time.Now()}, nil
}

func (l *Local) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	group := co.group
	if group == "" {
		group = defaultLocalGroup
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	t := l.topic(source)
	q, ok := t.groups[group]
	if !ok {
		q = make(chan *localDelivery, l.cfg.Buffer)
		t.groups[group] = q
		for _, d := range t.backlog {
			q <- d
		}
		t.backlog = nil
	}
	l.mu.Unlock()

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-l.done:
					return
				case d := <-q:
					dispatch(ctx, DriverLocal, handler, l.wrap(q, d))
				}
			}
		})
	}
	wg.Wait()

	return ctx.Err()
}

func (l *Local) wrap(q chan *localDelivery, d *localDelivery) *message {
	d.attempts++
	return &message{
		id:       d.id,
		body:     d.body,
		headers:  d.headers,
		attempts: d.attempts,
		nack: func(ctx context.Context) error {
			if d.attempts >= l.cfg.MaxAttempts {
				slog.WarnContext(ctx, "local message dropped after max attempts", "id", d.id, "attempts", d.attempts)
				return nil
			}
			time.AfterFunc(l.cfg.RedeliveryDelay, func() {
				select {
				case q <- d:
				case <-l.done:
				}
			})
			return nil
		},
	}
}

// Close stops every consumer and rejects further publishes.
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.closed {
		l.closed = true
		close(l.done)
	}
	return nil
}
