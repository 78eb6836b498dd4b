package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/newrelic/go-agent/v3/newrelic"
	amqp "github.com/rabbitmq/amqp091-go"

	"taxi24/internal/logger"
	"taxi24/internal/metrics"
)

// DefaultTimeout bounds a call when the client is built without one.
const DefaultTimeout = 10 * time.Second

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Client sends requests to the dispatch queue and waits for the correlated
// reply. It is safe for concurrent use.
type Client struct {
	service string
	queue   string
	timeout time.Duration
	pub     publisher
	log     logger.Logger

	mu      sync.Mutex
	pending map[string]chan []byte
	closed  bool
	closeCh func() error
}

// NewClient opens a channel on conn and starts consuming replies from the
// direct reply-to pseudo-queue.
func NewClient(conn *amqp.Connection, service, queue string, timeout time.Duration, log logger.Logger) (*Client, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := DeclareQueue(ch, queue); err != nil {
		_ = ch.Close()
		return nil, err
	}

	replies, err := ch.Consume(DirectReplyTo, "", true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consume %s: %w", DirectReplyTo, err)
	}

	c := newClient(ch, service, queue, timeout, log)
	c.closeCh = ch.Close

	go func() {
		for d := range replies {
			c.deliver(d.CorrelationId, d.Body)
		}
		c.shutdown()
	}()

	return c, nil
}

func newClient(pub publisher, service, queue string, timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		service: service,
		queue:   queue,
		timeout: timeout,
		pub:     pub,
		log:     log,
		pending: make(map[string]chan []byte),
	}
}

// Call publishes payload under pattern and decodes the reply data into out.
// A reply carrying an error envelope is returned as *RemoteError.
func (c *Client) Call(ctx context.Context, pattern string, payload, out any) error {
	start := time.Now()
	status, err := c.call(ctx, pattern, payload, out)
	metrics.RecordRPC(c.service, pattern, status, time.Since(start))
	return err
}

func (c *Client) call(ctx context.Context, pattern string, payload, out any) (int, error) {
	defer newrelic.FromContext(ctx).StartSegment("rpc/" + pattern).End()

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal %s payload: %w", pattern, err)
	}

	correlationID := uuid.NewString()
	replyCh := make(chan []byte, 1)
	if err := c.register(correlationID, replyCh); err != nil {
		return 0, err
	}
	defer c.unregister(correlationID)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err = c.pub.PublishWithContext(ctx, "", c.queue, false, false, amqp.Publishing{
		ContentType:   contentTypeJSON,
		CorrelationId: correlationID,
		ReplyTo:       DirectReplyTo,
		Type:          pattern,
		Timestamp:     time.Now(),
		Headers:       amqp.Table{headerRequestID: logger.RequestID(ctx)},
		Body:          body,
	})
	if err != nil {
		return 0, fmt.Errorf("publish %s: %w", pattern, err)
	}

	select {
	case reply, ok := <-replyCh:
		if !ok {
			return 0, ErrClosed
		}
		return decodeEnvelope(reply, out)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.log.Warn(ctx, "rpc call timed out", "pattern", pattern, "timeout", c.timeout.String())
			return http.StatusGatewayTimeout, ErrTimeout
		}
		return 0, ctx.Err()
	}
}

func (c *Client) register(id string, ch chan []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.pending[id] = ch
	return nil
}

func (c *Client) unregister(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// deliver hands a reply to the waiting call. Replies for calls that already
// gave up are dropped.
func (c *Client) deliver(correlationID string, body []byte) {
	c.mu.Lock()
	ch, ok := c.pending[correlationID]
	delete(c.pending, correlationID)
	c.mu.Unlock()

	if ok {
		ch <- body
	}
}

func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

// Close fails pending calls and closes the underlying channel.
func (c *Client) Close() error {
	c.shutdown()
	if c.closeCh != nil {
		return c.closeCh()
	}
	return nil
}
