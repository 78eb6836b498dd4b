package rpc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	amqp "github.com/rabbitmq/amqp091-go"

	"taxi24/internal/logger"
)

const (
	// DirectReplyTo is RabbitMQ's pseudo-queue for request/reply without a
	// dedicated reply queue.
	DirectReplyTo = "amq.rabbitmq.reply-to"

	headerRequestID = "x-request-id"
	contentTypeJSON = "application/json"
	handlerTimeout  = 30 * time.Second
)

// Server consumes requests from a queue and answers on the ReplyTo address
// of each message.
type Server struct {
	conn     *amqp.Connection
	queue    string
	prefetch int
	router   *Router
	nrApp    *newrelic.Application
	log      logger.Logger
}

func NewServer(conn *amqp.Connection, queue string, prefetch int, router *Router, log logger.Logger) *Server {
	if prefetch <= 0 {
		prefetch = 1
	}
	return &Server{
		conn:     conn,
		queue:    queue,
		prefetch: prefetch,
		router:   router,
		log:      log,
	}
}

// WithNewRelic records every handled request as a background transaction.
func (s *Server) WithNewRelic(app *newrelic.Application) *Server {
	s.nrApp = app
	return s
}

// Run declares the request queue and serves it until ctx is cancelled or the
// channel closes. In-flight requests are answered before Run returns.
func (s *Server) Run(ctx context.Context) error {
	ch, err := s.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if _, err := DeclareQueue(ch, s.queue); err != nil {
		return err
	}
	if err := ch.Qos(s.prefetch, 0, false); err != nil {
		return fmt.Errorf("set prefetch %d: %w", s.prefetch, err)
	}

	const consumerTag = "taxi24-dispatch"
	deliveries, err := ch.Consume(
		s.queue,
		consumerTag,
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", s.queue, err)
	}

	closed := ch.NotifyClose(make(chan *amqp.Error, 1))
	s.log.Info(ctx, "rpc server consuming", "queue", s.queue, "prefetch", s.prefetch, "patterns", s.router.Patterns())

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			_ = ch.Cancel(consumerTag, false)
			return nil

		case cerr := <-closed:
			if cerr != nil {
				return fmt.Errorf("channel closed while consuming %s: %w", s.queue, cerr)
			}
			return nil

		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.serve(ctx, ch, d)
			}()
		}
	}
}

func (s *Server) serve(ctx context.Context, ch *amqp.Channel, d amqp.Delivery) {
	// Replies must go out even while shutting down.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), handlerTimeout)
	defer cancel()

	if id, ok := d.Headers[headerRequestID].(string); ok && id != "" {
		ctx = logger.WithRequestID(ctx, id)
	} else if d.CorrelationId != "" {
		ctx = logger.WithRequestID(ctx, d.CorrelationId)
	}

	if s.nrApp != nil {
		txn := s.nrApp.StartTransaction("rpc/" + d.Type)
		defer txn.End()
		ctx = newrelic.NewContext(ctx, txn)
	}

	reply := s.router.Dispatch(ctx, d.Type, d.Body)

	if d.ReplyTo != "" {
		err := ch.PublishWithContext(ctx, "", d.ReplyTo, false, false, amqp.Publishing{
			ContentType:   contentTypeJSON,
			CorrelationId: d.CorrelationId,
			Timestamp:     time.Now(),
			Body:          reply,
		})
		if err != nil {
			s.log.Error(ctx, "failed to publish rpc reply", err, "pattern", d.Type)
		}
	} else {
		s.log.Warn(ctx, "rpc request without reply address", "pattern", d.Type)
	}

	if err := d.Ack(false); err != nil {
		s.log.Error(ctx, "failed to ack rpc request", err, "pattern", d.Type)
	}
}

// DeclareQueue declares the durable request queue.
func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("declare queue %s: %w", name, err)
	}
	return q, nil
}
