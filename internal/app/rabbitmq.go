package app

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"taxi24/internal/config"
	"taxi24/internal/logger"
)

const rabbitDialAttempts = 5

// NewRabbitConnection dials RabbitMQ, retrying with a growing delay while the
// broker is still starting. name shows up in the management UI.
func NewRabbitConnection(ctx context.Context, cfg config.RabbitMQConfig, name string, log logger.Logger) (*amqp.Connection, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	for i := range rabbitDialAttempts {
		conn, err = amqp.DialConfig(cfg.URL, amqp.Config{
			Heartbeat: 10 * time.Second,
			Properties: amqp.Table{
				"connection_name": name,
			},
		})
		if err == nil {
			break
		}

		wait := time.Duration(i+1) * 2 * time.Second
		log.Warn(ctx, "rabbitmq dial failed, retrying", "attempt", i+1, "wait", wait.String(), "error", err.Error())

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		if cerr := <-closed; cerr != nil {
			log.Error(context.Background(), "rabbitmq connection closed", cerr)
		}
	}()

	log.Info(ctx, "connected to rabbitmq")
	return conn, nil
}
