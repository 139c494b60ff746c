package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AMQPQueue publishes jobs to a durable RabbitMQ queue and consumes them in
// the worker process.
type AMQPQueue struct {
	url    string
	queue  string
	logger *logrus.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPQueue(logger *logrus.Logger, url, queue string) *AMQPQueue {
	return &AMQPQueue{url: url, queue: queue, logger: logger}
}

func (q *AMQPQueue) channel() (*amqp.Channel, error) {
	if q.ch != nil && !q.ch.IsClosed() {
		return q.ch, nil
	}

	if q.conn == nil || q.conn.IsClosed() {
		conn, err := amqp.Dial(q.url)
		if err != nil {
			return nil, fmt.Errorf("dial broker: %w", err)
		}
		q.conn = conn
	}

	ch, err := q.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(q.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue %s: %w", q.queue, err)
	}

	q.ch = ch
	return ch, nil
}

func (q *AMQPQueue) Publish(ctx context.Context, job Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	ch, err := q.channel()
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    job.DeliveryID,
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", q.queue, false, false, pub); err != nil {
		return fmt.Errorf("publish job: %w", err)
	}

	return nil
}

// Consume hands every job to d until ctx is cancelled, reconnecting with
// backoff when the broker goes away. Messages are acked once the outcome is
// recorded and never requeued.
func (q *AMQPQueue) Consume(ctx context.Context, d *Dispatcher) error {
	backoff := time.Second
	for {
		err := q.consumeOnce(ctx, d)
		if ctx.Err() != nil {
			return nil
		}

		q.logger.WithError(err).WithField("retry_in", backoff.String()).Warn("notification consumer disconnected")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (q *AMQPQueue) consumeOnce(ctx context.Context, d *Dispatcher) error {
	conn, err := amqp.Dial(q.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		q.logger.WithError(err).Warn("failed to set consumer prefetch")
	}

	if _, err := ch.QueueDeclare(q.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", q.queue, err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, q.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", q.queue, err)
	}

	q.logger.WithField("queue", q.queue).Info("notification consumer started")

	for msg := range msgs {
		if !q.handle(ctx, d, msg.MessageId, msg.Body) {
			_ = msg.Nack(false, false)
			continue
		}
		_ = msg.Ack(false)
	}

	return errors.New("deliveries channel closed")
}

// handle reports whether the message should be acked. A job that has started
// sending always runs to completion so its row leaves the queued state, even
// when the worker is shutting down.
func (q *AMQPQueue) handle(ctx context.Context, d *Dispatcher, messageID string, body []byte) bool {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		q.logger.WithError(err).WithField("message_id", messageID).Error("dropping undecodable notification job")
		return false
	}

	// outcome is recorded by the dispatcher
	return d.Deliver(context.WithoutCancel(ctx), job) == nil
}

func (q *AMQPQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	var errs []error
	if q.ch != nil {
		errs = append(errs, q.ch.Close())
	}
	if q.conn != nil {
		errs = append(errs, q.conn.Close())
	}
	q.ch, q.conn = nil, nil

	return errors.Join(errs...)
}
