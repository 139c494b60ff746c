package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent chan Message
	err  error
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(chan Message, 8)}
}

func (s *fakeSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.err != nil {
		return s.err
	}
	s.sent <- msg
	return nil
}

func queuedDelivery(deliveries *memoryDeliveries, id string) {
	deliveries.rows[id] = &types.NotificationDelivery{ID: id, ProjectID: "proj-1", Status: types.DeliveryQueued}
}

func TestDeliverMarksSent(t *testing.T) {
	deliveries := newMemoryDeliveries()
	queuedDelivery(deliveries, "d1")
	sender := newFakeSender()
	d := NewDispatcher(testLogger(), sender, deliveries)

	err := d.Deliver(context.Background(), Job{DeliveryID: "d1", Message: Message{To: "maria@example.com"}})
	require.NoError(t, err)

	assert.Equal(t, "maria@example.com", (<-sender.sent).To)
	assert.Equal(t, types.DeliverySent, deliveries.rows["d1"].Status)
	assert.Nil(t, deliveries.rows["d1"].Error)
}

func TestDeliverMarksFailedWithoutRetry(t *testing.T) {
	deliveries := newMemoryDeliveries()
	queuedDelivery(deliveries, "d1")
	sender := newFakeSender()
	sender.err = errors.New("mailbox unavailable")
	d := NewDispatcher(testLogger(), sender, deliveries)

	err := d.Deliver(context.Background(), Job{DeliveryID: "d1"})
	assert.ErrorContains(t, err, "mailbox unavailable")

	row := deliveries.rows["d1"]
	assert.Equal(t, types.DeliveryFailed, row.Status)
	require.NotNil(t, row.Error)
	assert.Equal(t, "mailbox unavailable", *row.Error)
}

func TestLocalQueueDrains(t *testing.T) {
	deliveries := newMemoryDeliveries()
	queuedDelivery(deliveries, "d1")
	queuedDelivery(deliveries, "d2")
	sender := newFakeSender()
	d := NewDispatcher(testLogger(), sender, deliveries)

	q := NewLocalQueue(testLogger(), 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		q.Run(ctx, d)
		close(done)
	}()

	require.NoError(t, q.Publish(ctx, Job{DeliveryID: "d1", Message: Message{To: "a@example.com"}}))
	require.NoError(t, q.Publish(ctx, Job{DeliveryID: "d2", Message: Message{To: "b@example.com"}}))

	for _, want := range []string{"a@example.com", "b@example.com"} {
		select {
		case msg := <-sender.sent:
			assert.Equal(t, want, msg.To)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}

	cancel()
	<-done
}

func TestAMQPHandleFinishesDeliveryDuringShutdown(t *testing.T) {
	deliveries := newMemoryDeliveries()
	queuedDelivery(deliveries, "d1")
	sender := newFakeSender()
	d := NewDispatcher(testLogger(), sender, deliveries)
	q := NewAMQPQueue(testLogger(), "amqp://unused", "notifications.email")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	body, err := json.Marshal(Job{DeliveryID: "d1", ProjectID: "proj-1", Message: Message{To: "maria@example.com"}})
	require.NoError(t, err)

	assert.True(t, q.handle(ctx, d, "m1", body))
	assert.Equal(t, "maria@example.com", (<-sender.sent).To)
	assert.Equal(t, types.DeliverySent, deliveries.rows["d1"].Status)
}

func TestAMQPHandleRejectsUndecodableJob(t *testing.T) {
	deliveries := newMemoryDeliveries()
	d := NewDispatcher(testLogger(), newFakeSender(), deliveries)
	q := NewAMQPQueue(testLogger(), "amqp://unused", "notifications.email")

	assert.False(t, q.handle(context.Background(), d, "m1", []byte("{not json")))
}

func TestAMQPHandleNacksFailedSend(t *testing.T) {
	deliveries := newMemoryDeliveries()
	queuedDelivery(deliveries, "d1")
	sender := newFakeSender()
	sender.err = errors.New("mailbox unavailable")
	d := NewDispatcher(testLogger(), sender, deliveries)
	q := NewAMQPQueue(testLogger(), "amqp://unused", "notifications.email")

	body, err := json.Marshal(Job{DeliveryID: "d1"})
	require.NoError(t, err)

	assert.False(t, q.handle(context.Background(), d, "m1", body))
	assert.Equal(t, types.DeliveryFailed, deliveries.rows["d1"].Status)
}

func TestLocalQueueFull(t *testing.T) {
	q := NewLocalQueue(testLogger(), 1)
	ctx := context.Background()

	require.NoError(t, q.Publish(ctx, Job{DeliveryID: "d1"}))
	assert.ErrorIs(t, q.Publish(ctx, Job{DeliveryID: "d2"}), ErrQueueFull)
}
