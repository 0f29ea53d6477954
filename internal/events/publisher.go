package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type Publisher interface {
	OrderCreated(p OrderCreatedPayload)
	OrderStatusChanged(p OrderStatusChangedPayload)
}

// Nop is wired when no brokers are configured.
type Nop struct{}

func (Nop) OrderCreated(OrderCreatedPayload)             {}
func (Nop) OrderStatusChanged(OrderStatusChangedPayload) {}

// producer buffers messages on an inbox channel and writes them from a single
// goroutine; Close flushes the remaining messages before the writer shuts.
type producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func newProducer(brokers []string, topic string, buf int) *producer {
	return &producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

func (p *producer) start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				// flush what is already queued, then exit; close still owns
				// the inbox channel
				for {
					select {
					case m, ok := <-p.inbox:
						if !ok {
							_ = p.w.Close()
							close(p.closeCh)
							return
						}
						_ = p.w.WriteMessages(context.Background(), m)
					default:
						_ = p.w.Close()
						close(p.closeCh)
						return
					}
				}
			case m, ok := <-p.inbox:
				if !ok {
					_ = p.w.Close()
					close(p.closeCh)
					return
				}
				if err := p.w.WriteMessages(context.Background(), m); err != nil {
					slog.Error("kafka write failed", "topic", p.w.Topic, "err", err)
				}
			}
		}
	}()
}

func (p *producer) publish(key, value []byte, headers ...kafka.Header) {
	p.inbox <- kafka.Message{Key: key, Value: value, Time: time.Now(), Headers: headers}
}

func (p *producer) close()      { close(p.inbox) }
func (p *producer) waitClosed() { <-p.closeCh }

// KafkaPublisher fans order events out to their topics.
type KafkaPublisher struct {
	created *producer
	status  *producer
	service string
}

func NewKafkaPublisher(brokers []string, service string, buf int) *KafkaPublisher {
	return &KafkaPublisher{
		created: newProducer(brokers, TopicOrderCreated, buf),
		status:  newProducer(brokers, TopicOrderStatusChanged, buf),
		service: service,
	}
}

func (k *KafkaPublisher) Start(ctx context.Context) {
	k.created.start(ctx)
	k.status.start(ctx)
}

func (k *KafkaPublisher) Close() {
	k.created.close()
	k.status.close()
}

func (k *KafkaPublisher) WaitClosed() {
	k.created.waitClosed()
	k.status.waitClosed()
}

func (k *KafkaPublisher) OrderCreated(p OrderCreatedPayload) {
	env := k.envelope(EventOrderCreated, mustMarshal(p))
	k.created.publish(PartitionKey(p.OrderID), mustMarshal(env),
		kafka.Header{Key: "x-event-type", Value: []byte(EventOrderCreated)},
		kafka.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (k *KafkaPublisher) OrderStatusChanged(p OrderStatusChangedPayload) {
	env := k.envelope(EventOrderStatusChanged, mustMarshal(p))
	k.status.publish(PartitionKey(p.OrderID), mustMarshal(env),
		kafka.Header{Key: "x-event-type", Value: []byte(EventOrderStatusChanged)},
		kafka.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (k *KafkaPublisher) envelope(eventType string, payload []byte) Envelope {
	return Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     k.service,
		Payload:      payload,
	}
}
