package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hodastore/store-api/internal/events"
	"github.com/hodastore/store-api/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// Subscriber turns order.created events into admin notifications. It runs in
// cmd/notifier, off the request path; redeliveries are deduped via redis.
type Subscriber struct {
	Redis    *redis.Client
	Notifier Notifier
	Channel  Channel
	Timeout  time.Duration
	Service  string
}

func (s *Subscriber) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != events.EventOrderCreated {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.Service, env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := events.UnwrapPayload[events.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return s.Notifier.Send(sendCtx, Message{
		Channel: s.Channel,
		Subject: "New order received",
		Body: fmt.Sprintf("Order #%d from %s: %s, total %s",
			p.OrderID, p.CustomerName, describeProduct(p), p.TotalAmount),
	})
}

func describeProduct(p events.OrderCreatedPayload) string {
	if p.Kind == "uc" {
		return fmt.Sprintf("%d UC", p.UCAmount)
	}
	return fmt.Sprintf("bundle %q", p.BundleName)
}
