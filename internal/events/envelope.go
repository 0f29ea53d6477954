// Package events publishes order lifecycle events to Kafka so out-of-process
// consumers (cmd/notifier) never sit on the request path. Publishing is
// optional: with no brokers configured the Nop publisher is wired instead.
package events

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	TopicOrderCreated       = "store.order.created"
	TopicOrderStatusChanged = "store.order.status_changed"

	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID      int64  `json:"order_id"`
	CustomerName string `json:"customer_name"`
	Kind         string `json:"kind"`
	UCAmount     int64  `json:"uc_amount,omitempty"`
	BundleName   string `json:"bundle_name,omitempty"`
	TotalAmount  string `json:"total_amount"`
	OwnerID      int64  `json:"owner_id,omitempty"`
}

type OrderStatusChangedPayload struct {
	OrderID int64  `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// Partition key = order id, so all events of one order keep their order.
func PartitionKey(orderID int64) []byte {
	return []byte(strconv.FormatInt(orderID, 10))
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// UnwrapPayload decodes the event-specific payload of an envelope.
func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	err := json.Unmarshal(payload, &t)
	return t, err
}
