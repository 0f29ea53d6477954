// Package notify delivers templated messages to external channels: email to
// the admin or a customer, or a Telegram chat message. Delivery is best-effort
// from the caller's perspective except for the inquiry reply flow, which sends
// synchronously so the caller can react to failure.
package notify

import "context"

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelTelegram Channel = "telegram"
)

// Message.To is an email address; empty means the configured admin target.
// Telegram messages always go to the configured chat.
type Message struct {
	Channel Channel
	To      string
	Subject string
	Body    string
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Enqueuer is the fire-and-forget side, implemented by Dispatcher.
type Enqueuer interface {
	Enqueue(msg Message)
}
