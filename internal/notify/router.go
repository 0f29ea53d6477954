package notify

import (
	"context"
	"fmt"

	"github.com/hodastore/store-api/internal/apperr"
)

// Router picks the sender for a message's channel. A nil sender means the
// channel is not configured for this deployment.
type Router struct {
	Email    Notifier
	Telegram Notifier
}

func (r Router) Send(ctx context.Context, msg Message) error {
	var n Notifier
	switch msg.Channel {
	case ChannelEmail:
		n = r.Email
	case ChannelTelegram:
		n = r.Telegram
	default:
		return fmt.Errorf("%w: unknown channel %q", apperr.ErrNotification, msg.Channel)
	}
	if n == nil {
		return fmt.Errorf("%w: channel %s not configured", apperr.ErrNotification, msg.Channel)
	}
	return n.Send(ctx, msg)
}
