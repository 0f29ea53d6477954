package notify

import (
	"context"
	"log/slog"
	"time"
)

// Dispatcher decouples request handling from outbound delivery: services
// enqueue a message and move on, a single goroutine delivers. Failures are
// logged, never retried or surfaced. Each send runs under its own timeout so
// a slow channel cannot hold the loop.
type Dispatcher struct {
	n       Notifier
	timeout time.Duration
	inbox   chan Message
	closeCh chan struct{}
}

func NewDispatcher(n Notifier, timeout time.Duration, buf int) *Dispatcher {
	if buf <= 0 {
		buf = 64
	}
	return &Dispatcher{
		n:       n,
		timeout: timeout,
		inbox:   make(chan Message, buf),
		closeCh: make(chan struct{}),
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				// deliver what is already queued, then exit; Close still owns
				// the inbox channel
				for {
					select {
					case m, ok := <-d.inbox:
						if !ok {
							close(d.closeCh)
							return
						}
						d.deliver(m)
					default:
						close(d.closeCh)
						return
					}
				}
			case m, ok := <-d.inbox:
				if !ok {
					close(d.closeCh)
					return
				}
				d.deliver(m)
			}
		}
	}()
}

func (d *Dispatcher) deliver(m Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.n.Send(ctx, m); err != nil {
		slog.Error("notification failed", "channel", m.Channel, "subject", m.Subject, "err", err)
	}
}

func (d *Dispatcher) Enqueue(m Message) {
	d.inbox <- m
}

// Close stops intake; the loop drains the remaining messages and exits.
func (d *Dispatcher) Close() { close(d.inbox) }

func (d *Dispatcher) WaitClosed() { <-d.closeCh }
