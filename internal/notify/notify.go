// Package notify carries "something changed" signals from the database
// to every running sync controller. Postgres raises them on a NOTIFY
// channel; the bridge republishes them to NATS so any number of
// processes can observe a room. Signals carry no payload beyond the
// room and table: receivers re-fetch the named source in full.
//
// Delivery is best effort. A dropped signal only delays convergence
// until the next poll tick.
package notify

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/damoduke91-ui/super8-draft/internal/models"
)

const subjectPrefix = "draft.room"

// Subject returns the NATS subject for one source of one room.
func Subject(roomID string, source models.Source) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, roomID, source)
}

// Publisher emits change signals to NATS.
type Publisher struct {
	nc *nats.Conn
}

// NewPublisher wraps an established NATS connection.
func NewPublisher(nc *nats.Conn) *Publisher {
	return &Publisher{nc: nc}
}

// Publish signals that a source of a room changed. The message body is
// empty; the subject says everything receivers need.
func (p *Publisher) Publish(roomID string, source models.Source) error {
	if err := p.nc.Publish(Subject(roomID, source), nil); err != nil {
		return fmt.Errorf("failed to publish change signal: %w", err)
	}
	return nil
}

// Subscription bundles the per-source NATS subscriptions of one room.
type Subscription struct {
	subs []*nats.Subscription
}

// Unsubscribe tears down all per-source subscriptions.
func (s *Subscription) Unsubscribe() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.subs = nil
}

// Notifier adapts a NATS connection to the sync controller's
// subscription interface.
type Notifier struct {
	nc *nats.Conn
}

// NewNotifier wraps an established NATS connection.
func NewNotifier(nc *nats.Conn) *Notifier {
	return &Notifier{nc: nc}
}

// SubscribeRoom subscribes to all four sources of a room and returns
// the teardown function.
func (n *Notifier) SubscribeRoom(roomID string, handler func(models.Source)) (func(), error) {
	sub, err := SubscribeRoom(n.nc, roomID, handler)
	if err != nil {
		return nil, err
	}
	return sub.Unsubscribe, nil
}

// SubscribeRoom subscribes to all four sources of a room. The handler
// runs on the NATS delivery goroutine and must not block.
func SubscribeRoom(nc *nats.Conn, roomID string, handler func(models.Source)) (*Subscription, error) {
	subscription := &Subscription{}
	for _, source := range models.Sources {
		src := source
		sub, err := nc.Subscribe(Subject(roomID, src), func(*nats.Msg) {
			handler(src)
		})
		if err != nil {
			subscription.Unsubscribe()
			return nil, fmt.Errorf("failed to subscribe to %s: %w", Subject(roomID, src), err)
		}
		subscription.subs = append(subscription.subs, sub)
	}
	return subscription, nil
}
