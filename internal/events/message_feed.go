// Package events is the in-process side of the durable store's change feed:
// every committed message insert is published here, and the synchronizer
// subscribes per conversation the same way a server-side filtered channel
// would deliver INSERT rows.
package events

import (
	"sync"

	"promptforge/internal/models"
)

type subscription struct {
	// conversationID is captured at subscribe time and compared on every
	// delivery, so a late event can never be applied under a different
	// conversation after a fast switch.
	conversationID string
	handler        func(models.Message)
}

// MessageFeed fans message-insert events out to per-conversation
// subscribers. Cancellation takes effect before the next Publish snapshot;
// a delivery already in flight can still land after cancel, which is why
// subscribers must re-check the conversation id they subscribed with.
type MessageFeed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]subscription
}

func NewMessageFeed() *MessageFeed {
	return &MessageFeed{subs: make(map[int]subscription)}
}

// Subscribe registers handler for inserts on conversationID and returns a
// cancel func. Each call is an independent subscription.
func (f *MessageFeed) Subscribe(conversationID string, handler func(models.Message)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = subscription{conversationID: conversationID, handler: handler}
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

// Publish delivers msg to every subscriber whose conversation id matches.
// Handlers run on the publishing goroutine.
func (f *MessageFeed) Publish(msg models.Message) {
	f.mu.Lock()
	matched := make([]func(models.Message), 0, len(f.subs))
	for _, sub := range f.subs {
		if sub.conversationID == msg.ConversationID {
			matched = append(matched, sub.handler)
		}
	}
	f.mu.Unlock()

	for _, handler := range matched {
		handler(msg)
	}
}
