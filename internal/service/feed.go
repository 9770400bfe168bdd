package service

import (
	"sync"

	"user_manager/internal/models"
)

const defaultFeedBuffer = 16

// EventFeed fans user mutations out to live subscribers. Publishing never
// blocks: a subscriber whose buffer is full misses the event.
type EventFeed struct {
	mu     sync.RWMutex
	subs   map[chan models.UserEvent]struct{}
	buffer int
}

func NewEventFeed(buffer int) *EventFeed {
	if buffer <= 0 {
		buffer = defaultFeedBuffer
	}
	return &EventFeed{subs: make(map[chan models.UserEvent]struct{}), buffer: buffer}
}

var _ Feed = (*EventFeed)(nil)

// Subscribe registers a listener. The returned cancel func closes the channel
// and is safe to call more than once.
func (f *EventFeed) Subscribe() (<-chan models.UserEvent, func()) {
	ch := make(chan models.UserEvent, f.buffer)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			close(ch)
			f.mu.Unlock()
		})
	}
}

// Publish delivers e to every subscriber with room and returns how many
// subscribers missed it.
func (f *EventFeed) Publish(e models.UserEvent) (dropped int) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for ch := range f.subs {
		select {
		case ch <- e:
		default:
			dropped++
		}
	}
	return dropped
}

// Subscribers reports the number of live listeners.
func (f *EventFeed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
