package bounty

import (
	"sync"
)

// Fans lifecycle events out to subscribers. Publishing never blocks,
// a slow subscriber loses its oldest events.
type EventBus struct {
	mtx  sync.Mutex
	subs map[int]chan *Event
	next int
	size int
}

func NewEventBus(size int) (self *EventBus) {
	self = new(EventBus)
	self.subs = make(map[int]chan *Event)
	self.size = size
	return
}

func (self *EventBus) Subscribe() (events chan *Event, cancel func()) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	id := self.next
	self.next += 1

	events = make(chan *Event, self.size)
	self.subs[id] = events

	cancel = func() {
		self.mtx.Lock()
		defer self.mtx.Unlock()
		ch, ok := self.subs[id]
		if !ok {
			return
		}
		delete(self.subs, id)
		close(ch)
	}
	return
}

func (self *EventBus) Publish(event *Event) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	for _, ch := range self.subs {
		select {
		case ch <- event:
			continue
		default:
		}

		// Buffer full, drop the oldest event
		select {
		case <-ch:
		default:
		}

		select {
		case ch <- event:
		default:
		}
	}
}
