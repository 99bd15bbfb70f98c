package notify

import (
	"sync"
)

// Hub fans out payload-less refresh signals. The timer service fires it
// after every successful transition; projectors and stats displays
// subscribe and re-pull authoritative state when signaled.
//
// Delivery is best-effort: each subscriber channel is buffered one deep and
// a signal arriving while one is already pending is dropped, since the
// subscriber will re-sync anyway.
type Hub struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan struct{})}
}

// Subscribe registers a listener. The returned cancel func must be called
// when the listener goes away.
func (h *Hub) Subscribe() (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan struct{}, 1)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
	return ch, cancel
}

// Notify signals every subscriber without blocking.
func (h *Hub) Notify() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
