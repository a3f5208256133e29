// Package panel fans one player's snapshots out to any number of visual
// panels. Delivery is synchronous and in subscription order.
package panel

// Listener receives a published value.
type Listener[T any] func(T)

// Hub is a synchronous publish/subscribe fan-out. It is not goroutine-safe.
type Hub[T any] struct {
	subs       []*Subscription[T]
	publishing bool
	queue      []T
}

// Subscription is the handle returned by Subscribe.
type Subscription[T any] struct {
	hub      *Hub[T]
	listener Listener[T]
	active   bool
}

// Subscribe registers l. Listeners are invoked in the order they subscribed.
func (h *Hub[T]) Subscribe(l Listener[T]) *Subscription[T] {
	s := &Subscription[T]{hub: h, listener: l, active: true}
	h.subs = append(h.subs, s)
	return s
}

// Unsubscribe stops delivery to the listener. Calling it again is a no-op.
func (s *Subscription[T]) Unsubscribe() {
	if s == nil || !s.active {
		return
	}
	s.active = false
	h := s.hub
	for i, sub := range h.subs {
		if sub == s {
			h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
			break
		}
	}
}

// Active reports whether the subscription still receives values.
func (s *Subscription[T]) Active() bool {
	return s != nil && s.active
}

// Publish delivers v to every active listener before returning. A Publish
// issued by a listener is queued and delivered after the current pass.
func (h *Hub[T]) Publish(v T) {
	if h.publishing {
		h.queue = append(h.queue, v)
		return
	}
	h.publishing = true
	defer func() { h.publishing = false }()

	h.deliver(v)
	for len(h.queue) > 0 {
		next := h.queue[0]
		h.queue = h.queue[1:]
		h.deliver(next)
	}
}

func (h *Hub[T]) deliver(v T) {
	subs := make([]*Subscription[T], len(h.subs))
	copy(subs, h.subs)
	for _, s := range subs {
		if s.active {
			s.listener(v)
		}
	}
}

// Len returns the number of active subscriptions.
func (h *Hub[T]) Len() int { return len(h.subs) }

// Close unsubscribes every listener.
func (h *Hub[T]) Close() {
	for _, s := range h.subs {
		s.active = false
	}
	h.subs = nil
	h.queue = nil
}
