package panel

// Panel is one on-screen view of a timeline.
type Panel[T any] interface {
	Render(T)
}

// PanelFunc adapts a function to a Panel.
type PanelFunc[T any] func(T)

func (f PanelFunc[T]) Render(v T) { f(v) }

// Source is anything panels can observe, such as a player.
type Source[T any] interface {
	Snapshot() T
	Subscribe(l Listener[T]) *Subscription[T]
}

// Attach renders the current snapshot into every panel once, then keeps them
// in sync with src. The returned detach function unsubscribes all of them and
// may be called more than once.
func Attach[T any](src Source[T], panels ...Panel[T]) (detach func()) {
	snap := src.Snapshot()
	subs := make([]*Subscription[T], 0, len(panels))
	for _, p := range panels {
		p.Render(snap)
		subs = append(subs, src.Subscribe(p.Render))
	}
	return func() {
		for _, s := range subs {
			s.Unsubscribe()
		}
	}
}
