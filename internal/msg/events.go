package msg

// Signal is a synchronous fan-out of push notifications. Subscriptions are
// never removed: the gallery and its host share one lifetime. Emission
// happens on the UI goroutine only, so no locking is required.
type Signal[T any] struct {
	subs []func(T)
}

// Subscribe registers fn to be called on every Emit.
func (s *Signal[T]) Subscribe(fn func(T)) {
	s.subs = append(s.subs, fn)
}

// Emit delivers v to every subscriber in subscription order.
func (s *Signal[T]) Emit(v T) {
	for _, fn := range s.subs {
		fn(v)
	}
}

// Events carries the push subscriptions the gallery consumes. It is injected
// at construction instead of living as process-wide state so the engine can
// be driven entirely from tests.
type Events struct {
	// ItemChanged fires when a message's layout-relevant data changed.
	ItemChanged Signal[FullID]
	// ItemRemoved fires when a message was deleted from the archive.
	ItemRemoved Signal[FullID]
	// RepaintRequest fires when a message needs repainting without relayout.
	RepaintRequest Signal[FullID]
	// ThemeChanged fires when the palette changed and caches must be redrawn.
	ThemeChanged Signal[struct{}]
}
