package gallery

import "github.com/rshade/mediashelf/internal/msg"

// layoutCache owns every Renderable in the widget. Sections borrow pointers
// into it; the arena-plus-id-index shape keeps the ownership graph acyclic
// so a sweep can never leave a dangling owner.
//
// Reclamation is two-phase: markStale before a rebuild, get clears the flag
// on every reused entry during the rebuild, sweep evicts what stayed stale.
type layoutCache struct {
	kind    msg.MediaType
	resolve func(msg.UniversalID) *msg.Item
	entries map[msg.UniversalID]*cacheEntry
}

type cacheEntry struct {
	item  *Renderable
	stale bool
}

func newLayoutCache(kind msg.MediaType, resolve func(msg.UniversalID) *msg.Item) *layoutCache {
	return &layoutCache{
		kind:    kind,
		resolve: resolve,
		entries: make(map[msg.UniversalID]*cacheEntry),
	}
}

// get returns the cached or newly constructed renderable for id, or nil when
// the backing item is gone or its payload does not fit the cache's kind.
func (c *layoutCache) get(id msg.UniversalID) *Renderable {
	if entry, ok := c.entries[id]; ok {
		entry.stale = false
		return entry.item
	}
	item := newRenderable(id, c.resolve(id), c.kind)
	if item == nil {
		return nil
	}
	c.entries[id] = &cacheEntry{item: item}
	return item
}

// existing returns the cached renderable without constructing, or nil.
func (c *layoutCache) existing(id msg.UniversalID) *Renderable {
	if entry, ok := c.entries[id]; ok {
		return entry.item
	}
	return nil
}

// remove drops one entry outside the sweep cycle (item deletion).
func (c *layoutCache) remove(id msg.UniversalID) {
	delete(c.entries, id)
}

// markStale begins a sweep cycle: every entry is presumed dead until a
// rebuild touches it through get.
func (c *layoutCache) markStale() {
	for _, entry := range c.entries {
		entry.stale = true
	}
}

// sweep evicts entries still stale after a rebuild. onEvict runs for each
// victim so the widget can drop its item-under-pointer reference.
func (c *layoutCache) sweep(onEvict func(*Renderable)) {
	for id, entry := range c.entries {
		if entry.stale {
			if onEvict != nil {
				onEvict(entry.item)
			}
			delete(c.entries, id)
		}
	}
}
