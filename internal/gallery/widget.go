package gallery

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/mediashelf/internal/msg"
)

// Preload tuning: how much content beyond the viewport is kept loaded, and
// how close to a loaded edge the viewport may come before the widget asks
// the source for a wider window.
const (
	preloadedScreens         = 4
	preloadIfLessThanScreens = 2
	preloadedScreensFull     = preloadedScreens + 1 + preloadedScreens

	// mediaCountForSearch enables the host's search box once the archive
	// holds more items than fit a trivial scan.
	mediaCountForSearch = 10

	// minimalIdsLimit is the initial half-window of the first query.
	minimalIdsLimit = 16
)

// defaultAroundID anchors the initial query at the newest end of the chat.
const defaultAroundID = msg.UniversalID(msg.ServerMaxMessageID - 1)

// Source is the external data capability the widget queries. Both methods
// are synchronous; the host is expected to run QuerySlice off the update
// loop and feed the result back through ApplySlice.
type Source interface {
	// QuerySlice returns a window of ids around the anchor.
	QuerySlice(kind msg.MediaType, around msg.UniversalID, limitBefore, limitAfter int) (msg.Slice, error)
	// ResolveItem resolves a message by channel-qualified id.
	ResolveItem(id msg.FullID) (*msg.Item, bool)
}

// SliceRequest describes one viewer query the host must run. Seq orders
// requests: results arriving with a stale Seq are dropped by ApplySlice.
type SliceRequest struct {
	Seq         uint64
	AroundID    msg.UniversalID
	LimitBefore int
	LimitAfter  int
}

// Memento is the persisted browsing position, opaque to everything but the
// widget and the session store.
type Memento struct {
	AroundID       msg.FullID
	IdsLimit       int
	ScrollTopItem  msg.FullID
	ScrollTopShift int
}

type scrollTopState struct {
	item  msg.UniversalID
	shift int
}

// Config wires the widget's collaborators at construction. Event sources
// are injected explicitly so the engine stays testable in isolation.
type Config struct {
	Source    Source
	Events    *msg.Events
	Kind      msg.MediaType
	ChannelID int64
	Logger    zerolog.Logger

	// Now overrides the clock for click-escalation timing in tests.
	Now func() time.Time
}

// Widget is the top-level coordinator: it owns the layout cache, the
// section list, the selection maps and the gesture machine, and exposes
// paint/resize/scroll/input entry points to the host.
type Widget struct {
	log       zerolog.Logger
	source    Source
	kind      msg.MediaType
	channelID int64
	nowFn     func() time.Time

	cache    *layoutCache
	sections []*section
	styles   Styles

	width         int
	contentHeight int
	visibleTop    int
	visibleBottom int

	slice    msg.Slice
	aroundID msg.UniversalID
	idsLimit int
	querySeq uint64

	scrollTopState scrollTopState
	searchEnabled  bool

	selected         *selectedMap
	dragSelected     *selectedMap
	dragSelectAction dragSelectAction

	mouseAction          mouseAction
	mouseSelectType      TextSelectType
	overState            CursorState
	pressState           CursorState
	overItem             *Renderable
	mousePosition        Point
	mouseTextSymbol      uint16
	wasSelectedText      bool
	inactivePress        bool
	pressWasInactive     bool
	tripleClickPoint     Point
	tripleClickStartTime time.Time
	activeLink           string
	pressedLink          string

	scrollToRequests Signal[int]
	selectedValue    Signal[SelectedItems]
	searchByContent  Signal[bool]
	activateRequests Signal[string]
	dragRequests     Signal[[]msg.FullID]
}

// Signal re-exports msg.Signal for the widget's own outputs.
type Signal[T any] = msg.Signal[T]

// NewWidget builds a widget and subscribes it to the injected event
// sources. Call Restart to issue the initial query.
func NewWidget(cfg Config) *Widget {
	w := &Widget{
		log:          cfg.Logger.With().Str("component", "gallery").Stringer("kind", cfg.Kind).Logger(),
		source:       cfg.Source,
		kind:         cfg.Kind,
		channelID:    cfg.ChannelID,
		nowFn:        cfg.Now,
		styles:       DefaultStyles(),
		aroundID:     defaultAroundID,
		idsLimit:     minimalIdsLimit,
		selected:     newSelectedMap(),
		dragSelected: newSelectedMap(),
	}
	if w.nowFn == nil {
		w.nowFn = time.Now
	}
	w.cache = newLayoutCache(cfg.Kind, w.resolveItem)
	if cfg.Events != nil {
		cfg.Events.ItemRemoved.Subscribe(w.itemRemoved)
		cfg.Events.ItemChanged.Subscribe(w.itemChanged)
		cfg.Events.ThemeChanged.Subscribe(func(struct{}) {
			w.styles = DefaultStyles()
		})
	}
	return w
}

func (w *Widget) now() time.Time {
	return w.nowFn()
}

// ScrollToRequests fires a widget-space pixel offset the host must scroll to.
func (w *Widget) ScrollToRequests() *Signal[int] { return &w.scrollToRequests }

// SelectedValue fires the selection snapshot on every change.
func (w *Widget) SelectedValue() *Signal[SelectedItems] { return &w.selectedValue }

// SearchEnabledByContent fires when the archive grows past the search
// threshold.
func (w *Widget) SearchEnabledByContent() *Signal[bool] { return &w.searchByContent }

// ActivateRequests fires a click-target activation (an URL or open target).
func (w *Widget) ActivateRequests() *Signal[string] { return &w.activateRequests }

// DragRequests fires the ids an item drag should carry.
func (w *Widget) DragRequests() *Signal[[]msg.FullID] { return &w.dragRequests }

// SetPressWasInactive marks the next press as the click that activated a
// previously inactive window, which suppresses select-gesture starts. The
// mark covers exactly one press: mouseActionStart copies it into the
// per-press pressWasInactive flag and clears it.
func (w *Widget) SetPressWasInactive() {
	w.inactivePress = true
}

func (w *Widget) takePressWasInactive() bool {
	was := w.inactivePress
	w.inactivePress = false
	return was
}

func (w *Widget) resolveItem(id msg.UniversalID) *msg.Item {
	item, ok := w.source.ResolveItem(id.Full(w.channelID))
	if !ok {
		return nil
	}
	return item
}

func (w *Widget) resolvePermissions(id msg.UniversalID) (canDelete, canForward, ok bool) {
	item := w.resolveItem(id)
	if item == nil {
		return false, false, false
	}
	return item.CanDelete, item.CanForward, true
}

func (w *Widget) isPossiblyMyID(id msg.FullID) bool {
	if id.ChannelID != 0 {
		return id.ChannelID == w.channelID
	}
	return true
}

// Restart drops all loaded state and re-issues the initial query.
func (w *Widget) Restart() *SliceRequest {
	w.mouseActionCancel()
	w.overItem = nil
	w.sections = nil
	w.cache = newLayoutCache(w.kind, w.resolveItem)
	w.aroundID = defaultAroundID
	w.idsLimit = minimalIdsLimit
	w.slice = msg.Slice{}
	return w.refreshViewer()
}

func (w *Widget) refreshViewer() *SliceRequest {
	w.querySeq++
	req := &SliceRequest{
		Seq:         w.querySeq,
		AroundID:    w.aroundID,
		LimitBefore: w.idsLimit,
		LimitAfter:  w.idsLimit,
	}
	w.log.Debug().
		Uint64("seq", req.Seq).
		Int64("around", int64(req.AroundID)).
		Int("limit", w.idsLimit).
		Msg("viewer query")
	return req
}

// ApplySlice feeds a query result back into the widget. Results with a
// stale sequence number are dropped; slices with an unknown full count are
// held back so nothing renders before the total is known. Returns whether
// the rows were rebuilt.
func (w *Widget) ApplySlice(seq uint64, slice msg.Slice) bool {
	if seq < w.querySeq {
		w.log.Debug().Uint64("seq", seq).Uint64("current", w.querySeq).Msg("stale slice dropped")
		return false
	}
	if slice.FullCount == nil {
		return false
	}
	w.slice = slice
	if nearest, ok := slice.Nearest(w.aroundID); ok {
		w.aroundID = nearest
	}
	w.refreshRows()
	return true
}

// refreshRows rebuilds every section from the current slice: walk ids from
// newest to oldest, resolve renderables through the cache and pack
// greedily, starting a new section whenever addItem rejects the item.
func (w *Widget) refreshRows() {
	w.saveScrollState()

	w.cache.markStale()

	w.sections = w.sections[:0]
	sec := newSection(w.kind)
	for i := w.slice.Size(); i != 0; {
		i--
		id := w.slice.At(i)
		layout := w.cache.get(id)
		if layout == nil {
			continue
		}
		if !sec.addItem(layout) {
			w.sections = append(w.sections, sec)
			sec = newSection(w.kind)
			sec.addItem(layout)
		}
	}
	if !sec.empty() {
		w.sections = append(w.sections, sec)
	}

	if count := w.slice.FullCount; count != nil && *count > mediaCountForSearch {
		if !w.searchEnabled {
			w.searchEnabled = true
			w.searchByContent.Emit(true)
		}
	}

	w.cache.sweep(func(evicted *Renderable) {
		if w.overItem == evicted {
			w.overItem = nil
		}
	})

	w.ResizeGetHeight(w.width)
	w.restoreScrollState()
	w.mouseActionUpdate(w.mousePosition)

	w.log.Debug().
		Int("sections", len(w.sections)).
		Int("ids", w.slice.Size()).
		Int("height", w.contentHeight).
		Msg("rows rebuilt")
}

// ResizeGetHeight propagates a width change to every section and returns
// the recomputed content height.
func (w *Widget) ResizeGetHeight(newWidth int) int {
	w.width = newWidth
	if newWidth > 0 {
		for _, sec := range w.sections {
			sec.resizeToWidth(newWidth)
		}
	}
	w.contentHeight = w.recountHeight()
	return w.contentHeight
}

// recountHeight assigns section tops as the running sum of heights inside
// the outer padding. A known-empty archive collapses to zero even when
// stale sections are still around.
func (w *Widget) recountHeight() int {
	if len(w.sections) == 0 {
		if count := w.slice.FullCount; count != nil && *count == 0 {
			return 0
		}
	}
	result := outerPaddingTop
	for _, sec := range w.sections {
		sec.setTop(result)
		result += sec.Height()
	}
	return result + outerPaddingBottom
}

func (w *Widget) refreshHeight() {
	w.contentHeight = w.recountHeight()
}

// TotalHeight returns the full content height in cells.
func (w *Widget) TotalHeight() int {
	return w.contentHeight
}

// Width returns the current layout width.
func (w *Widget) Width() int {
	return w.width
}

// Empty reports whether no sections are built.
func (w *Widget) Empty() bool {
	return len(w.sections) == 0
}

func (w *Widget) findSectionAfterTop(top int) int {
	return sort.Search(len(w.sections), func(i int) bool {
		return w.sections[i].bottom() > top
	})
}

func (w *Widget) findSectionAfterBottom(from, bottom int) int {
	return from + sort.Search(len(w.sections)-from, func(i int) bool {
		return w.sections[from+i].Top() >= bottom
	})
}

func (w *Widget) findSectionByItem(id msg.UniversalID) int {
	return sort.Search(len(w.sections), func(i int) bool {
		return w.sections[i].minID() <= id
	})
}

// findItemByPoint resolves a widget-space point to the nearest item. At
// least one section must exist.
func (w *Widget) findItemByPoint(point Point) foundItem {
	if len(w.sections) == 0 {
		panic("gallery: findItemByPoint without sections")
	}
	idx := w.findSectionAfterTop(point.Y)
	if idx == len(w.sections) {
		idx--
	}
	sec := w.sections[idx]
	found := sec.findItemByPoint(point.Sub(Point{0, sec.Top()}))
	found.rect = found.rect.Translated(0, sec.Top())
	return found
}

// findItemByID locates an exactly matching item across sections.
func (w *Widget) findItemByID(id msg.UniversalID) (foundItem, bool) {
	idx := w.findSectionByItem(id)
	if idx == len(w.sections) {
		return foundItem{}, false
	}
	found := w.sections[idx].findItemNearID(id)
	if !found.exact {
		return foundItem{}, false
	}
	found.rect = found.rect.Translated(0, w.sections[idx].Top())
	return found, true
}

// Paint draws every section row intersecting clip into the canvas.
func (w *Widget) Paint(c *Canvas, clip Rect) {
	ctx := &paintContext{
		styles:           &w.styles,
		selected:         w.selected,
		dragSelected:     w.dragSelected,
		dragSelectAction: w.dragSelectAction,
	}
	from := w.findSectionAfterTop(clip.Y)
	till := w.findSectionAfterBottom(from, clip.Y+clip.Height)
	for i := from; i < till; i++ {
		sec := w.sections[i]
		c.PushOffset(0, sec.Top())
		sec.paint(c, ctx, clip.Translated(0, -sec.Top()), w.width)
		c.PopOffset()
	}
}

// VisibleTopBottomUpdated records the viewport and possibly asks for a
// wider window when the viewport approaches an under-loaded edge.
func (w *Widget) VisibleTopBottomUpdated(visibleTop, visibleBottom int) *SliceRequest {
	w.visibleTop = visibleTop
	w.visibleBottom = visibleBottom
	return w.checkPreload()
}

// checkPreload translates screen distances into an id budget through the
// conservative minimum item height and re-anchors the viewer query at the
// edge item when the viewport runs close to a loaded edge. Suppressed while
// a scroll-anchor restoration is pending.
func (w *Widget) checkPreload() *SliceRequest {
	visibleHeight := w.visibleBottom - w.visibleTop
	if w.width <= 0 ||
		visibleHeight <= 0 ||
		len(w.sections) == 0 ||
		w.scrollTopState.item != 0 {
		return nil
	}

	topItem := w.findItemByPoint(Point{0, w.visibleTop})
	bottomItem := w.findItemByPoint(Point{0, w.visibleBottom})

	minItemH := minItemHeight(w.kind, w.width)
	preloadedHeight := preloadedScreensFull * visibleHeight
	preloadedCount := preloadedHeight / minItemH
	preloadIdsLimitMin := preloadedCount/2 + 1
	preloadIdsLimit := preloadIdsLimitMin + visibleHeight/minItemH

	preloadBefore := preloadIfLessThanScreens * visibleHeight
	after := w.slice.SkippedAfter
	preloadTop := w.visibleTop < preloadBefore
	topLoaded := after != nil && *after == 0
	before := w.slice.SkippedBefore
	preloadBottom := w.contentHeight-w.visibleBottom < preloadBefore
	bottomLoaded := before != nil && *before == 0

	minScreenDelta := preloadedScreens - preloadIfLessThanScreens
	minIDDelta := (minScreenDelta * visibleHeight) / minItemH

	preloadAroundItem := func(item foundItem) *SliceRequest {
		id := item.item.ID()
		required := w.idsLimit < preloadIdsLimitMin
		if !required {
			delta, ok := w.slice.Distance(w.aroundID, id)
			if !ok {
				required = true
			} else {
				if delta < 0 {
					delta = -delta
				}
				required = delta >= minIDDelta
			}
		}
		if !required {
			return nil
		}
		w.idsLimit = preloadIdsLimit
		w.aroundID = id
		return w.refreshViewer()
	}

	if preloadTop && !topLoaded {
		return preloadAroundItem(topItem)
	} else if preloadBottom && !bottomLoaded {
		return preloadAroundItem(bottomItem)
	}
	return nil
}

func (w *Widget) countScrollState() scrollTopState {
	if len(w.sections) == 0 {
		return scrollTopState{}
	}
	topItem := w.findItemByPoint(Point{0, w.visibleTop})
	return scrollTopState{
		item:  topItem.item.ID(),
		shift: w.visibleTop - topItem.rect.Y,
	}
}

// saveScrollState captures the item at the visible top and the pixel shift
// into it, unless an earlier anchor is still waiting to be restored.
func (w *Widget) saveScrollState() {
	if w.scrollTopState.item == 0 {
		w.scrollTopState = w.countScrollState()
	}
}

// restoreScrollState relocates the saved anchor in the rebuilt sections and
// asks the host to scroll when its pixel position moved.
func (w *Widget) restoreScrollState() {
	if len(w.sections) == 0 || w.scrollTopState.item == 0 {
		return
	}
	idx := w.findSectionByItem(w.scrollTopState.item)
	if idx == len(w.sections) {
		idx--
	}
	found := w.sections[idx].findItemNearID(w.scrollTopState.item)
	newVisibleTop := found.rect.Y + w.sections[idx].Top() + w.scrollTopState.shift
	if w.visibleTop != newVisibleTop {
		w.scrollToRequests.Emit(newVisibleTop)
	}
	w.scrollTopState = scrollTopState{}
}

// SaveState exports the browsing position, or false when nothing worth
// saving happened yet.
func (w *Widget) SaveState() (Memento, bool) {
	if w.aroundID == defaultAroundID {
		return Memento{}, false
	}
	state := w.countScrollState()
	if state.item == 0 {
		return Memento{}, false
	}
	return Memento{
		AroundID:       w.aroundID.Full(w.channelID),
		IdsLimit:       w.idsLimit,
		ScrollTopItem:  state.item.Full(w.channelID),
		ScrollTopShift: state.shift,
	}, true
}

// RestoreState resumes from a saved memento and returns the query to run,
// or nil when the memento does not belong to this chat.
func (w *Widget) RestoreState(m Memento) *SliceRequest {
	if m.IdsLimit <= 0 || !w.isPossiblyMyID(m.AroundID) {
		return nil
	}
	w.idsLimit = m.IdsLimit
	w.aroundID = msg.UniversalFromFull(m.AroundID)
	w.scrollTopState.item = msg.UniversalFromFull(m.ScrollTopItem)
	w.scrollTopState.shift = m.ScrollTopShift
	return w.refreshViewer()
}

func (w *Widget) itemRemoved(id msg.FullID) {
	if !w.isPossiblyMyID(id) {
		return
	}
	universal := msg.UniversalFromFull(id)

	if idx := w.findSectionByItem(universal); idx != len(w.sections) {
		sec := w.sections[idx]
		if sec.removeItem(universal) {
			if sec.empty() {
				w.sections = append(w.sections[:idx], w.sections[idx+1:]...)
			}
			w.refreshHeight()
		}
	}

	if w.overItem != nil && w.overItem.ID() == universal {
		w.overItem = nil
	}
	w.cache.remove(universal)
	w.dragSelected.Remove(universal)
	if w.selected.Has(universal) {
		w.removeItemSelection(universal)
	}
	w.mouseActionUpdate(w.mousePosition)
}

func (w *Widget) itemChanged(id msg.FullID) {
	if !w.isPossiblyMyID(id) {
		return
	}
	universal := msg.UniversalFromFull(id)
	if w.cache.existing(universal) == nil {
		return
	}
	w.cache.remove(universal)
	if w.overItem != nil && w.overItem.ID() == universal {
		w.overItem = nil
	}
	w.refreshRows()
}

// Selection plumbing shared by the gesture machine and the host.

func (w *Widget) hasSelected() bool {
	return !w.selected.Empty()
}

func (w *Widget) hasSelectedItems() bool {
	return !w.selected.Empty() && w.isSelectedItem(w.selected.Front())
}

func (w *Widget) hasSelectedText() bool {
	return w.hasSelected() && !w.hasSelectedItems()
}

func (w *Widget) isSelectedItem(id msg.UniversalID) bool {
	data := w.selected.Get(id)
	return data != nil && data.Text == FullSelection
}

func (w *Widget) applyItemSelection(id msg.UniversalID, selection TextSelection) {
	if w.selected.change(id, selection, w.resolvePermissions) {
		w.pushSelectedItems()
	}
}

func (w *Widget) toggleItemSelection(id msg.UniversalID) {
	if w.selected.Has(id) {
		w.removeItemSelection(id)
	} else {
		w.applyItemSelection(id, FullSelection)
	}
}

func (w *Widget) removeItemSelection(id msg.UniversalID) {
	if w.selected.Remove(id) {
		w.pushSelectedItems()
	}
}

// ClearSelected drops the whole selection.
func (w *Widget) ClearSelected() {
	w.clearSelected()
}

func (w *Widget) clearSelected() {
	if w.selected.Empty() {
		return
	}
	w.selected.Clear()
	w.pushSelectedItems()
}

func (w *Widget) collectSelectedItems() SelectedItems {
	items := SelectedItems{Type: w.kind}
	if !w.hasSelectedItems() {
		return items
	}
	items.List = make([]SelectedItem, 0, w.selected.Len())
	w.selected.ForEach(func(id msg.UniversalID, data *SelectionData) {
		items.List = append(items.List, SelectedItem{
			ID:         id.Full(w.channelID),
			CanDelete:  data.CanDelete,
			CanForward: data.CanForward,
		})
	})
	return items
}

func (w *Widget) collectSelectedIDs() []msg.FullID {
	selected := w.collectSelectedItems()
	ids := make([]msg.FullID, 0, len(selected.List))
	for _, item := range selected.List {
		ids = append(ids, item.ID)
	}
	return ids
}

// SelectedIDs exports the channel-qualified ids of the whole-item selection.
func (w *Widget) SelectedIDs() []msg.FullID {
	return w.collectSelectedIDs()
}

func (w *Widget) pushSelectedItems() {
	w.selectedValue.Emit(w.collectSelectedItems())
}
