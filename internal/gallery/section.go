package gallery

import (
	"sort"

	"github.com/rshade/mediashelf/internal/msg"
)

// section is a contiguous run of items that belong to the same period:
// one month for media grids and files, one day for links, everything for
// music. Items are stored in descending universal-id order (newest first),
// matching the widget's section ordering.
type section struct {
	kind   msg.MediaType
	header string

	// items, descending by id. Positions and heights are assigned by
	// recountHeight after every mutation or resize.
	items []*Renderable

	itemsLeft  int
	itemsTop   int
	itemWidth  int
	itemsInRow int
	rowsCount  int

	top    int
	height int
}

func newSection(kind msg.MediaType) *section {
	return &section{kind: kind, itemsInRow: 1}
}

func (s *section) empty() bool {
	return len(s.items) == 0
}

// minID returns the smallest (oldest) member id. The section must not be
// empty.
func (s *section) minID() msg.UniversalID {
	if s.empty() {
		panic("gallery: minID on empty section")
	}
	return s.items[len(s.items)-1].ID()
}

// maxID returns the largest (newest) member id. The section must not be
// empty.
func (s *section) maxID() msg.UniversalID {
	if s.empty() {
		panic("gallery: maxID on empty section")
	}
	return s.items[0].ID()
}

func (s *section) setTop(top int)    { s.top = top }
func (s *section) Top() int          { return s.top }
func (s *section) Height() int       { return s.height }
func (s *section) bottom() int       { return s.top + s.height }

// addItem accepts the renderable iff the section is empty or the item
// belongs to the same period as the last added member. The first item also
// determines the header label.
func (s *section) addItem(item *Renderable) bool {
	if s.empty() || s.belongsHere(item) {
		if s.empty() {
			s.setHeader(item)
		}
		s.appendItem(item)
		return true
	}
	return false
}

func (s *section) setHeader(item *Renderable) {
	date := item.Date()
	switch s.kind {
	case msg.TypePhoto, msg.TypeVideo, msg.TypeRoundFile,
		msg.TypeVoiceFile, msg.TypeFile:
		s.header = date.Format("January 2006")
	case msg.TypeLink:
		s.header = date.Format("2 January 2006")
	case msg.TypeMusicFile:
		s.header = ""
	}
}

func (s *section) belongsHere(item *Renderable) bool {
	if s.empty() {
		panic("gallery: belongsHere on empty section")
	}
	date := item.Date()
	mine := s.items[len(s.items)-1].Date()
	switch s.kind {
	case msg.TypePhoto, msg.TypeVideo, msg.TypeRoundFile,
		msg.TypeVoiceFile, msg.TypeFile:
		return date.Year() == mine.Year() && date.Month() == mine.Month()
	case msg.TypeLink:
		return date.Year() == mine.Year() &&
			date.Month() == mine.Month() &&
			date.Day() == mine.Day()
	case msg.TypeMusicFile:
		return true
	}
	return false
}

// appendItem inserts keeping descending id order. The rebuild fills in
// descending order so this is normally a plain append.
func (s *section) appendItem(item *Renderable) {
	id := item.ID()
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i].ID() <= id })
	s.items = append(s.items, nil)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = item
}

// removeItem drops the member with the given id and recomputes the height.
// The caller must drop the whole section once it turns empty.
func (s *section) removeItem(id msg.UniversalID) bool {
	for i, item := range s.items {
		if item.ID() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.refreshHeight()
			return true
		}
	}
	return false
}

// foundItem is a hit-test result: the item, its rect relative to the
// section top, and whether the point/id hit it exactly.
type foundItem struct {
	item  *Renderable
	rect  Rect
	exact bool
}

func (s *section) findItemRect(item *Renderable) Rect {
	position := item.Position()
	top := position / s.itemsInRow
	indexInRow := position % s.itemsInRow
	left := s.itemsLeft + indexInRow*(s.itemWidth+gridSkip)
	return Rect{left, top, s.itemWidth, item.Height()}
}

// findItemAfterTop returns the index of the first item whose bottom edge is
// below top (the binary-search pivot for row lookups). Ties favor the later
// (smaller-id) item because storage is descending.
func (s *section) findItemAfterTop(top int) int {
	return sort.Search(len(s.items), func(i int) bool {
		itemTop := s.items[i].Position() / s.itemsInRow
		return itemTop+s.items[i].Height() > top
	})
}

// findItemAfterBottom returns the index of the first item at or past from
// whose top edge is at or below bottom.
func (s *section) findItemAfterBottom(from, bottom int) int {
	return from + sort.Search(len(s.items)-from, func(i int) bool {
		itemTop := s.items[from+i].Position() / s.itemsInRow
		return itemTop >= bottom
	})
}

// findItemByPoint resolves a point (relative to the section top) to the
// nearest item. The section must not be empty.
func (s *section) findItemByPoint(point Point) foundItem {
	if s.empty() {
		panic("gallery: findItemByPoint on empty section")
	}
	idx := s.findItemAfterTop(point.Y)
	if idx == len(s.items) {
		idx--
	}
	item := s.items[idx]
	rect := s.findItemRect(item)
	if point.Y >= rect.Y {
		// Same row: walk forward by the column the point falls into,
		// clamping at the last item of a partial row.
		shift := floorClamp(point.X, s.itemWidth+gridSkip, 0, s.itemsInRow)
		for shift > 0 && idx < len(s.items)-1 {
			shift--
			idx++
		}
		item = s.items[idx]
		rect = s.findItemRect(item)
	}
	return foundItem{item, rect, rect.Contains(point)}
}

// findItemNearID resolves an id to the member with that id, or the
// next-smaller member when absent (floor policy over descending storage).
// The section must not be empty.
func (s *section) findItemNearID(id msg.UniversalID) foundItem {
	if s.empty() {
		panic("gallery: findItemNearID on empty section")
	}
	idx := sort.Search(len(s.items), func(i int) bool { return s.items[i].ID() <= id })
	if idx == len(s.items) {
		idx--
	}
	item := s.items[idx]
	return foundItem{item, s.findItemRect(item), item.ID() == id}
}

func (s *section) headerHeight() int {
	if s.header == "" {
		return 0
	}
	return headerHeight
}

// resizeToWidth recomputes the per-kind layout parameters. Widths below the
// minimum grid footprint are ignored.
func (s *section) resizeToWidth(newWidth int) {
	minWidth := minGridSize + gridSkip*2
	if newWidth < minWidth {
		return
	}
	resizeOneColumn := func(itemsLeft, itemWidth int) {
		s.itemsLeft = itemsLeft
		s.itemsTop = 0
		s.itemsInRow = 1
		s.itemWidth = itemWidth
		for _, item := range s.items {
			item.ResizeGetHeight(s.itemWidth)
		}
	}
	switch s.kind {
	case msg.TypePhoto, msg.TypeVideo, msg.TypeRoundFile:
		s.itemsLeft = gridSkip
		s.itemsTop = gridSkip
		s.itemsInRow = (newWidth - s.itemsLeft) / (minGridSize + gridSkip)
		s.itemWidth = (newWidth-s.itemsLeft)/s.itemsInRow - gridSkip
		for _, item := range s.items {
			item.ResizeGetHeight(s.itemWidth)
		}
	case msg.TypeVoiceFile, msg.TypeMusicFile:
		resizeOneColumn(0, newWidth)
	case msg.TypeFile, msg.TypeLink:
		resizeOneColumn(headerLeft, newWidth-2*headerLeft)
	}
	s.refreshHeight()
}

// minItemHeight is a conservative lower bound on the vertical footprint one
// item of the given kind occupies at the given width. The viewport loader
// divides screen heights by it, so it must never overestimate and never
// reach zero.
func minItemHeight(kind msg.MediaType, width int) int {
	result := 1
	switch kind {
	case msg.TypePhoto, msg.TypeVideo, msg.TypeRoundFile:
		itemsLeft := gridSkip
		itemsInRow := (width - itemsLeft) / (minGridSize + gridSkip)
		if itemsInRow > 0 {
			result = (minGridSize + gridSkip) / itemsInRow
		}
	case msg.TypeVoiceFile:
		result = voiceRowHeight
	case msg.TypeFile:
		result = fileRowHeight
	case msg.TypeMusicFile:
		result = songRowHeight
	case msg.TypeLink:
		result = linkRowHeight
	}
	if result < 1 {
		result = 1
	}
	return result
}

// recountHeight assigns item positions and returns the section height.
// Grid kinds pack row-major with rows of itemWidth+gridSkip; single-column
// kinds accumulate each item's own measured height.
func (s *section) recountHeight() int {
	result := s.headerHeight()
	switch s.kind {
	case msg.TypePhoto, msg.TypeVideo, msg.TypeRoundFile:
		itemHeight := s.itemWidth + gridSkip
		index := 0
		result += s.itemsTop
		for _, item := range s.items {
			item.SetPosition(s.itemsInRow*result + index)
			index++
			if index == s.itemsInRow {
				result += itemHeight
				index = 0
			}
		}
		if len(s.items)%s.itemsInRow != 0 {
			s.rowsCount = len(s.items)/s.itemsInRow + 1
			result += itemHeight
		} else {
			s.rowsCount = len(s.items) / s.itemsInRow
		}
	case msg.TypeVoiceFile, msg.TypeFile, msg.TypeMusicFile, msg.TypeLink:
		for _, item := range s.items {
			item.SetPosition(result)
			result += item.Height()
		}
		s.rowsCount = len(s.items)
	}
	return result
}

func (s *section) refreshHeight() {
	s.height = s.recountHeight()
}

// paintContext carries the per-frame state the paint pass needs.
type paintContext struct {
	styles           *Styles
	selected         *selectedMap
	dragSelected     *selectedMap
	dragSelectAction dragSelectAction
}

// itemSelection resolves what selection to paint for one item: an active
// drag band overrides the persistent selection.
func (s *section) itemSelection(item *Renderable, ctx *paintContext) TextSelection {
	id := item.ID()
	if ctx.dragSelectAction != dragSelectActionNone && ctx.dragSelected.Has(id) {
		if ctx.dragSelectAction == dragSelectActionSelecting {
			return FullSelection
		}
		return TextSelection{}
	}
	if data := ctx.selected.Get(id); data != nil {
		return data.Text
	}
	return TextSelection{}
}

// paint draws the header and exactly the rows intersecting clip, each item
// in its own translated coordinate space. The first row under a header gets
// isAfterDate so items suppress their duplicate date label.
func (s *section) paint(c *Canvas, ctx *paintContext, clip Rect, outerWidth int) {
	header := s.headerHeight()
	if header > 0 && (Rect{0, 0, outerWidth, header}).Intersects(clip) {
		c.DrawText(headerLeft, 0, &ctx.styles.Header, s.header)
	}
	from := s.findItemAfterTop(clip.Y)
	till := s.findItemAfterBottom(from, clip.Y+clip.Height)
	for i := from; i < till; i++ {
		item := s.items[i]
		rect := s.findItemRect(item)
		if !rect.Intersects(clip) {
			continue
		}
		isAfterDate := header > 0 && rect.Y <= header+s.itemsTop
		c.PushOffset(rect.X, rect.Y)
		item.Paint(
			c,
			ctx.styles,
			clip.Translated(-rect.X, -rect.Y),
			s.itemSelection(item, ctx),
			isAfterDate,
		)
		c.PopOffset()
	}
}
