package gallery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/mediashelf/internal/msg"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func testItem(id int64, kind msg.MediaType, when time.Time) *msg.Item {
	return &msg.Item{
		ID:         msg.FullID{ChannelID: 1, MessageID: id},
		Type:       kind,
		Date:       when,
		Name:       "item",
		Caption:    "a short caption",
		CanDelete:  true,
		CanForward: true,
	}
}

func testRenderable(id int64, kind msg.MediaType, when time.Time) *Renderable {
	r := newRenderable(msg.UniversalID(id), testItem(id, kind, when), kind)
	if r == nil {
		panic("testRenderable: construction failed")
	}
	return r
}

// buildSection adds renderables newest-first, the same order the widget
// rebuild uses.
func buildSection(kind msg.MediaType, width int, items ...*Renderable) *section {
	s := newSection(kind)
	for _, item := range items {
		if !s.addItem(item) {
			panic("buildSection: item rejected")
		}
	}
	s.resizeToWidth(width)
	return s
}

func TestSectionBelongsHere(t *testing.T) {
	tests := []struct {
		name   string
		kind   msg.MediaType
		first  time.Time
		second time.Time
		want   bool
	}{
		{"photos same month", msg.TypePhoto, date(2026, 3, 28), date(2026, 3, 2), true},
		{"photos different month", msg.TypePhoto, date(2026, 3, 2), date(2026, 2, 27), false},
		{"photos same month different year", msg.TypePhoto, date(2026, 3, 2), date(2025, 3, 2), false},
		{"files same month", msg.TypeFile, date(2026, 3, 28), date(2026, 3, 2), true},
		{"links same day", msg.TypeLink, date(2026, 3, 2), date(2026, 3, 2), true},
		{"links different day", msg.TypeLink, date(2026, 3, 2), date(2026, 3, 1), false},
		{"music different year", msg.TypeMusicFile, date(2026, 3, 2), date(2020, 1, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSection(tt.kind)
			require.True(t, s.addItem(testRenderable(10, tt.kind, tt.first)))
			got := s.addItem(testRenderable(5, tt.kind, tt.second))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSectionHeaders(t *testing.T) {
	photos := buildSection(msg.TypePhoto, 40, testRenderable(9, msg.TypePhoto, date(2026, 3, 15)))
	assert.Equal(t, "March 2026", photos.header)
	assert.Equal(t, headerHeight, photos.headerHeight())

	links := buildSection(msg.TypeLink, 40, testRenderable(9, msg.TypeLink, date(2026, 3, 15)))
	assert.Equal(t, "15 March 2026", links.header)

	music := buildSection(msg.TypeMusicFile, 40, testRenderable(9, msg.TypeMusicFile, date(2026, 3, 15)))
	assert.Equal(t, "", music.header)
	assert.Equal(t, 0, music.headerHeight())
}

func TestSectionGridLayout(t *testing.T) {
	when := date(2026, 3, 10)
	items := []*Renderable{
		testRenderable(5, msg.TypePhoto, when),
		testRenderable(4, msg.TypePhoto, when),
		testRenderable(3, msg.TypePhoto, when),
		testRenderable(2, msg.TypePhoto, when),
		testRenderable(1, msg.TypePhoto, when),
	}
	s := buildSection(msg.TypePhoto, 40, items...)

	// (40-1)/(12+1) = 3 columns of width 39/3-1 = 12.
	assert.Equal(t, 3, s.itemsInRow)
	assert.Equal(t, 12, s.itemWidth)
	assert.Equal(t, 2, s.rowsCount)
	// header 2 + grid top 1 + two rows of 13.
	assert.Equal(t, 29, s.Height())

	// Every item's rect maps back to the item through point lookup.
	for _, item := range items {
		rect := s.findItemRect(item)
		found := s.findItemByPoint(rect.TopLeft())
		assert.Same(t, item, found.item)
		assert.True(t, found.exact)
		assert.Equal(t, rect, found.rect)
	}
}

func TestSectionPartialRowClamp(t *testing.T) {
	when := date(2026, 3, 10)
	s := buildSection(msg.TypePhoto, 40,
		testRenderable(5, msg.TypePhoto, when),
		testRenderable(4, msg.TypePhoto, when),
		testRenderable(3, msg.TypePhoto, when),
		testRenderable(2, msg.TypePhoto, when),
	)
	last := s.items[len(s.items)-1]
	lastRect := s.findItemRect(last)

	// A point in the empty third column of the partial row clamps to the
	// last item, inexactly.
	point := Point{X: lastRect.Right() + gridSkip + 2, Y: lastRect.Y + 1}
	found := s.findItemByPoint(point)
	assert.Same(t, last, found.item)
	assert.False(t, found.exact)
}

func TestSectionResizeIdempotent(t *testing.T) {
	when := date(2026, 3, 10)
	s := buildSection(msg.TypeFile, 50,
		testRenderable(3, msg.TypeFile, when),
		testRenderable(2, msg.TypeFile, when),
		testRenderable(1, msg.TypeFile, when),
	)
	first := s.Height()
	s.resizeToWidth(50)
	assert.Equal(t, first, s.Height())

	// Header 2 + three rows of fileRowHeight.
	assert.Equal(t, headerHeight+3*fileRowHeight, first)
}

func TestSectionRejectsNarrowWidth(t *testing.T) {
	when := date(2026, 3, 10)
	s := buildSection(msg.TypePhoto, 40, testRenderable(1, msg.TypePhoto, when))
	before := s.itemWidth
	s.resizeToWidth(minGridSize + 2*gridSkip - 1)
	assert.Equal(t, before, s.itemWidth)
}

func TestSectionFindItemNearID(t *testing.T) {
	when := date(2026, 3, 10)
	s := buildSection(msg.TypePhoto, 40,
		testRenderable(30, msg.TypePhoto, when),
		testRenderable(20, msg.TypePhoto, when),
		testRenderable(10, msg.TypePhoto, when),
	)

	exact := s.findItemNearID(20)
	assert.True(t, exact.exact)
	assert.Equal(t, msg.UniversalID(20), exact.item.ID())

	// Absent id resolves to the next-smaller member.
	floor := s.findItemNearID(25)
	assert.False(t, floor.exact)
	assert.Equal(t, msg.UniversalID(20), floor.item.ID())

	// Below the whole section, the oldest member.
	below := s.findItemNearID(1)
	assert.False(t, below.exact)
	assert.Equal(t, msg.UniversalID(10), below.item.ID())
}

func TestMinItemHeightNeverZero(t *testing.T) {
	for _, kind := range []msg.MediaType{
		msg.TypePhoto, msg.TypeVideo, msg.TypeFile,
		msg.TypeMusicFile, msg.TypeVoiceFile, msg.TypeLink,
	} {
		for _, width := range []int{13, 40, 200, 2000} {
			assert.Positive(t, minItemHeight(kind, width), "%s at width %d", kind, width)
		}
	}
}
