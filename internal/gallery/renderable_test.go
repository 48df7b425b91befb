package gallery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/mediashelf/internal/msg"
)

func TestNewRenderableRejects(t *testing.T) {
	when := date(2026, 3, 1)

	assert.Nil(t, newRenderable(1, nil, msg.TypePhoto))
	assert.Nil(t, newRenderable(1, testItem(1, msg.TypeVideo, when), msg.TypePhoto))
	assert.Nil(t, newRenderable(1, testItem(1, msg.TypeRoundFile, when), msg.TypeRoundFile))
	assert.NotNil(t, newRenderable(1, testItem(1, msg.TypePhoto, when), msg.TypePhoto))
}

func TestRenderableHeights(t *testing.T) {
	when := date(2026, 3, 1)
	tests := []struct {
		kind msg.MediaType
		want int
	}{
		{msg.TypePhoto, 12},
		{msg.TypeVideo, 12},
		{msg.TypeFile, fileRowHeight},
		{msg.TypeMusicFile, songRowHeight},
		{msg.TypeVoiceFile, voiceRowHeight},
		{msg.TypeLink, linkRowHeight},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			r := testRenderable(1, tt.kind, when)
			assert.Equal(t, tt.want, r.ResizeGetHeight(12))
			assert.Equal(t, tt.want, r.Height())
		})
	}
}

func TestGridStateAt(t *testing.T) {
	r := testRenderable(9, msg.TypePhoto, date(2026, 3, 1))
	r.ResizeGetHeight(10)

	inside := r.StateAt(Point{4, 4})
	assert.Equal(t, "open:9", inside.Link)
	assert.False(t, inside.InText)

	outside := r.StateAt(Point{11, 4})
	assert.Empty(t, outside.Link)
}

func TestRowStateAt(t *testing.T) {
	item := testItem(9, msg.TypeFile, date(2026, 3, 1))
	item.Caption = "quarterly report"
	r := newRenderable(9, item, msg.TypeFile)
	require.NotNil(t, r)
	r.ResizeGetHeight(40)

	// Thumbnail and label line activate the item.
	assert.Equal(t, "open:9", r.StateAt(Point{2, 1}).Link)
	assert.Equal(t, "open:9", r.StateAt(Point{textLeft + 1, 0}).Link)

	// The caption line maps to rune indexes.
	hit := r.StateAt(Point{textLeft + 3, 1})
	assert.True(t, hit.InText)
	assert.Equal(t, uint16(3), hit.Symbol)

	// Past the caption end.
	past := r.StateAt(Point{textLeft + 30, 1})
	assert.False(t, past.InText)
	assert.True(t, past.AfterSymbol)
	assert.Equal(t, uint16(len("quarterly report")), past.Symbol)
}

func TestLinkStateAt(t *testing.T) {
	item := testItem(9, msg.TypeLink, date(2026, 3, 1))
	item.URL = "https://example.com/post"
	item.Caption = "worth reading"
	r := newRenderable(9, item, msg.TypeLink)
	require.NotNil(t, r)
	r.ResizeGetHeight(40)

	assert.Equal(t, "https://example.com/post", r.StateAt(Point{1, 0}).Link)
	assert.Empty(t, r.StateAt(Point{1, 1}).Link)
	assert.True(t, r.StateAt(Point{1, 1}).InText)
}

func TestAdjustSelection(t *testing.T) {
	item := testItem(9, msg.TypeFile, date(2026, 3, 1))
	item.Caption = "three small words"
	r := newRenderable(9, item, msg.TypeFile)
	require.NotNil(t, r)

	words := r.AdjustSelection(TextSelection{From: 7, To: 8}, TextSelectWords)
	assert.Equal(t, TextSelection{From: 6, To: 11}, words)

	paragraph := r.AdjustSelection(TextSelection{From: 7, To: 8}, TextSelectParagraphs)
	assert.Equal(t, TextSelection{From: 0, To: 17}, paragraph)

	// FullSelection passes through untouched.
	assert.Equal(t, FullSelection, r.AdjustSelection(FullSelection, TextSelectWords))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "2.0 KB", formatSize(2048))
	assert.Equal(t, "1.5 MB", formatSize(3<<19))
	assert.Equal(t, "2:05", formatDuration(125*time.Second))
}
