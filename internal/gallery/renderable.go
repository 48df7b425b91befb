package gallery

import (
	"fmt"
	"time"

	"github.com/rshade/mediashelf/internal/msg"
)

// Renderable wraps one message for one media-type view. Renderables are
// owned exclusively by the layout cache; sections hold borrowed pointers
// that die on the next cache sweep, so nothing outside the cache may retain
// one across rebuilds.
type Renderable struct {
	kind msg.MediaType
	id   msg.UniversalID
	date time.Time

	label   string
	caption string
	extra   string
	url     string

	canDelete  bool
	canForward bool

	// position is the 1-D placement index assigned by the owning section:
	// for grid kinds row*itemsInRow+column, for single-column kinds the
	// item's top offset inside the section.
	position int
	width    int
	height   int
}

// thumbWidth is the left thumbnail box of single-column rows; text starts
// right of it.
const (
	thumbWidth = 6
	textLeft   = thumbWidth + 2
)

// newRenderable builds the layout wrapper for the requested view kind, or
// returns nil when the item's payload does not match (deleted message,
// different media, unsupported kind).
func newRenderable(id msg.UniversalID, item *msg.Item, kind msg.MediaType) *Renderable {
	if item == nil || item.Type != kind || kind == msg.TypeRoundFile {
		return nil
	}
	r := &Renderable{
		kind:       kind,
		id:         id,
		date:       item.Date,
		label:      item.Name,
		caption:    item.Caption,
		url:        item.URL,
		canDelete:  item.CanDelete,
		canForward: item.CanForward,
	}
	switch kind {
	case msg.TypeFile:
		r.extra = formatSize(item.Size)
	case msg.TypeMusicFile, msg.TypeVoiceFile:
		r.extra = formatDuration(item.Duration)
	case msg.TypeLink:
		if r.label == "" {
			r.label = item.URL
		}
	}
	return r
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

func formatDuration(d time.Duration) string {
	s := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// ID returns the wrapped item's universal id.
func (r *Renderable) ID() msg.UniversalID {
	return r.id
}

// Date returns the wrapped item's timestamp.
func (r *Renderable) Date() time.Time {
	return r.date
}

// Position returns the 1-D placement index inside the owning section.
func (r *Renderable) Position() int {
	return r.position
}

// SetPosition stores the placement index assigned during height recount.
func (r *Renderable) SetPosition(position int) {
	r.position = position
}

// Height returns the last measured height.
func (r *Renderable) Height() int {
	return r.height
}

// ResizeGetHeight measures the renderable at the given width and returns the
// resulting height. Grid cells are square; single-column rows have fixed
// heights per kind.
func (r *Renderable) ResizeGetHeight(width int) int {
	r.width = width
	switch r.kind {
	case msg.TypePhoto, msg.TypeVideo, msg.TypeRoundFile:
		r.height = width
	case msg.TypeFile:
		r.height = fileRowHeight
	case msg.TypeMusicFile:
		r.height = songRowHeight
	case msg.TypeVoiceFile:
		r.height = voiceRowHeight
	case msg.TypeLink:
		r.height = linkRowHeight
	}
	return r.height
}

// HitState describes what lies under a cursor position inside an item.
type HitState struct {
	// Link is the activation target under the cursor ("" when none).
	Link string
	// InText is true when the cursor is over selectable caption text.
	InText bool
	// Symbol is the caption rune index under the cursor (valid with InText).
	Symbol uint16
	// AfterSymbol is true when the cursor sits past the caption's last rune.
	AfterSymbol bool
}

// openTarget is the activation target used for media without an URL.
func (r *Renderable) openTarget() string {
	return fmt.Sprintf("open:%d", r.id)
}

// StateAt resolves a cursor position in item-local coordinates.
func (r *Renderable) StateAt(p Point) HitState {
	var state HitState
	inside := p.X >= 0 && p.X < r.width && p.Y >= 0 && p.Y < r.height
	if !inside {
		return state
	}
	switch r.kind {
	case msg.TypePhoto, msg.TypeVideo, msg.TypeRoundFile:
		state.Link = r.openTarget()
	case msg.TypeFile, msg.TypeMusicFile, msg.TypeVoiceFile:
		if p.X < thumbWidth || (p.Y == 0 && p.X >= textLeft) {
			state.Link = r.openTarget()
		}
		r.textStateAt(p, textLeft, 1, &state)
	case msg.TypeLink:
		if p.Y == 0 {
			state.Link = r.url
		}
		r.textStateAt(p, 0, 1, &state)
	}
	return state
}

// textStateAt fills the symbol-lookup part of state when p lies on the
// caption line starting at (textX, textY).
func (r *Renderable) textStateAt(p Point, textX, textY int, state *HitState) {
	if r.caption == "" || p.Y != textY || p.X < textX {
		return
	}
	runes := []rune(r.caption)
	idx := p.X - textX
	if idx >= len(runes) {
		state.InText = false
		state.Symbol = uint16(len(runes))
		state.AfterSymbol = true
		return
	}
	state.InText = true
	state.Symbol = uint16(idx)
}

// AdjustSelection widens sel to the requested granularity over the caption.
func (r *Renderable) AdjustSelection(sel TextSelection, mode TextSelectType) TextSelection {
	runes := []rune(r.caption)
	if len(runes) == 0 || sel == FullSelection {
		return sel
	}
	switch mode {
	case TextSelectParagraphs:
		return TextSelection{From: 0, To: uint16(len(runes))}
	case TextSelectWords:
		from := int(sel.From)
		to := int(sel.To)
		if from > len(runes) {
			from = len(runes)
		}
		if to > len(runes) {
			to = len(runes)
		}
		for from > 0 && runes[from-1] != ' ' {
			from--
		}
		for to < len(runes) && runes[to] != ' ' {
			to++
		}
		return TextSelection{From: uint16(from), To: uint16(to)}
	}
	return sel
}

// kindGlyph is the marker painted on grid cells and row thumbnails.
func (r *Renderable) kindGlyph() string {
	switch r.kind {
	case msg.TypePhoto:
		return "▣"
	case msg.TypeVideo:
		return "▶"
	case msg.TypeRoundFile:
		return "◉"
	case msg.TypeFile:
		return "▤"
	case msg.TypeMusicFile:
		return "♫"
	case msg.TypeVoiceFile:
		return "●"
	}
	return "·"
}

// Paint draws the item into its own coordinate space. clip is in the same
// space. isAfterDate suppresses the per-item date label for the row directly
// under a section header, which already names the period.
func (r *Renderable) Paint(c *Canvas, st *Styles, clip Rect, sel TextSelection, isAfterDate bool) {
	switch r.kind {
	case msg.TypePhoto, msg.TypeVideo, msg.TypeRoundFile:
		r.paintGrid(c, st, sel, isAfterDate)
	case msg.TypeFile, msg.TypeMusicFile, msg.TypeVoiceFile:
		r.paintRow(c, st, sel)
	case msg.TypeLink:
		r.paintLink(c, st, sel)
	}
}

func (r *Renderable) paintGrid(c *Canvas, st *Styles, sel TextSelection, isAfterDate bool) {
	bg := &st.Grid
	if sel == FullSelection {
		bg = &st.GridSelected
	}
	c.FillRect(Rect{0, 0, r.width, r.height}, ' ', bg)
	c.DrawText(r.width/2, r.height/2, bg, r.kindGlyph())
	if !isAfterDate && r.height > 1 {
		c.DrawText(0, r.height-1, bg, r.date.Format("2 Jan"))
	}
	if sel == FullSelection {
		c.DrawText(r.width-1, 0, &st.Check, "✓")
	}
}

func (r *Renderable) paintRow(c *Canvas, st *Styles, sel TextSelection) {
	thumb := &st.Grid
	if sel == FullSelection {
		thumb = &st.GridSelected
	}
	c.FillRect(Rect{0, 0, thumbWidth, r.height}, ' ', thumb)
	c.DrawText(1, r.height/2, thumb, r.kindGlyph())
	label := &st.Label
	if sel == FullSelection {
		label = &st.Selected
	}
	c.DrawText(textLeft, 0, label, r.label)
	r.paintCaption(c, st, textLeft, 1, sel)
	if r.height > 2 {
		c.DrawText(textLeft, 2, &st.Caption, r.extra+"  "+r.date.Format("2 Jan 2006"))
	}
	if sel == FullSelection {
		c.DrawText(thumbWidth-1, 0, &st.Check, "✓")
	}
}

func (r *Renderable) paintLink(c *Canvas, st *Styles, sel TextSelection) {
	title := &st.Link
	if sel == FullSelection {
		title = &st.Selected
	}
	c.DrawText(0, 0, title, r.label)
	r.paintCaption(c, st, 0, 1, sel)
	if sel == FullSelection {
		c.DrawText(r.width-1, 0, &st.Check, "✓")
	}
}

// paintCaption draws the caption line honoring a partial text selection.
func (r *Renderable) paintCaption(c *Canvas, st *Styles, x, y int, sel TextSelection) {
	if r.caption == "" {
		return
	}
	if sel == FullSelection {
		c.DrawText(x, y, &st.Selected, r.caption)
		return
	}
	runes := []rune(r.caption)
	for i, ch := range runes {
		style := &st.Caption
		if uint16(i) >= sel.From && uint16(i) < sel.To {
			style = &st.Selected
		}
		c.DrawText(x+i, y, style, string(ch))
	}
}
