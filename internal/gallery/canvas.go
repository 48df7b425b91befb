package gallery

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Canvas is a styled cell buffer the engine paints into. Sections paint in
// their own translated coordinate space, mirroring how the widget walks the
// section list; PushOffset/PopOffset implement the translation stack.
// Out-of-bounds writes are clipped silently.
type Canvas struct {
	width, height int
	runes         []rune
	styles        []*lipgloss.Style

	offX, offY []int
	dx, dy     int
}

// NewCanvas returns a blank canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c := &Canvas{
		width:  width,
		height: height,
		runes:  make([]rune, width*height),
		styles: make([]*lipgloss.Style, width*height),
	}
	for i := range c.runes {
		c.runes[i] = ' '
	}
	return c
}

// PushOffset translates all subsequent drawing by (dx, dy).
func (c *Canvas) PushOffset(dx, dy int) {
	c.offX = append(c.offX, dx)
	c.offY = append(c.offY, dy)
	c.dx += dx
	c.dy += dy
}

// PopOffset undoes the most recent PushOffset.
func (c *Canvas) PopOffset() {
	n := len(c.offX) - 1
	if n < 0 {
		return
	}
	c.dx -= c.offX[n]
	c.dy -= c.offY[n]
	c.offX = c.offX[:n]
	c.offY = c.offY[:n]
}

func (c *Canvas) set(x, y int, r rune, style *lipgloss.Style) {
	x += c.dx
	y += c.dy
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	i := y*c.width + x
	c.runes[i] = r
	c.styles[i] = style
}

// DrawText writes text starting at (x, y) in the current coordinate space.
func (c *Canvas) DrawText(x, y int, style *lipgloss.Style, text string) {
	for _, r := range text {
		c.set(x, y, r, style)
		x++
	}
}

// FillRect fills r with ch.
func (c *Canvas) FillRect(r Rect, ch rune, style *lipgloss.Style) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			c.set(x, y, ch, style)
		}
	}
}

// String assembles the buffer into terminal output, styling maximal runs of
// cells that share a style.
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := y * c.width
		for x := 0; x < c.width; {
			style := c.styles[row+x]
			run := x
			for run < c.width && c.styles[row+run] == style {
				run++
			}
			text := string(c.runes[row+x : row+run])
			if style != nil {
				text = style.Render(text)
			}
			b.WriteString(text)
			x = run
		}
	}
	return b.String()
}
