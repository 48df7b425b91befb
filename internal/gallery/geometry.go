// Package gallery implements the sectioned, virtualized grid/list engine
// behind the shared-media browser: a partially loaded, date-grouped
// collection of variable-size items with lazy geometry, point-to-item hit
// testing, bounded multi-select and drag-selection gestures.
//
// All geometry is in integer terminal cells. The engine owns no goroutines:
// every method must be called from the host's update loop.
package gallery

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// Add returns p shifted by q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p shifted by -q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// ManhattanLength returns |X| + |Y|.
func (p Point) ManhattanLength() int {
	x, y := p.X, p.Y
	if x < 0 {
		x = -x
	}
	if y < 0 {
		y = -y
	}
	return x + y
}

// Size is a width/height pair in cells.
type Size struct {
	Width, Height int
}

// Rect is an axis-aligned cell rectangle.
type Rect struct {
	X, Y, Width, Height int
}

// Bottom returns the exclusive lower edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{r.Width, r.Height}
}

// TopLeft returns the rectangle's origin.
func (r Rect) TopLeft() Point {
	return Point{r.X, r.Y}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects reports whether r and o share any cell.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Translated returns r shifted by (dx, dy).
func (r Rect) Translated(dx, dy int) Rect {
	return Rect{r.X + dx, r.Y + dy, r.Width, r.Height}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// floorClamp divides value by step rounding down and clamps into [lo, hi].
func floorClamp(value, step, lo, hi int) int {
	return clamp(value/step, lo, hi)
}
