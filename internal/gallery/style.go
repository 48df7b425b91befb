package gallery

import "github.com/charmbracelet/lipgloss"

// Cell-unit metrics of the gallery layout. The grid invariant that the rest
// of the engine leans on: a grid row advances by itemWidth+gridSkip, and
// items-per-row = (width - gridLeft) / (minGridSize + gridSkip).
const (
	// minGridSize is the smallest allowed width of one grid cell.
	minGridSize = 12
	// gridSkip is the gap between grid cells and between grid rows.
	gridSkip = 1
	// headerHeight is the height of a non-empty section header.
	headerHeight = 2
	// headerLeft indents section headers and single-column rows.
	headerLeft = 2

	// Fixed per-item heights of the single-column kinds.
	fileRowHeight  = 3
	songRowHeight  = 3
	voiceRowHeight = 3
	linkRowHeight  = 2

	// outerPaddingTop/Bottom frame the whole section list.
	outerPaddingTop    = 1
	outerPaddingBottom = 1
)

// Styles groups the lipgloss styles used while painting. A value is built
// once per theme and replaced wholesale on a theme-change notification.
type Styles struct {
	Header       lipgloss.Style
	Grid         lipgloss.Style
	GridSelected lipgloss.Style
	Label        lipgloss.Style
	Caption      lipgloss.Style
	Selected     lipgloss.Style
	Link         lipgloss.Style
	Check        lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Header:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("243")),
		Grid:         lipgloss.NewStyle().Background(lipgloss.Color("236")),
		GridSelected: lipgloss.NewStyle().Background(lipgloss.Color("25")),
		Label:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Caption:      lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		Selected:     lipgloss.NewStyle().Background(lipgloss.Color("25")).Foreground(lipgloss.Color("255")),
		Link:         lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
		Check:        lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	}
}
