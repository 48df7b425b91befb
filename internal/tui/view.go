package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/mediashelf/internal/gallery"
)

var (
	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(lipgloss.Color("215"))
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
)

var statusPrinter = message.NewPrinter(language.English)

// View renders the tab bar, the visible gallery region and the status line
// (Bubble Tea interface).
func (m *BrowseModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteByte('\n')
	b.WriteString(m.renderGallery())
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m *BrowseModel) renderTabs() string {
	parts := make([]string, 0, len(tabs))
	for i, kind := range tabs {
		style := tabStyle
		if i == m.current {
			style = activeTabStyle
		}
		parts = append(parts, style.Render(tabTitles[kind]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderGallery paints the widget's visible band into a viewport-sized
// canvas, the widget shifted up by the scroll offset.
func (m *BrowseModel) renderGallery() string {
	st := m.currentState()
	height := m.viewportHeight()
	if height <= 0 {
		return ""
	}
	canvas := gallery.NewCanvas(m.width, height)
	canvas.PushOffset(0, -st.scrollTop)
	st.widget.Paint(canvas, gallery.Rect{
		X:      0,
		Y:      st.scrollTop,
		Width:  m.width,
		Height: height,
	})
	canvas.PopOffset()
	return canvas.String()
}

func (m *BrowseModel) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render("error: " + m.err.Error())
	}
	st := m.currentState()
	var parts []string
	if st.loading {
		parts = append(parts, m.spinner.View()+"loading")
	}
	if m.selectedCount > 0 {
		parts = append(parts,
			statusPrinter.Sprintf("%d of %d selected", m.selectedCount, gallery.MaxSelectedItems))
	}
	if m.searchable {
		parts = append(parts, "searchable")
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	left := statusStyle.Render(strings.Join(parts, "  "))
	helpView := m.help.View(m.keys)
	if helpView == "" {
		return left
	}
	if left == "" {
		return helpView
	}
	return left + "  " + helpView
}
