// Package tui hosts the shared-media browser: a Bubble Tea program that
// owns the terminal, feeds mouse and scroll input into the gallery engine
// and runs its slice queries as commands.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/mediashelf/internal/config"
	"github.com/rshade/mediashelf/internal/gallery"
	"github.com/rshade/mediashelf/internal/msg"
	"github.com/rshade/mediashelf/internal/store"
)

// tabs is the fixed media tab order.
var tabs = []msg.MediaType{
	msg.TypePhoto,
	msg.TypeVideo,
	msg.TypeFile,
	msg.TypeLink,
	msg.TypeMusicFile,
	msg.TypeVoiceFile,
}

var tabTitles = map[msg.MediaType]string{
	msg.TypePhoto:     "Photos",
	msg.TypeVideo:     "Videos",
	msg.TypeFile:      "Files",
	msg.TypeLink:      "Links",
	msg.TypeMusicFile: "Music",
	msg.TypeVoiceFile: "Voice",
}

// Chrome rows around the gallery viewport: the tab bar and the status line.
const (
	chromeTop    = 1
	chromeBottom = 1
)

// sliceMsg delivers a finished slice query back into the update loop.
type sliceMsg struct {
	kind  msg.MediaType
	seq   uint64
	slice msg.Slice
	err   error
}

// tabState is the per-tab gallery plus its independent scroll position.
type tabState struct {
	kind      msg.MediaType
	widget    *gallery.Widget
	scrollTop int
	loading   bool
}

// BrowseModel is the Bubble Tea model for the media browser.
type BrowseModel struct {
	ctx       context.Context
	log       zerolog.Logger
	archive   *store.Archive
	viewer    *store.Viewer
	events    *msg.Events
	channelID int64

	session     *config.Session
	sessionPath string

	states  map[msg.MediaType]*tabState
	current int

	width  int
	height int

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	selectedCount int
	searchable    bool
	status        string
	quitting      bool
	err           error

	// Double-click tracking for the gallery's escalation gestures.
	lastClickAt  time.Time
	lastClickPos gallery.Point
}

// NewBrowseModel wires the browser against one chat's archive view. events
// must be the same bus the archive announces deletions on.
func NewBrowseModel(
	ctx context.Context,
	logger zerolog.Logger,
	archive *store.Archive,
	events *msg.Events,
	channelID int64,
	session *config.Session,
	sessionPath string,
) *BrowseModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &BrowseModel{
		ctx:         ctx,
		log:         logger.With().Str("component", "tui").Logger(),
		archive:     archive,
		viewer:      archive.Viewer(ctx, channelID),
		events:      events,
		channelID:   channelID,
		session:     session,
		sessionPath: sessionPath,
		states:      make(map[msg.MediaType]*tabState),
		keys:        defaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
	}
}

func (m *BrowseModel) currentKind() msg.MediaType {
	return tabs[m.current]
}

func (m *BrowseModel) currentState() *tabState {
	return m.state(m.currentKind())
}

// state returns (creating on first use) the tab state for kind. Creation
// restores the saved browsing position when the session has one.
func (m *BrowseModel) state(kind msg.MediaType) *tabState {
	if st, ok := m.states[kind]; ok {
		return st
	}
	w := gallery.NewWidget(gallery.Config{
		Source:    m.viewer,
		Events:    m.events,
		Kind:      kind,
		ChannelID: m.channelID,
		Logger:    m.log,
	})
	st := &tabState{kind: kind, widget: w}
	m.states[kind] = st

	w.ScrollToRequests().Subscribe(func(top int) {
		st.scrollTop = m.clampScroll(st, top)
	})
	w.SelectedValue().Subscribe(func(items gallery.SelectedItems) {
		if items.Type == m.currentKind() {
			m.selectedCount = len(items.List)
		}
	})
	w.SearchEnabledByContent().Subscribe(func(enabled bool) {
		if kind == m.currentKind() {
			m.searchable = enabled
		}
	})
	w.ActivateRequests().Subscribe(func(target string) {
		m.status = "activate " + target
		m.log.Info().Str("target", target).Msg("item activated")
	})
	w.DragRequests().Subscribe(func(ids []msg.FullID) {
		m.log.Debug().Int("count", len(ids)).Msg("drag started")
	})
	return st
}

// Init starts the first tab's query.
func (m *BrowseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.openTab(m.currentKind()))
}

// openTab (re)activates one tab: restore its saved position on first open,
// otherwise just refresh the viewport.
func (m *BrowseModel) openTab(kind msg.MediaType) tea.Cmd {
	st := m.state(kind)
	if st.widget.Empty() && !st.loading {
		var req *gallery.SliceRequest
		if saved, ok := m.session.Get(m.sessionKey(kind)); ok {
			req = st.widget.RestoreState(gallery.Memento{
				AroundID: msg.FullID{
					ChannelID: saved.AroundChannelID,
					MessageID: saved.AroundMessageID,
				},
				IdsLimit: saved.IdsLimit,
				ScrollTopItem: msg.FullID{
					ChannelID: saved.ScrollTopChannel,
					MessageID: saved.ScrollTopMessage,
				},
				ScrollTopShift: saved.ScrollTopShift,
			})
		}
		if req == nil {
			req = st.widget.Restart()
		}
		st.loading = true
		return m.runSliceQuery(kind, req)
	}
	return m.updateVisible(st)
}

func (m *BrowseModel) sessionKey(kind msg.MediaType) config.ChatKey {
	return config.ChatKey{ChannelID: m.channelID, Tab: kind.String()}
}

// runSliceQuery executes one gallery query off the update loop.
func (m *BrowseModel) runSliceQuery(kind msg.MediaType, req *gallery.SliceRequest) tea.Cmd {
	viewer := m.viewer
	return func() tea.Msg {
		slice, err := viewer.QuerySlice(kind, req.AroundID, req.LimitBefore, req.LimitAfter)
		return sliceMsg{kind: kind, seq: req.Seq, slice: slice, err: err}
	}
}

func (m *BrowseModel) viewportHeight() int {
	h := m.height - chromeTop - chromeBottom
	if h < 0 {
		h = 0
	}
	return h
}

func (m *BrowseModel) clampScroll(st *tabState, top int) int {
	max := st.widget.TotalHeight() - m.viewportHeight()
	if max < 0 {
		max = 0
	}
	if top > max {
		top = max
	}
	if top < 0 {
		top = 0
	}
	return top
}

// updateVisible pushes the viewport into the widget and turns any preload
// request into a command.
func (m *BrowseModel) updateVisible(st *tabState) tea.Cmd {
	st.scrollTop = m.clampScroll(st, st.scrollTop)
	req := st.widget.VisibleTopBottomUpdated(st.scrollTop, st.scrollTop+m.viewportHeight())
	if req == nil {
		return nil
	}
	st.loading = true
	return m.runSliceQuery(st.kind, req)
}

// Update handles messages (Bubble Tea interface).
func (m *BrowseModel) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := teaMsg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.help.Width = v.Width
		st := m.currentState()
		st.widget.ResizeGetHeight(v.Width)
		return m, m.updateVisible(st)

	case sliceMsg:
		return m.handleSlice(v)

	case spinner.TickMsg:
		if !m.anyLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(v)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(v)

	case tea.KeyMsg:
		return m.handleKey(v)
	}
	return m, nil
}

func (m *BrowseModel) anyLoading() bool {
	for _, st := range m.states {
		if st.loading {
			return true
		}
	}
	return false
}

func (m *BrowseModel) handleSlice(v sliceMsg) (tea.Model, tea.Cmd) {
	st := m.state(v.kind)
	st.loading = false
	if v.err != nil {
		m.err = v.err
		m.log.Error().Err(v.err).Stringer("kind", v.kind).Msg("slice query failed")
		return m, nil
	}
	if st.widget.Width() == 0 && m.width > 0 {
		st.widget.ResizeGetHeight(m.width)
	}
	if !st.widget.ApplySlice(v.seq, v.slice) {
		return m, nil
	}
	return m, m.updateVisible(st)
}

func (m *BrowseModel) handleKey(v tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.currentState()
	page := m.viewportHeight()
	switch {
	case key.Matches(v, m.keys.Quit):
		m.quitting = true
		m.saveSession()
		return m, tea.Quit
	case key.Matches(v, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(v, m.keys.NextTab):
		return m.switchTab((m.current + 1) % len(tabs))
	case key.Matches(v, m.keys.PrevTab):
		return m.switchTab((m.current + len(tabs) - 1) % len(tabs))
	case key.Matches(v, m.keys.Up):
		st.scrollTop--
	case key.Matches(v, m.keys.Down):
		st.scrollTop++
	case key.Matches(v, m.keys.PageUp):
		st.scrollTop -= page
	case key.Matches(v, m.keys.PageDown):
		st.scrollTop += page
	case key.Matches(v, m.keys.Home):
		st.scrollTop = 0
	case key.Matches(v, m.keys.End):
		st.scrollTop = st.widget.TotalHeight()
	case key.Matches(v, m.keys.Clear):
		st.widget.MouseCancel()
		st.widget.ClearSelected()
		return m, nil
	case key.Matches(v, m.keys.Delete):
		return m, m.deleteSelected(st)
	default:
		return m, nil
	}
	return m, m.updateVisible(st)
}

func (m *BrowseModel) switchTab(index int) (tea.Model, tea.Cmd) {
	if index == m.current {
		return m, nil
	}
	m.currentState().widget.MouseCancel()
	m.current = index
	m.selectedCount = 0
	m.searchable = false
	st := m.currentState()
	if m.width > 0 {
		st.widget.ResizeGetHeight(m.width)
	}
	return m, m.openTab(m.currentKind())
}

// deleteSelected removes the selected messages from the archive. The store
// announces each deletion, which drops the rows from every tab in place.
func (m *BrowseModel) deleteSelected(st *tabState) tea.Cmd {
	ids := st.widget.SelectedIDs()
	if len(ids) == 0 {
		return nil
	}
	st.widget.ClearSelected()
	if err := m.archive.Remove(m.ctx, ids); err != nil {
		m.err = err
		m.log.Error().Err(err).Msg("delete failed")
		return nil
	}
	m.status = "deleted"
	return m.updateVisible(st)
}

// handleMouse translates terminal mouse events into gallery gestures. The
// gallery works in content coordinates: the viewport row under the tab bar
// plus the scroll offset.
func (m *BrowseModel) handleMouse(v tea.MouseMsg) (tea.Model, tea.Cmd) {
	st := m.currentState()
	point := gallery.Point{X: v.X, Y: v.Y - chromeTop + st.scrollTop}

	switch v.Button {
	case tea.MouseButtonWheelUp:
		st.scrollTop -= 3
		return m, m.updateVisible(st)
	case tea.MouseButtonWheelDown:
		st.scrollTop += 3
		return m, m.updateVisible(st)
	}

	if st.widget.Empty() {
		return m, nil
	}
	switch v.Action {
	case tea.MouseActionPress:
		if v.Button != tea.MouseButtonLeft {
			return m, nil
		}
		now := time.Now()
		doubleClick := now.Sub(m.lastClickAt) < gallery.DoubleClickInterval &&
			point.Sub(m.lastClickPos).ManhattanLength() < gallery.DoubleClickRadius
		m.lastClickAt = now
		m.lastClickPos = point
		if doubleClick {
			st.widget.MouseDoubleClick(point)
		} else {
			st.widget.MousePress(point)
		}
	case tea.MouseActionMotion:
		st.widget.MouseMove(point)
	case tea.MouseActionRelease:
		st.widget.MouseRelease(point)
	}
	return m, nil
}

// saveSession captures every opened tab's position into the session file.
func (m *BrowseModel) saveSession() {
	for kind, st := range m.states {
		key := m.sessionKey(kind)
		memento, ok := st.widget.SaveState()
		if !ok {
			m.session.Delete(key)
			continue
		}
		m.session.Put(key, config.ChatState{
			AroundChannelID:  memento.AroundID.ChannelID,
			AroundMessageID:  memento.AroundID.MessageID,
			IdsLimit:         memento.IdsLimit,
			ScrollTopChannel: memento.ScrollTopItem.ChannelID,
			ScrollTopMessage: memento.ScrollTopItem.MessageID,
			ScrollTopShift:   memento.ScrollTopShift,
		})
	}
	if err := m.session.Save(m.sessionPath); err != nil {
		m.log.Warn().Err(err).Msg("session save failed")
	}
}
