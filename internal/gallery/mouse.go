package gallery

import (
	"time"

	"github.com/rshade/mediashelf/internal/msg"
)

// mouseAction is the outer gesture state. The click-escalation granularity
// (TextSelectType) is tracked orthogonally so the two axes cannot explode
// into a combined enum.
type mouseAction int

const (
	mouseActionNone mouseAction = iota
	mouseActionPrepareDrag
	mouseActionPrepareSelect
	mouseActionSelecting
	mouseActionDragging
)

// TextSelectType is the click-escalation granularity of text selection.
type TextSelectType int

const (
	TextSelectLetters TextSelectType = iota
	TextSelectWords
	TextSelectParagraphs
)

type dragSelectAction int

const (
	dragSelectActionNone dragSelectAction = iota
	dragSelectActionSelecting
	dragSelectActionDeselecting
)

// CursorState pins a pointer position to an item: the item id, the item's
// size, the cursor position relative to the item's origin, and whether the
// cursor is exactly inside the item. Recomputed on every pointer move.
type CursorState struct {
	ItemID msg.UniversalID
	Size   Size
	Cursor Point
	Inside bool
}

// Gesture thresholds. The double-click pair is exported so the host detects
// double clicks with the same bounds the engine escalates with.
const (
	// dragStartDistance is the Manhattan distance a pressed pointer must
	// travel before PrepareDrag commits to Dragging.
	dragStartDistance = 2
	// DoubleClickInterval bounds click escalation timing.
	DoubleClickInterval = 400 * time.Millisecond
	// DoubleClickRadius bounds click escalation to nearby presses.
	DoubleClickRadius = 2
)

// isAfter orders two cursor states along the list: by item id first, then by
// the summed cursor offset inside the same item.
func isAfter(a, b CursorState) bool {
	if a.ItemID != b.ItemID {
		return a.ItemID < b.ItemID
	}
	xAfter := a.Cursor.X - b.Cursor.X
	yAfter := a.Cursor.Y - b.Cursor.Y
	return xAfter+yAfter >= 0
}

// skipSelectFromItem excludes the band's leading item when the cursor sits
// at or past its right/bottom edge.
func skipSelectFromItem(state CursorState) bool {
	return state.Cursor.Y >= state.Size.Height ||
		state.Cursor.X >= state.Size.Width
}

// skipSelectTillItem excludes the band's trailing item when the cursor sits
// left of or above its origin.
func skipSelectTillItem(state CursorState) bool {
	return state.Cursor.X < 0 || state.Cursor.Y < 0
}

// MousePress begins a gesture at p (widget coordinates, left button).
func (w *Widget) MousePress(p Point) {
	w.mouseActionStart(p)
}

// MouseMove advances the gesture, or just tracks hover when none is active.
func (w *Widget) MouseMove(p Point) {
	w.mouseActionUpdate(p)
}

// MouseRelease finishes the gesture at p.
func (w *Widget) MouseRelease(p Point) {
	w.mouseActionFinish(p)
}

// MouseDoubleClick handles the second press of a double click: it behaves
// like a press and then tries escalating to word selection.
func (w *Widget) MouseDoubleClick(p Point) {
	w.mouseActionStart(p)
	w.trySwitchToWordSelection()
}

// MouseCancel aborts any gesture in progress.
func (w *Widget) MouseCancel() {
	w.mouseActionCancel()
}

func (w *Widget) clampMousePosition(p Point) Point {
	maxX := w.width - 1
	if maxX < 0 {
		maxX = 0
	}
	return Point{
		X: clamp(p.X, 0, maxX),
		Y: clamp(p.Y, w.visibleTop, w.visibleBottom-1),
	}
}

func (w *Widget) mouseActionUpdate(pos Point) {
	if len(w.sections) == 0 || w.visibleBottom <= w.visibleTop {
		return
	}
	w.mousePosition = pos

	point := w.clampMousePosition(pos)
	found := w.findItemByPoint(point)
	w.overItem = found.item
	w.overState = CursorState{
		ItemID: found.item.ID(),
		Size:   found.rect.Size(),
		Cursor: point.Sub(found.rect.TopLeft()),
		Inside: found.exact,
	}

	var hit HitState
	inTextSelection := w.overState.Inside &&
		w.overState.ItemID == w.pressState.ItemID &&
		w.hasSelectedText()
	if w.overItem != nil {
		cursorDelta := w.overState.Cursor.Sub(w.pressState.Cursor).ManhattanLength()
		if w.overState.ItemID != w.pressState.ItemID || cursorDelta >= dragStartDistance {
			switch w.mouseAction {
			case mouseActionPrepareDrag:
				w.mouseAction = mouseActionDragging
				w.performDrag()
			case mouseActionPrepareSelect:
				w.mouseAction = mouseActionSelecting
			}
		}
		hit = w.overItem.StateAt(w.overState.Cursor)
		if w.mouseAction != mouseActionSelecting {
			inTextSelection = false
		}
	}
	w.activeLink = hit.Link

	if w.mouseAction == mouseActionSelecting {
		if inTextSelection {
			second := hit.Symbol
			if hit.AfterSymbol && w.mouseSelectType == TextSelectLetters {
				second++
			}
			selState := TextSelection{
				From: minSymbol(second, w.mouseTextSymbol),
				To:   maxSymbol(second, w.mouseTextSymbol),
			}
			if w.mouseSelectType != TextSelectLetters {
				selState = w.overItem.AdjustSelection(selState, w.mouseSelectType)
			}
			w.applyItemSelection(w.overState.ItemID, selState)
			hasSelection := selState == FullSelection || selState.From != selState.To
			if !w.wasSelectedText && hasSelection {
				w.wasSelectedText = true
			}
			w.clearDragSelection()
		} else if w.pressState.ItemID != 0 {
			w.updateDragSelection()
		}
	}
}

func minSymbol(a, b uint16) uint16 {
	if a < b {
		return a
	}
	return b
}

func maxSymbol(a, b uint16) uint16 {
	if a > b {
		return a
	}
	return b
}

func (w *Widget) mouseActionStart(pos Point) {
	w.mouseActionUpdate(pos)

	w.pressedLink = w.activeLink
	w.pressState = w.overState
	pressItem := w.overItem

	w.mouseAction = mouseActionNone
	w.pressWasInactive = w.takePressWasInactive()

	if w.pressedLink != "" && !w.hasSelected() {
		w.mouseAction = mouseActionPrepareDrag
	} else if w.hasSelectedItems() {
		if w.isItemUnderPressSelected() && w.pressedLink != "" {
			// Over an already-selected item drag starts only through an
			// active click target.
			w.mouseAction = mouseActionPrepareDrag
		} else if !w.pressWasInactive {
			w.mouseAction = mouseActionPrepareSelect
		}
	}
	if w.mouseAction == mouseActionNone && pressItem != nil {
		w.validateTripleClickStartTime()
		startDistance := pos.Sub(w.tripleClickPoint).ManhattanLength()
		validStartPoint := startDistance < DoubleClickRadius
		hit := pressItem.StateAt(w.pressState.Cursor)
		if !w.tripleClickStartTime.IsZero() && validStartPoint {
			if hit.InText {
				selStatus := TextSelection{From: hit.Symbol, To: hit.Symbol}
				if selStatus != FullSelection && !w.hasSelectedItems() {
					w.clearSelected()
					w.applyItemSelection(w.pressState.ItemID, selStatus)
					w.mouseTextSymbol = hit.Symbol
					w.mouseAction = mouseActionSelecting
					w.mouseSelectType = TextSelectParagraphs
					w.mouseActionUpdate(w.mousePosition)
					w.tripleClickStartTime = w.now()
				}
			}
		}
		if w.mouseSelectType != TextSelectParagraphs {
			if w.pressState.Inside {
				w.mouseTextSymbol = hit.Symbol
				if w.isPressInSelectedText(hit) {
					w.mouseAction = mouseActionPrepareDrag
				} else if !w.pressWasInactive {
					symbol := hit.Symbol
					if hit.AfterSymbol {
						symbol++
					}
					selStatus := TextSelection{From: symbol, To: symbol}
					if hit.InText && selStatus != FullSelection && !w.hasSelectedItems() {
						w.clearSelected()
						w.applyItemSelection(w.pressState.ItemID, selStatus)
						w.mouseTextSymbol = symbol
						w.mouseAction = mouseActionSelecting
					} else {
						w.mouseAction = mouseActionPrepareSelect
					}
				}
			} else if !w.pressWasInactive {
				w.mouseAction = mouseActionPrepareSelect
			}
		}
	}

	if pressItem == nil {
		w.mouseAction = mouseActionNone
	} else if w.mouseAction == mouseActionNone {
		w.mouseActionCancel()
	}
}

func (w *Widget) mouseActionFinish(pos Point) {
	w.mouseActionUpdate(pos)

	pressState := w.pressState
	w.pressState = CursorState{}

	simpleSelectionChange := pressState.ItemID != 0 &&
		pressState.Inside &&
		!w.pressWasInactive &&
		(w.mouseAction == mouseActionPrepareDrag ||
			w.mouseAction == mouseActionPrepareSelect)
	needSelectionToggle := simpleSelectionChange && !w.hasSelectedText()
	needSelectionClear := simpleSelectionChange && w.hasSelectedText()

	activated := ""
	if w.pressedLink != "" && w.pressedLink == w.activeLink {
		activated = w.pressedLink
	}
	w.pressedLink = ""
	if w.mouseAction == mouseActionDragging ||
		w.mouseAction == mouseActionSelecting ||
		needSelectionToggle {
		activated = ""
	}

	w.wasSelectedText = false
	if activated != "" {
		w.mouseActionCancel()
		w.activateRequests.Emit(activated)
		return
	}

	switch {
	case needSelectionToggle:
		w.toggleItemSelection(pressState.ItemID)
	case needSelectionClear:
		w.clearSelected()
	case w.mouseAction == mouseActionSelecting:
		if !w.dragSelected.Empty() {
			w.applyDragSelection()
		} else if !w.selected.Empty() && !w.pressWasInactive {
			data := w.selected.Get(w.selected.Front())
			if data.Text != FullSelection && data.Text.From == data.Text.To {
				w.clearSelected()
			}
		}
	}
	w.mouseAction = mouseActionNone
	w.mouseSelectType = TextSelectLetters
}

func (w *Widget) mouseActionCancel() {
	w.pressState = CursorState{}
	w.mouseAction = mouseActionNone
	w.clearDragSelection()
	w.wasSelectedText = false
}

// updateDragSelection recomputes the provisional band between the press item
// and the item under the cursor. The band spans ids in (tillID, fromID] on
// the descending axis; the skip rules trim the endpoints when the cursor
// sits outside an endpoint item's content.
func (w *Widget) updateDragSelection() {
	fromState := w.pressState
	tillState := w.overState
	swapStates := isAfter(fromState, tillState)
	if swapStates {
		fromState, tillState = tillState, fromState
	}
	if fromState.ItemID == 0 || tillState.ItemID == 0 {
		w.clearDragSelection()
		return
	}
	fromID := fromState.ItemID
	if skipSelectFromItem(fromState) {
		fromID--
	}
	tillID := tillState.ItemID - 1
	if skipSelectTillItem(tillState) {
		tillID = tillState.ItemID
	}
	w.dragSelected.RetainIf(func(id msg.UniversalID) bool {
		return id <= fromID && id > tillID
	})
	for id := range w.cache.entries {
		if id <= fromID && id > tillID {
			w.dragSelected.change(id, FullSelection, w.resolvePermissions)
		}
	}
	if w.dragSelected.Empty() {
		w.dragSelectAction = dragSelectActionNone
	} else {
		// The end the cursor moved toward decides select-vs-deselect by the
		// current state of the first item it touched.
		firstDragItem := w.dragSelected.Back()
		if swapStates {
			firstDragItem = w.dragSelected.Front()
		}
		if w.isSelectedItem(firstDragItem) {
			w.dragSelectAction = dragSelectActionDeselecting
		} else {
			w.dragSelectAction = dragSelectActionSelecting
		}
	}
	if !w.wasSelectedText &&
		!w.dragSelected.Empty() &&
		w.dragSelectAction == dragSelectActionSelecting {
		w.wasSelectedText = true
	}
}

func (w *Widget) clearDragSelection() {
	w.dragSelectAction = dragSelectActionNone
	if !w.dragSelected.Empty() {
		w.dragSelected.Clear()
	}
}

func (w *Widget) applyDragSelection() {
	switch w.dragSelectAction {
	case dragSelectActionSelecting:
		w.dragSelected.ForEach(func(id msg.UniversalID, _ *SelectionData) {
			w.selected.change(id, FullSelection, w.resolvePermissions)
		})
	case dragSelectActionDeselecting:
		w.dragSelected.ForEach(func(id msg.UniversalID, _ *SelectionData) {
			w.selected.Remove(id)
		})
	}
	w.clearDragSelection()
	w.pushSelectedItems()
}

// trySwitchToWordSelection escalates a double click into word-granularity
// text selection when the press sits in selectable text.
func (w *Widget) trySwitchToWordSelection() {
	selectingSome := w.mouseAction == mouseActionSelecting && w.hasSelectedText()
	willSelectSome := w.mouseAction == mouseActionNone && !w.hasSelectedItems()
	if w.overItem != nil &&
		w.mouseSelectType == TextSelectLetters &&
		(selectingSome || willSelectSome) {
		w.switchToWordSelection()
	}
}

func (w *Widget) switchToWordSelection() {
	hit := w.overItem.StateAt(w.pressState.Cursor)
	if !hit.InText {
		return
	}
	w.mouseTextSymbol = hit.Symbol
	w.mouseSelectType = TextSelectWords
	if w.mouseAction == mouseActionNone {
		w.mouseAction = mouseActionSelecting
		w.clearSelected()
		w.applyItemSelection(w.overState.ItemID, TextSelection{
			From: hit.Symbol,
			To:   hit.Symbol,
		})
	}
	w.mouseActionUpdate(w.mousePosition)

	w.tripleClickPoint = w.mousePosition
	w.tripleClickStartTime = w.now()
}

func (w *Widget) validateTripleClickStartTime() {
	if !w.tripleClickStartTime.IsZero() {
		if w.now().Sub(w.tripleClickStartTime) >= DoubleClickInterval {
			w.tripleClickStartTime = time.Time{}
		}
	}
}

// performDrag emits the drag payload: the whole selection when dragging a
// selected item, otherwise just the pressed item.
func (w *Widget) performDrag() {
	if w.mouseAction != mouseActionDragging {
		return
	}
	if w.pressState.ItemID != 0 && w.pressState.Inside {
		if w.hasSelectedItems() && w.isItemUnderPressSelected() {
			w.dragRequests.Emit(w.collectSelectedIDs())
			return
		}
		w.dragRequests.Emit([]msg.FullID{w.pressState.ItemID.Full(w.channelID)})
	}
}

func (w *Widget) isItemUnderPressSelected() bool {
	return w.pressState.ItemID != 0 &&
		w.pressState.Inside &&
		w.selected.Has(w.pressState.ItemID)
}

func (w *Widget) isPressInSelectedText(hit HitState) bool {
	if !hit.InText {
		return false
	}
	if !w.hasSelectedText() || !w.isItemUnderPressSelected() {
		return false
	}
	data := w.selected.Get(w.pressState.ItemID)
	return hit.Symbol >= data.Text.From && hit.Symbol < data.Text.To
}
