package gallery

import (
	"sort"

	"github.com/rshade/mediashelf/internal/msg"
)

// MaxSelectedItems bounds the selection map. At capacity new ids are
// silently rejected; existing entries can still be modified or removed.
const MaxSelectedItems = 100

// TextSelection is a half-open rune range [From, To) inside an item's
// caption. The FullSelection sentinel marks a whole-item selection.
type TextSelection struct {
	From, To uint16
}

// FullSelection is the whole-item sentinel, distinct from any caption range.
var FullSelection = TextSelection{From: 0xFFFF, To: 0xFFFF}

// Empty reports whether the range selects nothing.
func (s TextSelection) Empty() bool {
	return s != FullSelection && s.From == s.To
}

// SelectionData carries what is selected of one item plus the permissions
// snapshotted when the entry was created.
type SelectionData struct {
	Text       TextSelection
	CanDelete  bool
	CanForward bool
}

// selectedMap is an ordered map from UniversalID (ascending) to
// SelectionData. The same structure backs both the persistent selection and
// the in-progress drag-selection band.
type selectedMap struct {
	ids  []msg.UniversalID
	data map[msg.UniversalID]*SelectionData
}

func newSelectedMap() *selectedMap {
	return &selectedMap{data: make(map[msg.UniversalID]*SelectionData)}
}

func (m *selectedMap) Len() int {
	return len(m.ids)
}

func (m *selectedMap) Empty() bool {
	return len(m.ids) == 0
}

func (m *selectedMap) Get(id msg.UniversalID) *SelectionData {
	return m.data[id]
}

func (m *selectedMap) Has(id msg.UniversalID) bool {
	_, ok := m.data[id]
	return ok
}

// Front returns the smallest selected id. The map must not be empty.
func (m *selectedMap) Front() msg.UniversalID {
	return m.ids[0]
}

// Back returns the largest selected id. The map must not be empty.
func (m *selectedMap) Back() msg.UniversalID {
	return m.ids[len(m.ids)-1]
}

// ForEach visits entries in ascending id order.
func (m *selectedMap) ForEach(fn func(id msg.UniversalID, data *SelectionData)) {
	for _, id := range m.ids {
		fn(id, m.data[id])
	}
}

func (m *selectedMap) insert(id msg.UniversalID, data *SelectionData) {
	i := sort.Search(len(m.ids), func(i int) bool { return m.ids[i] >= id })
	m.ids = append(m.ids, 0)
	copy(m.ids[i+1:], m.ids[i:])
	m.ids[i] = id
	m.data[id] = data
}

// Remove drops id from the map, reporting whether it was present.
func (m *selectedMap) Remove(id msg.UniversalID) bool {
	if _, ok := m.data[id]; !ok {
		return false
	}
	delete(m.data, id)
	i := sort.Search(len(m.ids), func(i int) bool { return m.ids[i] >= id })
	m.ids = append(m.ids[:i], m.ids[i+1:]...)
	return true
}

// Clear empties the map.
func (m *selectedMap) Clear() {
	m.ids = m.ids[:0]
	for id := range m.data {
		delete(m.data, id)
	}
}

// RetainIf keeps only entries the predicate accepts.
func (m *selectedMap) RetainIf(keep func(id msg.UniversalID) bool) {
	kept := m.ids[:0]
	for _, id := range m.ids {
		if keep(id) {
			kept = append(kept, id)
		} else {
			delete(m.data, id)
		}
	}
	m.ids = kept
}

// permissionResolver re-resolves an item's delete/forward permissions by id.
// ok is false when the item no longer exists.
type permissionResolver func(id msg.UniversalID) (canDelete, canForward, ok bool)

// change inserts or updates a selection entry, enforcing the capacity bound.
// A fresh insert re-resolves the backing item and aborts when it is gone.
// Returns whether the map changed.
func (m *selectedMap) change(
	id msg.UniversalID,
	selection TextSelection,
	resolve permissionResolver,
) bool {
	changeExisting := func(data *SelectionData) bool {
		if data == nil {
			return false
		}
		if data.Text != selection {
			data.Text = selection
			return true
		}
		return false
	}
	if m.Len() < MaxSelectedItems {
		if existing := m.data[id]; existing != nil {
			return changeExisting(existing)
		}
		canDelete, canForward, ok := resolve(id)
		if !ok {
			return false
		}
		m.insert(id, &SelectionData{
			Text:       selection,
			CanDelete:  canDelete,
			CanForward: canForward,
		})
		return true
	}
	return changeExisting(m.data[id])
}

// SelectedItem is one entry of the exported selection snapshot.
type SelectedItem struct {
	ID         msg.FullID
	CanDelete  bool
	CanForward bool
}

// SelectedItems is the exported snapshot of the current whole-item
// selection, emitted to the host on every change.
type SelectedItems struct {
	Type msg.MediaType
	List []SelectedItem
}
