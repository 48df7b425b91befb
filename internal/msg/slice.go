package msg

import "sort"

// Slice is a paginated window over the ordered universal-id space of one
// media type. The store owns slice construction; the gallery only reads it.
//
// Counters follow the "nil = unknown, 0 = fully loaded to that edge" rule:
// SkippedBefore/SkippedAfter count ids that exist beyond the window edges,
// FullCount is the total number of matching messages in the archive.
type Slice struct {
	// IDs holds the loaded window in ascending universal order.
	IDs []UniversalID

	FullCount     *int
	SkippedBefore *int
	SkippedAfter  *int
}

// Size returns the number of loaded ids.
func (s Slice) Size() int {
	return len(s.IDs)
}

// At returns the i-th loaded id in ascending order.
func (s Slice) At(i int) UniversalID {
	return s.IDs[i]
}

// IndexOf returns the position of id in the window, or -1.
func (s Slice) IndexOf(id UniversalID) int {
	i := sort.Search(len(s.IDs), func(i int) bool { return s.IDs[i] >= id })
	if i < len(s.IDs) && s.IDs[i] == id {
		return i
	}
	return -1
}

// Nearest returns the loaded id closest to id by window position, favoring
// the id itself on an exact hit. ok is false when the window is empty.
func (s Slice) Nearest(id UniversalID) (UniversalID, bool) {
	if len(s.IDs) == 0 {
		return 0, false
	}
	i := sort.Search(len(s.IDs), func(i int) bool { return s.IDs[i] >= id })
	if i == len(s.IDs) {
		return s.IDs[len(s.IDs)-1], true
	}
	if i > 0 && id-s.IDs[i-1] < s.IDs[i]-id {
		return s.IDs[i-1], true
	}
	return s.IDs[i], true
}

// Distance returns the signed number of window positions from a to b.
// ok is false when either id is outside the loaded window.
func (s Slice) Distance(a, b UniversalID) (int, bool) {
	ai := s.IndexOf(a)
	bi := s.IndexOf(b)
	if ai < 0 || bi < 0 {
		return 0, false
	}
	return bi - ai, true
}
