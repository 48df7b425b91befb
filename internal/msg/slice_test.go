package msg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeSlice(ids ...UniversalID) Slice {
	full := len(ids)
	zero := 0
	return Slice{IDs: ids, FullCount: &full, SkippedBefore: &zero, SkippedAfter: &zero}
}

func TestSliceIndexOf(t *testing.T) {
	s := makeSlice(10, 20, 30)
	assert.Equal(t, 0, s.IndexOf(10))
	assert.Equal(t, 2, s.IndexOf(30))
	assert.Equal(t, -1, s.IndexOf(25))
	assert.Equal(t, -1, s.IndexOf(40))
}

func TestSliceNearest(t *testing.T) {
	tests := []struct {
		name string
		ids  []UniversalID
		id   UniversalID
		want UniversalID
		ok   bool
	}{
		{"empty", nil, 5, 0, false},
		{"exact", []UniversalID{10, 20, 30}, 20, 20, true},
		{"below range", []UniversalID{10, 20, 30}, 1, 10, true},
		{"above range", []UniversalID{10, 20, 30}, 99, 30, true},
		{"closer to lower", []UniversalID{10, 20}, 13, 10, true},
		{"closer to upper", []UniversalID{10, 20}, 18, 20, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Slice{IDs: tt.ids}
			got, ok := s.Nearest(tt.id)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSliceDistance(t *testing.T) {
	s := makeSlice(10, 20, 30, 40)

	d, ok := s.Distance(10, 40)
	assert.True(t, ok)
	assert.Equal(t, 3, d)

	d, ok = s.Distance(40, 10)
	assert.True(t, ok)
	assert.Equal(t, -3, d)

	_, ok = s.Distance(10, 99)
	assert.False(t, ok)
}
