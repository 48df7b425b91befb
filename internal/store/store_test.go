package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/mediashelf/internal/msg"
)

func openTestArchive(t *testing.T, events *msg.Events) *Archive {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	archive, err := Open(context.Background(), path, zerolog.Nop(), events)
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })
	return archive
}

func insertFiles(t *testing.T, archive *Archive, channelID int64, ids ...int64) {
	t.Helper()
	ctx := context.Background()
	for _, id := range ids {
		require.NoError(t, archive.Insert(ctx, msg.Item{
			ID:         msg.FullID{ChannelID: channelID, MessageID: id},
			Type:       msg.TypeFile,
			Date:       time.Date(2026, 1, int(id%28)+1, 9, 0, 0, 0, time.UTC),
			Name:       "doc",
			Size:       2048,
			CanDelete:  true,
			CanForward: true,
		}))
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	archive := openTestArchive(t, nil)
	ctx := context.Background()

	want := msg.Item{
		ID:         msg.FullID{ChannelID: 3, MessageID: 7},
		Type:       msg.TypeMusicFile,
		Date:       time.Date(2026, 2, 14, 18, 30, 0, 0, time.UTC),
		Name:       "mixtape",
		Caption:    "for the drive",
		Size:       1 << 20,
		Duration:   3 * time.Minute,
		CanDelete:  true,
		CanForward: false,
	}
	require.NoError(t, archive.Insert(ctx, want))

	got, err := archive.Get(ctx, want.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Type, got.Type)
	assert.Equal(t, want.Date.Unix(), got.Date.Unix())
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Caption, got.Caption)
	assert.Equal(t, want.Duration, got.Duration)
	assert.False(t, got.CanForward)

	missing, err := archive.Get(ctx, msg.FullID{ChannelID: 3, MessageID: 99})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestViewerQuerySliceWindow(t *testing.T) {
	archive := openTestArchive(t, nil)
	insertFiles(t, archive, 3, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	viewer := archive.Viewer(context.Background(), 3)

	slice, err := viewer.QuerySlice(msg.TypeFile, msg.UniversalID(5), 2, 2)
	require.NoError(t, err)

	assert.Equal(t, []msg.UniversalID{3, 4, 5, 6, 7}, slice.IDs)
	require.NotNil(t, slice.FullCount)
	assert.Equal(t, 10, *slice.FullCount)
	require.NotNil(t, slice.SkippedBefore)
	assert.Equal(t, 2, *slice.SkippedBefore)
	require.NotNil(t, slice.SkippedAfter)
	assert.Equal(t, 3, *slice.SkippedAfter)
}

func TestViewerQuerySliceEdges(t *testing.T) {
	archive := openTestArchive(t, nil)
	insertFiles(t, archive, 3, 1, 2, 3)
	viewer := archive.Viewer(context.Background(), 3)

	t.Run("window wider than archive", func(t *testing.T) {
		slice, err := viewer.QuerySlice(msg.TypeFile, msg.UniversalID(2), 10, 10)
		require.NoError(t, err)
		assert.Equal(t, []msg.UniversalID{1, 2, 3}, slice.IDs)
		assert.Equal(t, 0, *slice.SkippedBefore)
		assert.Equal(t, 0, *slice.SkippedAfter)
	})

	t.Run("anchor past newest", func(t *testing.T) {
		slice, err := viewer.QuerySlice(msg.TypeFile, msg.UniversalID(999), 2, 2)
		require.NoError(t, err)
		assert.Equal(t, []msg.UniversalID{2, 3}, slice.IDs)
		assert.Equal(t, 1, *slice.SkippedBefore)
		assert.Equal(t, 0, *slice.SkippedAfter)
	})

	t.Run("migrated-range anchor clamps to the oldest end", func(t *testing.T) {
		slice, err := viewer.QuerySlice(msg.TypeFile, msg.UniversalID(-100), 2, 2)
		require.NoError(t, err)
		assert.Equal(t, []msg.UniversalID{1, 2, 3}, slice.IDs)
		assert.Equal(t, 0, *slice.SkippedBefore)
		assert.Equal(t, 0, *slice.SkippedAfter)
	})

	t.Run("empty kind", func(t *testing.T) {
		slice, err := viewer.QuerySlice(msg.TypePhoto, msg.UniversalID(1), 5, 5)
		require.NoError(t, err)
		assert.Empty(t, slice.IDs)
		assert.Equal(t, 0, *slice.FullCount)
	})
}

func TestViewerResolveItem(t *testing.T) {
	archive := openTestArchive(t, nil)
	insertFiles(t, archive, 3, 7)
	viewer := archive.Viewer(context.Background(), 3)

	item, ok := viewer.ResolveItem(msg.FullID{ChannelID: 3, MessageID: 7})
	require.True(t, ok)
	assert.Equal(t, msg.TypeFile, item.Type)

	_, ok = viewer.ResolveItem(msg.FullID{ChannelID: 3, MessageID: 8})
	assert.False(t, ok)
}

func TestArchiveRemoveAnnounces(t *testing.T) {
	events := &msg.Events{}
	var removed []msg.FullID
	events.ItemRemoved.Subscribe(func(id msg.FullID) {
		removed = append(removed, id)
	})

	archive := openTestArchive(t, events)
	insertFiles(t, archive, 3, 1, 2, 3)
	ctx := context.Background()

	// One existing, one already gone: only the real deletion is announced.
	err := archive.Remove(ctx, []msg.FullID{
		{ChannelID: 3, MessageID: 2},
		{ChannelID: 3, MessageID: 42},
	})
	require.NoError(t, err)
	assert.Equal(t, []msg.FullID{{ChannelID: 3, MessageID: 2}}, removed)

	count, err := archive.Count(ctx, 3, msg.TypeFile)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestArchiveSeed(t *testing.T) {
	archive := openTestArchive(t, nil)
	ctx := context.Background()

	total, err := archive.Seed(ctx, SeedSpec{
		ChannelID: 1,
		Start:     time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Counts: map[msg.MediaType]int{
			msg.TypePhoto: 20,
			msg.TypeLink:  5,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 25, total)

	photos, err := archive.Count(ctx, 1, msg.TypePhoto)
	require.NoError(t, err)
	assert.Equal(t, 20, photos)

	// Seeded ids ascend with dates, so a slice window comes back ordered.
	viewer := archive.Viewer(ctx, 1)
	slice, err := viewer.QuerySlice(msg.TypePhoto, msg.UniversalID(10), 5, 5)
	require.NoError(t, err)
	for i := 1; i < len(slice.IDs); i++ {
		assert.Less(t, slice.IDs[i-1], slice.IDs[i])
	}
	item, ok := viewer.ResolveItem(slice.IDs[0].Full(1))
	require.True(t, ok)
	assert.Equal(t, msg.TypePhoto, item.Type)
}
