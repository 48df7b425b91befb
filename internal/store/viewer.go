package store

import (
	"context"
	"fmt"

	"github.com/rshade/mediashelf/internal/msg"
)

// Viewer binds the archive to one chat and satisfies the gallery's source
// contract: windowed id queries plus by-id resolution.
type Viewer struct {
	archive   *Archive
	channelID int64
	ctx       context.Context
}

// Viewer returns a per-chat read view. ctx bounds every query the gallery
// issues through it.
func (a *Archive) Viewer(ctx context.Context, channelID int64) *Viewer {
	return &Viewer{archive: a, channelID: channelID, ctx: ctx}
}

// QuerySlice returns up to limitBefore ids older than the anchor and the
// anchor plus up to limitAfter newer ids, ascending, with the skipped
// counts on both sides and the full count.
func (v *Viewer) QuerySlice(
	kind msg.MediaType,
	around msg.UniversalID,
	limitBefore, limitAfter int,
) (msg.Slice, error) {
	db := v.archive.db
	kindName := kind.String()

	// The archive holds current-chat rows only. Anchors in the migrated
	// predecessor range (non-positive universal ids) precede every stored
	// message, so they clamp to the oldest end instead of resolving through
	// UniversalID.Full, which would target the predecessor id space.
	anchor := int64(around)
	if around <= 0 {
		anchor = 0
	}

	fullCount, err := v.archive.Count(v.ctx, v.channelID, kind)
	if err != nil {
		return msg.Slice{}, err
	}

	var countBefore int
	err = db.QueryRowContext(v.ctx, `
		SELECT COUNT(*) FROM messages
		WHERE channel_id = ? AND type = ? AND message_id < ?`,
		v.channelID, kindName, anchor,
	).Scan(&countBefore)
	if err != nil {
		return msg.Slice{}, fmt.Errorf("counting messages before anchor: %w", err)
	}

	queryIDs := func(query string, limit int, args ...any) ([]int64, error) {
		rows, err := db.QueryContext(v.ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		ids := make([]int64, 0, limit)
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, rows.Err()
	}

	// Older side, newest-first so LIMIT trims the far end; reversed below.
	before, err := queryIDs(`
		SELECT message_id FROM messages
		WHERE channel_id = ? AND type = ? AND message_id < ?
		ORDER BY message_id DESC LIMIT ?`,
		limitBefore, v.channelID, kindName, anchor, limitBefore,
	)
	if err != nil {
		return msg.Slice{}, fmt.Errorf("loading messages before anchor: %w", err)
	}

	after, err := queryIDs(`
		SELECT message_id FROM messages
		WHERE channel_id = ? AND type = ? AND message_id >= ?
		ORDER BY message_id ASC LIMIT ?`,
		limitAfter+1, v.channelID, kindName, anchor, limitAfter+1,
	)
	if err != nil {
		return msg.Slice{}, fmt.Errorf("loading messages after anchor: %w", err)
	}

	ids := make([]msg.UniversalID, 0, len(before)+len(after))
	for i := len(before) - 1; i >= 0; i-- {
		ids = append(ids, msg.UniversalFromFull(msg.FullID{
			ChannelID: v.channelID,
			MessageID: before[i],
		}))
	}
	for _, id := range after {
		ids = append(ids, msg.UniversalFromFull(msg.FullID{
			ChannelID: v.channelID,
			MessageID: id,
		}))
	}

	skippedBefore := countBefore - len(before)
	skippedAfter := fullCount - countBefore - len(after)
	return msg.Slice{
		IDs:           ids,
		FullCount:     &fullCount,
		SkippedBefore: &skippedBefore,
		SkippedAfter:  &skippedAfter,
	}, nil
}

// ResolveItem loads the message, or reports it gone.
func (v *Viewer) ResolveItem(id msg.FullID) (*msg.Item, bool) {
	item, err := v.archive.Get(v.ctx, id)
	if err != nil {
		v.archive.log.Warn().Err(err).
			Int64("channel", id.ChannelID).
			Int64("message", id.MessageID).
			Msg("resolve failed")
		return nil, false
	}
	if item == nil {
		return nil, false
	}
	return item, true
}
