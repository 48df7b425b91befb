// Package store persists the media archive in SQLite and serves the
// windowed id queries the gallery runs. One Archive owns the database;
// per-chat read access goes through Viewer.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/rshade/mediashelf/internal/msg"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	channel_id  INTEGER NOT NULL,
	message_id  INTEGER NOT NULL,
	type        TEXT    NOT NULL,
	date        INTEGER NOT NULL,
	name        TEXT    NOT NULL DEFAULT '',
	caption     TEXT    NOT NULL DEFAULT '',
	url         TEXT    NOT NULL DEFAULT '',
	size        INTEGER NOT NULL DEFAULT 0,
	duration    INTEGER NOT NULL DEFAULT 0,
	can_delete  INTEGER NOT NULL DEFAULT 1,
	can_forward INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (channel_id, message_id)
);

CREATE INDEX IF NOT EXISTS idx_messages_kind
	ON messages (channel_id, type, message_id);
`

// Archive is the SQLite-backed message archive.
type Archive struct {
	db     *sql.DB
	log    zerolog.Logger
	events *msg.Events
}

// Open opens (creating if needed) the archive database at path and runs
// migrations. Deletions are announced through events.
func Open(ctx context.Context, path string, logger zerolog.Logger, events *msg.Events) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging archive %s: %w", path, err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating archive schema: %w", err)
	}
	logger.Debug().Str("path", path).Msg("archive opened")
	return &Archive{
		db:     db,
		log:    logger.With().Str("component", "store").Logger(),
		events: events,
	}, nil
}

// Close releases the database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Insert stores one message. Zero duration and size are kept as stored.
func (a *Archive) Insert(ctx context.Context, item msg.Item) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO messages (
			channel_id, message_id, type, date,
			name, caption, url, size, duration, can_delete, can_forward
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID.ChannelID, item.ID.MessageID, item.Type.String(), item.Date.Unix(),
		item.Name, item.Caption, item.URL, item.Size,
		int64(item.Duration/time.Second), item.CanDelete, item.CanForward,
	)
	if err != nil {
		return fmt.Errorf("inserting message %d/%d: %w",
			item.ID.ChannelID, item.ID.MessageID, err)
	}
	return nil
}

// Remove deletes the given messages in one transaction and announces each
// actual deletion after commit.
func (a *Archive) Remove(ctx context.Context, ids []msg.FullID) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	removed := make([]msg.FullID, 0, len(ids))
	for _, id := range ids {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM messages WHERE channel_id = ? AND message_id = ?`,
			id.ChannelID, id.MessageID,
		)
		if err != nil {
			return fmt.Errorf("deleting message %d/%d: %w", id.ChannelID, id.MessageID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			removed = append(removed, id)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete transaction: %w", err)
	}

	a.log.Info().Int("count", len(removed)).Msg("messages deleted")
	if a.events != nil {
		for _, id := range removed {
			a.events.ItemRemoved.Emit(id)
		}
	}
	return nil
}

// Count returns how many messages of the kind the chat holds.
func (a *Archive) Count(ctx context.Context, channelID int64, kind msg.MediaType) (int, error) {
	var count int
	err := a.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE channel_id = ? AND type = ?`,
		channelID, kind.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting %s messages: %w", kind, err)
	}
	return count, nil
}

func scanItem(row interface{ Scan(...any) error }) (*msg.Item, error) {
	var (
		item     msg.Item
		typeName string
		date     int64
		duration int64
	)
	err := row.Scan(
		&item.ID.ChannelID, &item.ID.MessageID, &typeName, &date,
		&item.Name, &item.Caption, &item.URL, &item.Size,
		&duration, &item.CanDelete, &item.CanForward,
	)
	if err != nil {
		return nil, err
	}
	kind, ok := msg.ParseMediaType(typeName)
	if !ok {
		return nil, fmt.Errorf("unknown media type %q", typeName)
	}
	item.Type = kind
	item.Date = time.Unix(date, 0)
	item.Duration = time.Duration(duration) * time.Second
	return &item, nil
}

const itemColumns = `channel_id, message_id, type, date,
	name, caption, url, size, duration, can_delete, can_forward`

// Get resolves one message by id.
func (a *Archive) Get(ctx context.Context, id msg.FullID) (*msg.Item, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM messages WHERE channel_id = ? AND message_id = ?`,
		id.ChannelID, id.MessageID,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading message %d/%d: %w", id.ChannelID, id.MessageID, err)
	}
	return item, nil
}
