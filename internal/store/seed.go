package store

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/mediashelf/internal/msg"
)

// SeedSpec describes a synthetic archive: how many messages of each kind to
// generate for one chat, spread back in time from Start.
type SeedSpec struct {
	ChannelID int64
	Counts    map[msg.MediaType]int
	Start     time.Time
	Rand      *rand.Rand
}

var seedNames = []string{
	"report", "holiday", "invoice", "screenshot", "notes",
	"draft", "recording", "backup", "mixtape", "summary",
}

var seedHosts = []string{
	"example.com", "news.example.org", "blog.example.net",
}

var seedCaptions = []string{
	"",
	"look at this one",
	"from last weekend, the second take came out better",
	"final version",
	"",
	"needs another pass before we send it out",
}

func generateItems(spec SeedSpec, kind msg.MediaType, count int, firstID int64, rng *rand.Rand) []msg.Item {
	items := make([]msg.Item, 0, count)
	date := spec.Start
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%s-%02d", seedNames[rng.Intn(len(seedNames))], i)
		item := msg.Item{
			ID:         msg.FullID{ChannelID: spec.ChannelID, MessageID: firstID + int64(i)},
			Type:       kind,
			Date:       date,
			Name:       name,
			Caption:    seedCaptions[rng.Intn(len(seedCaptions))],
			Size:       int64(rng.Intn(50<<20) + 1024),
			CanDelete:  true,
			CanForward: rng.Intn(10) > 0,
		}
		switch kind {
		case msg.TypeVideo, msg.TypeMusicFile, msg.TypeVoiceFile:
			item.Duration = time.Duration(rng.Intn(600)+5) * time.Second
		case msg.TypeLink:
			item.URL = fmt.Sprintf("https://%s/%s", seedHosts[rng.Intn(len(seedHosts))], name)
		}
		// Walk backwards so newer messages carry larger ids and later dates.
		date = date.Add(-time.Duration(rng.Intn(40)+1) * time.Hour)
		items = append(items, item)
	}
	// Reverse so ids ascend with dates.
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i].Date, items[j].Date = items[j].Date, items[i].Date
	}
	return items
}

// Seed populates the archive with a synthetic chat. Generation runs
// per-kind in parallel; the inserts land in one transaction.
func (a *Archive) Seed(ctx context.Context, spec SeedSpec) (int, error) {
	if spec.Start.IsZero() {
		spec.Start = time.Now()
	}
	rng := spec.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	kinds := make([]msg.MediaType, 0, len(spec.Counts))
	for kind := range spec.Counts {
		kinds = append(kinds, kind)
	}

	batches := make([][]msg.Item, len(kinds))
	var g errgroup.Group
	firstID := int64(1)
	for i, kind := range kinds {
		i, kind, base := i, kind, firstID
		seed := rng.Int63()
		g.Go(func() error {
			batches[i] = generateItems(spec, kind, spec.Counts[kind], base,
				rand.New(rand.NewSource(seed)))
			return nil
		})
		firstID += int64(spec.Counts[kind])
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO messages (
			channel_id, message_id, type, date,
			name, caption, url, size, duration, can_delete, can_forward
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing seed insert: %w", err)
	}
	defer stmt.Close()

	total := 0
	for _, batch := range batches {
		for _, item := range batch {
			_, err := stmt.ExecContext(ctx,
				item.ID.ChannelID, item.ID.MessageID, item.Type.String(), item.Date.Unix(),
				item.Name, item.Caption, item.URL, item.Size,
				int64(item.Duration/time.Second), item.CanDelete, item.CanForward,
			)
			if err != nil {
				return 0, fmt.Errorf("seeding message %d: %w", item.ID.MessageID, err)
			}
			total++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing seed transaction: %w", err)
	}

	a.log.Info().Int("count", total).Int64("channel", spec.ChannelID).Msg("archive seeded")
	return total, nil
}
