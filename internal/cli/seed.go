package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/mediashelf/internal/msg"
	"github.com/rshade/mediashelf/internal/store"
)

// newSeedCmd creates the seed command: populate a synthetic archive to
// browse against.
func newSeedCmd(a *app) *cobra.Command {
	var counts struct {
		photos, videos, files, links, music, voice int
	}
	chatID := int64(1)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the archive with synthetic media messages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			archive, err := store.Open(ctx, a.archivePath(cmd), a.log, nil)
			if err != nil {
				return err
			}
			defer archive.Close()

			total, err := archive.Seed(ctx, store.SeedSpec{
				ChannelID: chatID,
				Start:     time.Now(),
				Counts: map[msg.MediaType]int{
					msg.TypePhoto:     counts.photos,
					msg.TypeVideo:     counts.videos,
					msg.TypeFile:      counts.files,
					msg.TypeLink:      counts.links,
					msg.TypeMusicFile: counts.music,
					msg.TypeVoiceFile: counts.voice,
				},
			})
			if err != nil {
				return err
			}
			cmd.Printf("Seeded %d messages into chat %d\n", total, chatID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&chatID, "chat", 1, "chat id to seed")
	cmd.Flags().IntVar(&counts.photos, "photos", 120, "photo count")
	cmd.Flags().IntVar(&counts.videos, "videos", 40, "video count")
	cmd.Flags().IntVar(&counts.files, "files", 60, "file count")
	cmd.Flags().IntVar(&counts.links, "links", 80, "link count")
	cmd.Flags().IntVar(&counts.music, "music", 30, "music track count")
	cmd.Flags().IntVar(&counts.voice, "voice", 25, "voice message count")
	return cmd
}
