package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/mediashelf/internal/config"
	"github.com/rshade/mediashelf/internal/msg"
	"github.com/rshade/mediashelf/internal/store"
	"github.com/rshade/mediashelf/internal/tui"
)

// newBrowseCmd creates the browse command: the interactive media browser.
func newBrowseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse a chat's shared media",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdout) {
				return errors.New("browse requires an interactive terminal")
			}
			chatID, _ := cmd.Flags().GetInt64("chat")
			return runBrowse(cmd, a, chatID)
		},
	}
	cmd.Flags().Int64("chat", 1, "chat id to browse")
	return cmd
}

func runBrowse(cmd *cobra.Command, a *app, chatID int64) error {
	ctx := cmd.Context()

	events := &msg.Events{}
	archive, err := store.Open(ctx, a.archivePath(cmd), a.log, events)
	if err != nil {
		return err
	}
	defer archive.Close()

	sessionPath := config.SessionPath()
	if dbFlag, _ := cmd.Flags().GetString("db"); dbFlag != "" {
		sessionPath = filepath.Join(filepath.Dir(dbFlag), "session.yaml")
	}
	session, err := config.LoadSession(sessionPath)
	if err != nil {
		a.log.Warn().Err(err).Msg("session load failed, starting fresh")
		session = config.NewSession()
	}
	a.log.Info().
		Str("session", session.ID).
		Int64("chat", chatID).
		Msg("browse started")

	model := tui.NewBrowseModel(ctx, a.log, archive, events, chatID, session, sessionPath)
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if a.cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseAllMotion())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
