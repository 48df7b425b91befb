// Package cli defines the mediashelf command tree.
package cli

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/mediashelf/internal/config"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// app carries the state shared by every command after the persistent
// pre-run: the loaded config and the root logger.
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	logCloser io.Closer
}

// NewRootCmd creates the root Cobra command for the mediashelf CLI. It
// wires up config loading, logging and the browse/seed subcommands.
func NewRootCmd(ver string) *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:     "mediashelf",
		Short:   "Browse a chat's shared media archive in the terminal",
		Long:    "Mediashelf: a sectioned, virtualized browser over a chat's photos, videos, files, links and audio.",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				configPath = config.DefaultPath()
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Logging.Level = "debug"
			}
			if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
				cfg.Logging.File = logFile
			}
			logger, closer, err := config.NewLogger(cfg.Logging)
			if err != nil {
				return err
			}
			a.log = logger
			a.logCloser = closer

			a.log.Debug().Str("config", configPath).Msg("command started")
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logCloser != nil {
				_ = a.logCloser.Close()
			}
		},
	}

	cmd.PersistentFlags().String("config", "", "config file path")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("log-file", "", "log to file instead of stderr")
	cmd.PersistentFlags().String("db", "", "archive database path (overrides config)")

	cmd.AddCommand(newBrowseCmd(a), newSeedCmd(a))
	return cmd
}

func (a *app) archivePath(cmd *cobra.Command) string {
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		return db
	}
	return a.cfg.Archive.Path
}

const rootCmdExample = `  # Seed a demo archive
  mediashelf seed --chat 1 --photos 200 --files 50

  # Browse the archive
  mediashelf browse --chat 1

  # Browse with a separate database
  mediashelf browse --chat 1 --db ./media.db`
