// Package cli provides the colorguess command-line interface.
package cli

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/colorguess/internal/catalog"
	"github.com/robalobadob/colorguess/internal/config"
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	envFile string
	cfg     *config.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "colorguess",
		Short: "Guess the color behind the name",
		Long: `colorguess serves and plays a color guessing game.

Each session draws named reference colors from a difficulty tier. The
player picks a color for each name, commits it, and is scored by how close
the pick lands to the reference.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.envFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			setupLogging(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(
		newServeCmd(a),
		newTiersCmd(a),
		newScoreCmd(a),
		newPlayCmd(a),
	)
	return root
}

// Execute runs the CLI. This is called by main.main().
func Execute() error {
	return NewRootCmd().Execute()
}

// setupLogging points the global zerolog logger at w.
// format "console" gives human-readable lines; anything else is JSON.
func setupLogging(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// loadCatalog initializes the process-wide catalog from CATALOG_FILE or the
// embedded default.
func (a *app) loadCatalog() (*catalog.Catalog, error) {
	if err := catalog.Init(a.cfg.CatalogFile); err != nil {
		return nil, err
	}
	return catalog.Default()
}
