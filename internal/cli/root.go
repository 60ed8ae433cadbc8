// Package cli implements the ouractl commands.
package cli

import (
	"os"
	"time"

	"github.com/jrsteele09/go-oura-client/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	// cfg is loaded before any subcommand runs.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ouractl",
	Short: "Authorize against and read from the Oura cloud API",
	Long: `ouractl runs the OAuth2 authorization-code flow against the Oura cloud
and reads user info, sleep, activity and readiness summaries.

Credentials come from OURA_CLIENT_ID / OURA_CLIENT_SECRET or a TOML file
passed with --config. The token is kept in OURA_TOKEN_FILE and rewritten
whenever it is refreshed.

Examples:
  ouractl authorize
  ouractl sleep --start 2023-01-01 --end 2023-01-07
  ouractl userinfo`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	setupLogging(verbose)

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

func setupLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
