package main

import (
	"fmt"
	"os"

	"gofriedman/internal"
	"gofriedman/internal/config"

	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once the root command has loaded it.
type app struct {
	cfg    *config.Config
	logger *internal.Logger
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "friedman",
		Short: "Friedman rank test with Nemenyi post-hoc comparisons",
		Long: `Compare k treatments measured over N blocks (e.g. classifiers over datasets)
with the Friedman rank test and the Nemenyi critical difference.

Configuration is read from the environment and an optional .env file:
- FRIEDMAN_ASCENDING (default: false, highest score ranks first)
- FRIEDMAN_ALPHA     0.05 | 0.10 (default: 0.05)
- FRIEDMAN_OUTPUT    text | markdown | html | json (default: text)
- FRIEDMAN_SHEET     worksheet read from xlsx input (default: Sheet1)
- PORT, GIN_MODE, LOG_LEVEL`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(a),
		newServeCmd(a),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) load() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = internal.NewLogger(cfg.LogLevel)
	return nil
}
