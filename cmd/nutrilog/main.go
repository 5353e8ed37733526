// Command nutrilog is a personal nutrition logger. Food descriptions are
// turned into nutrition estimates by Gemini and kept in a rolling log of the
// last seven days, scored against daily goals.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/nutrilog/config"
	"github.com/pageza/nutrilog/internal/logging"
	"github.com/pageza/nutrilog/internal/service"
)

var (
	// Global flags
	verbose bool
	asJSON  bool

	cfg    *config.Config
	logger *zap.Logger

	// clock and newInferencer are swapped out in tests.
	clock         = time.Now
	newInferencer = func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.Inferencer, error) {
		svc, err := service.NewLLMService(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nutrilog",
		Short: "Personal nutrition logger",
		Long: `nutrilog records what you eat from plain descriptions such as
"two eggs and a slice of toast". Each description is analyzed into calories,
protein, carbs, fat and fiber, logged for today and scored against your goals.

Entries are kept for seven days. Storage and the inference service are
configured through environment variables or config.yaml.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "Print JSON instead of tables")

	root.AddCommand(
		newLogCmd(),
		newEditCmd(),
		newDeleteCmd(),
		newTodayCmd(),
		newHistoryCmd(),
		newGoalsCmd(),
		newProfileCmd(),
		newServeCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger for every command.
func setup(*cobra.Command, []string) error {
	c, err := config.LoadConfig()
	if err != nil {
		return err
	}

	level := c.LogLevel
	if verbose {
		level = "debug"
	}
	l, err := logging.New(level, c.LogFormat)
	if err != nil {
		return err
	}

	cfg, logger = c, l
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "nutrilog:", err)
		os.Exit(1)
	}
}
