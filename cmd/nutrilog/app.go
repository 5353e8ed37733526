package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/nutrilog/internal/models"
	"github.com/pageza/nutrilog/internal/service"
	"github.com/pageza/nutrilog/internal/storage"
)

// app is the tracker opened for a single command.
type app struct {
	tracker *service.TrackerService
	close   func() error
}

// openApp wires storage, the stores and, when inference is true, the
// inference service. Saved data that cannot be read is reported on stderr and
// replaced by defaults.
func openApp(cmd *cobra.Command, inference bool) (*app, error) {
	ctx := cmd.Context()

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var infer service.Inferencer
	if inference {
		if infer, err = newInferencer(ctx, cfg, logger); err != nil {
			return nil, err
		}
	}

	store, closeStore, err := storage.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	tracker := service.NewTrackerService(
		service.NewLogService(store, loc, cfg.RetentionDays, logger),
		service.NewGoalService(store, logger),
		service.NewProfileService(store, logger),
		infer,
		logger,
	)
	if err := tracker.Open(ctx, clock()); err != nil {
		logger.Warn("starting with defaults", zap.Error(err))
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: some saved data could not be read and was reset: %v\n", err)
	}

	return &app{tracker: tracker, close: closeStore}, nil
}

func (a *app) Close() {
	if err := a.close(); err != nil {
		logger.Warn("failed to close storage", zap.Error(err))
	}
}

// resolveID expands a unique id prefix among entries. Unknown ids are
// returned unchanged.
func resolveID(entries models.DailyLog, arg string) (string, error) {
	if arg == "" {
		return "", fmt.Errorf("entry id is empty")
	}

	var matches []string
	for _, e := range entries {
		if e.ID == arg {
			return arg, nil
		}
		if strings.HasPrefix(e.ID, arg) {
			matches = append(matches, e.ID)
		}
	}

	switch len(matches) {
	case 0:
		return arg, nil
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("id prefix %q matches %d entries", arg, len(matches))
}
