package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pageza/nutrilog/internal/service"
)

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "log <description>...",
		Short:   "Analyze a food description and add it to today's log",
		Example: `  nutrilog log two scrambled eggs with toast`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runLog,
	}
}

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> [description...]",
		Short: "Re-analyze one of today's entries",
		Long: `Without a description, edit prints the text the entry was logged from.
With a description, the entry is analyzed again and keeps its id and time.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runEdit,
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove one of today's entries",
		Args:    cobra.ExactArgs(1),
		RunE:    runDelete,
	}
}

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's entries, progress and score",
		Args:  cobra.NoArgs,
		RunE:  runToday,
	}
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Summarize the previous days of the week",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
}

func runLog(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	entry, err := a.tracker.Submit(cmd.Context(), strings.Join(args, " "), "", clock())
	if entry != nil {
		loc, _ := cfg.Location()
		if perr := printEntry(cmd.OutOrStdout(), *entry, loc); perr != nil {
			return perr
		}
	}
	return err
}

func runEdit(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, len(args) > 1)
	if err != nil {
		return err
	}
	defer a.Close()

	now := clock()
	id, err := resolveID(a.tracker.Dashboard(now).Entries, args[0])
	if err != nil {
		return err
	}
	current, err := a.tracker.BeginEdit(now, id)
	if err != nil {
		return fmt.Errorf("%w: %s", err, args[0])
	}

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		fmt.Fprintln(out, current.OriginalQuery)
		return nil
	}

	entry, err := a.tracker.Submit(cmd.Context(), strings.Join(args[1:], " "), id, clock())
	if entry == nil {
		if err == nil {
			err = fmt.Errorf("%w: %s", service.ErrNotFound, args[0])
		}
		return err
	}

	loc, _ := cfg.Location()
	if perr := printEntry(out, *entry, loc); perr != nil {
		return perr
	}
	return err
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	now := clock()
	id, err := resolveID(a.tracker.Dashboard(now).Entries, args[0])
	if err != nil {
		return err
	}
	if _, err := a.tracker.BeginEdit(now, id); err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "No entry %s in today's log.\n", args[0])
		return nil
	}

	if err := a.tracker.Remove(cmd.Context(), id, now); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", shortID(id))
	return nil
}

func runToday(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	loc, _ := cfg.Location()
	return printDashboard(cmd.OutOrStdout(), a.tracker.Dashboard(clock()), loc)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	return printHistory(cmd.OutOrStdout(), a.tracker.History(clock()))
}
