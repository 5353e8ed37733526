package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/pageza/nutrilog/internal/models"
	"github.com/pageza/nutrilog/internal/nutrition"
	"github.com/pageza/nutrilog/internal/service"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// amount formats a nutrient value with at most one decimal.
func amount(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

func printEntry(w io.Writer, e models.Entry, loc *time.Location) error {
	if asJSON {
		return printJSON(w, e)
	}
	fmt.Fprintf(w, "%s  %s  (%s)\n", e.Timestamp.In(loc).Format("15:04"), e.FoodName, e.ID)
	fmt.Fprintf(w, "  %s kcal  protein %sg  carbs %sg  fat %sg  fiber %sg\n",
		amount(e.Calories), amount(e.ProteinG), amount(e.CarbsG), amount(e.FatG), amount(e.FiberG))
	if e.OriginalQuery != "" && e.OriginalQuery != e.FoodName {
		fmt.Fprintf(w, "  from %q\n", e.OriginalQuery)
	}
	return nil
}

func printDashboard(w io.Writer, d *service.Dashboard, loc *time.Location) error {
	if asJSON {
		return printJSON(w, d)
	}

	fmt.Fprintf(w, "%s  score %d/100\n\n", d.Date, d.Score)

	if len(d.Entries) == 0 {
		fmt.Fprintln(w, "No entries logged today.")
	} else {
		tw := newTable(w)
		fmt.Fprintln(tw, "TIME\tID\tFOOD\tKCAL\tPROTEIN\tCARBS\tFAT\tFIBER")
		for _, e := range d.Entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.Timestamp.In(loc).Format("15:04"), shortID(e.ID), e.FoodName,
				amount(e.Calories), amount(e.ProteinG), amount(e.CarbsG), amount(e.FatG), amount(e.FiberG))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	return printProgress(w, d.Progress)
}

func printProgress(w io.Writer, progress []nutrition.MetricProgress) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "METRIC\tCURRENT\tGOAL\tPERCENT\tSTATUS")
	for _, p := range progress {
		goal := "-"
		if p.Goal > 0 {
			goal = amount(p.Goal) + " " + p.Unit
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%.0f%%\t%s\n", p.Label, amount(p.Current), p.Unit, goal, p.Percent, p.Status)
	}
	return tw.Flush()
}

func printHistory(w io.Writer, days []nutrition.DaySummary) error {
	if asJSON {
		return printJSON(w, days)
	}
	if len(days) == 0 {
		fmt.Fprintln(w, "No earlier days logged.")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tITEMS\tKCAL\tPROTEIN")
	for _, d := range days {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%sg\n", d.Date, d.Items, amount(d.Calories), amount(d.ProteinG))
	}
	return tw.Flush()
}

func printGoals(w io.Writer, g models.Goals) error {
	if asJSON {
		return printJSON(w, g)
	}

	tw := newTable(w)
	for _, m := range models.Metrics {
		label, unit := nutrition.Label(m)
		target := "no target"
		if v := g.Value(m); v > 0 {
			target = amount(v) + " " + unit
		}
		fmt.Fprintf(tw, "%s\t%s\n", label, target)
	}
	return tw.Flush()
}

func printProfile(w io.Writer, p models.Profile) error {
	if asJSON {
		return printJSON(w, p)
	}

	tw := newTable(w)
	fmt.Fprintf(tw, "Age\t%d\n", p.Age)
	fmt.Fprintf(tw, "Gender\t%s\n", p.Gender)
	fmt.Fprintf(tw, "Height\t%s cm\n", amount(p.Height))
	fmt.Fprintf(tw, "Weight\t%s kg\n", amount(p.Weight))
	fmt.Fprintf(tw, "Activity\t%s\n", p.ActivityLevel)
	fmt.Fprintf(tw, "Goal\t%s\n", p.FitnessGoal)
	return tw.Flush()
}

// shortID is the prefix shown in tables; commands accept any unique prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
