package nutrition

import (
	"slices"
	"strings"

	"github.com/pageza/nutrilog/internal/models"
)

// DaySummary is the condensed view of a past day.
type DaySummary struct {
	Date     string  `json:"date"`
	Items    int     `json:"items"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
}

// History summarizes every day before todayKey, newest first.
func History(log models.WeeklyLog, todayKey string) []DaySummary {
	out := make([]DaySummary, 0, len(log))
	for key, day := range log {
		if _, err := ParseDateKey(key); err != nil || key >= todayKey {
			continue
		}
		t := Totals(day)
		out = append(out, DaySummary{
			Date:     key,
			Items:    len(day),
			Calories: t.Calories,
			ProteinG: t.ProteinG,
		})
	}
	slices.SortFunc(out, func(a, b DaySummary) int {
		return strings.Compare(b.Date, a.Date)
	})
	return out
}
