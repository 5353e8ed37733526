package nutrition

import "github.com/pageza/nutrilog/internal/models"

// Totals sums the nutrients of every entry in day. An empty day sums to zero.
func Totals(day models.DailyLog) models.Totals {
	var t models.Totals
	for _, e := range day {
		t = t.Add(e.Nutrients())
	}
	return t
}
