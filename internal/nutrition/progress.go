package nutrition

import (
	"math"

	"github.com/pageza/nutrilog/internal/models"
)

// Status is the coarse progress state of one metric.
type Status string

const (
	StatusUnder Status = "under"
	StatusNear  Status = "near"
	StatusOver  Status = "over"
	StatusMet   Status = "met"
)

// MetricProgress is a single metric's progress toward its goal.
type MetricProgress struct {
	Metric  models.Metric `json:"metric"`
	Label   string        `json:"label"`
	Unit    string        `json:"unit"`
	Current float64       `json:"current"`
	Goal    float64       `json:"goal"`
	Percent float64       `json:"percent"`
	Status  Status        `json:"status"`
}

var metricInfo = map[models.Metric]struct{ label, unit string }{
	models.Calories: {"Calories", "kcal"},
	models.Protein:  {"Protein", "g"},
	models.Carbs:    {"Carbs", "g"},
	models.Fat:      {"Fat", "g"},
	models.Fiber:    {"Fiber", "g"},
}

// Label returns the display name and unit of m.
func Label(m models.Metric) (label, unit string) {
	info := metricInfo[m]
	return info.label, info.unit
}

// Progress reports every metric's rounded current value, percent of goal and
// status. The percent is 0 when the goal is not positive.
func Progress(totals models.Totals, goals models.Goals) []MetricProgress {
	out := make([]MetricProgress, 0, len(models.Metrics))
	for _, m := range models.Metrics {
		current := math.Round(finite(totals.Value(m)))
		goal := goals.Value(m)

		var percent float64
		if goal > 0 && !math.IsInf(goal, 1) {
			percent = current / goal * 100
		}

		policy := Floor
		if p, ok := PolicyFor(m); ok {
			policy = p.Policy
		}

		label, unit := Label(m)
		out = append(out, MetricProgress{
			Metric:  m,
			Label:   label,
			Unit:    unit,
			Current: current,
			Goal:    goal,
			Percent: percent,
			Status:  statusFor(policy, percent),
		})
	}
	return out
}

func statusFor(p Policy, percent float64) Status {
	if p == Ceiling {
		switch {
		case percent > 105:
			return StatusOver
		case percent > 90:
			return StatusNear
		}
		return StatusUnder
	}
	switch {
	case percent >= 100:
		return StatusMet
	case percent > 75:
		return StatusNear
	}
	return StatusUnder
}
