package nutrition

import (
	"math"

	"github.com/pageza/nutrilog/internal/models"
)

// Policy decides how a metric's percent-of-goal turns into a 0-100 score.
type Policy int

const (
	// Ceiling metrics score their percent up to the goal and lose two points
	// per percent above it.
	Ceiling Policy = iota + 1
	// Floor metrics score their percent capped at 100 with no overshoot penalty.
	Floor
)

func (p Policy) String() string {
	switch p {
	case Ceiling:
		return "ceiling"
	case Floor:
		return "floor"
	}
	return "unknown"
}

// MetricScore maps a percent-of-goal to a score in [0, 100].
func (p Policy) MetricScore(percent float64) float64 {
	if math.IsNaN(percent) {
		return 0
	}
	switch p {
	case Ceiling:
		if percent <= 100 {
			return clampScore(percent)
		}
		return math.Max(0, 100-2*(percent-100))
	case Floor:
		return clampScore(math.Min(100, percent))
	}
	return 0
}

// MetricPolicy binds a metric to its scoring policy and weight in the mean.
type MetricPolicy struct {
	Metric models.Metric
	Policy Policy
	Weight float64
}

// DefaultPolicies penalizes overshoot on calories and fat and rewards
// reaching protein, carbs and fiber.
var DefaultPolicies = []MetricPolicy{
	{Metric: models.Calories, Policy: Ceiling, Weight: 1},
	{Metric: models.Protein, Policy: Floor, Weight: 1},
	{Metric: models.Carbs, Policy: Floor, Weight: 1},
	{Metric: models.Fat, Policy: Ceiling, Weight: 1},
	{Metric: models.Fiber, Policy: Floor, Weight: 1},
}

// PolicyFor returns the default policy of m.
func PolicyFor(m models.Metric) (MetricPolicy, bool) {
	for _, p := range DefaultPolicies {
		if p.Metric == m {
			return p, true
		}
	}
	return MetricPolicy{}, false
}

// Score rates totals against goals with the default policies.
func Score(totals models.Totals, goals models.Goals) int {
	return ScoreWith(DefaultPolicies, totals, goals)
}

// ScoreWith returns the rounded weighted mean of the metric scores of every
// metric whose goal is positive. It returns 0 when no metric counts.
func ScoreWith(policies []MetricPolicy, totals models.Totals, goals models.Goals) int {
	var sum, weights float64
	for _, p := range policies {
		goal := goals.Value(p.Metric)
		if !(goal > 0) || math.IsInf(goal, 1) || !(p.Weight > 0) {
			continue
		}
		percent := 100 * finite(totals.Value(p.Metric)) / goal
		sum += p.Weight * p.Policy.MetricScore(percent)
		weights += p.Weight
	}
	if weights == 0 {
		return 0
	}
	return int(math.Round(clampScore(sum / weights)))
}

func clampScore(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
