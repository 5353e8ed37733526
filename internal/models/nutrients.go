package models

import (
	"encoding/json"
	"fmt"
)

// Metric names one tracked nutrient. The value is also its JSON field name.
type Metric string

const (
	Calories Metric = "calories"
	Protein  Metric = "protein_g"
	Carbs    Metric = "carbs_g"
	Fat      Metric = "fat_g"
	Fiber    Metric = "fiber_g"
)

// Metrics lists the tracked nutrients in display order.
var Metrics = []Metric{Calories, Protein, Carbs, Fat, Fiber}

// Nutrients is a set of nutrient amounts. It is used both for daily totals
// and for goal targets.
type Nutrients struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
}

// Totals are the summed nutrients of a day.
type Totals = Nutrients

// Goals are the per-metric daily targets; 0 means no target.
type Goals = Nutrients

// DefaultGoals is used when no goals have been saved.
var DefaultGoals = Goals{
	Calories: 2000,
	ProteinG: 100,
	CarbsG:   250,
	FatG:     70,
	FiberG:   30,
}

// Value returns the amount for m, or 0 for an unknown metric.
func (n Nutrients) Value(m Metric) float64 {
	switch m {
	case Calories:
		return n.Calories
	case Protein:
		return n.ProteinG
	case Carbs:
		return n.CarbsG
	case Fat:
		return n.FatG
	case Fiber:
		return n.FiberG
	}
	return 0
}

// Add returns the element-wise sum.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories: n.Calories + o.Calories,
		ProteinG: n.ProteinG + o.ProteinG,
		CarbsG:   n.CarbsG + o.CarbsG,
		FatG:     n.FatG + o.FatG,
		FiberG:   n.FiberG + o.FiberG,
	}
}

// IsZero reports whether no metric has a value.
func (n Nutrients) IsZero() bool {
	return n == Nutrients{}
}

// ParseGoals decodes a persisted goals record.
func ParseGoals(raw string) (Goals, error) {
	var g Goals
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		return Goals{}, fmt.Errorf("failed to decode goals: %w", err)
	}
	return g, nil
}
