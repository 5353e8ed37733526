package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Entry is one logged food item.
type Entry struct {
	ID            string    `json:"id"`
	FoodName      string    `json:"food_name"`
	Calories      float64   `json:"calories"`
	ProteinG      float64   `json:"protein_g"`
	CarbsG        float64   `json:"carbs_g"`
	FatG          float64   `json:"fat_g"`
	FiberG        float64   `json:"fiber_g"`
	OriginalQuery string    `json:"originalQuery"`
	Timestamp     time.Time `json:"timestamp"`
}

// Nutrients returns the nutrition fields of the entry.
func (e Entry) Nutrients() Nutrients {
	return Nutrients{
		Calories: e.Calories,
		ProteinG: e.ProteinG,
		CarbsG:   e.CarbsG,
		FatG:     e.FatG,
		FiberG:   e.FiberG,
	}
}

// WithAnalysis replaces the nutrition fields and the source query, keeping
// the id and timestamp.
func (e Entry) WithAnalysis(a FoodAnalysis, query string) Entry {
	e.FoodName = a.FoodName
	e.Calories = a.Calories
	e.ProteinG = a.ProteinG
	e.CarbsG = a.CarbsG
	e.FatG = a.FatG
	e.FiberG = a.FiberG
	e.OriginalQuery = query
	return e
}

// FoodAnalysis is the structured answer of the nutrition inference service.
type FoodAnalysis struct {
	FoodName string  `json:"food_name"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
}

// DailyLog holds the entries of one calendar day, newest first.
type DailyLog []Entry

// WeeklyLog maps a YYYY-MM-DD date key to that day's log.
type WeeklyLog map[string]DailyLog

// ParseWeeklyLog decodes a persisted weekly log. An empty string decodes to an
// empty log.
func ParseWeeklyLog(raw string) (WeeklyLog, error) {
	if raw == "" {
		return WeeklyLog{}, nil
	}
	var log WeeklyLog
	if err := json.Unmarshal([]byte(raw), &log); err != nil {
		return nil, fmt.Errorf("failed to decode weekly log: %w", err)
	}
	if log == nil {
		log = WeeklyLog{}
	}
	return log, nil
}

// Encode serializes the weekly log for storage.
func (w WeeklyLog) Encode() (string, error) {
	if w == nil {
		w = WeeklyLog{}
	}
	data, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("failed to encode weekly log: %w", err)
	}
	return string(data), nil
}

// Clone returns a shallow copy of the map. Day slices are shared; callers
// replace a day's slice rather than mutating it.
func (w WeeklyLog) Clone() WeeklyLog {
	out := make(WeeklyLog, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}
