package models

import (
	"encoding/json"
	"fmt"
)

// Activity levels accepted by the goal assistant.
const (
	ActivitySedentary        = "sedentary"
	ActivityLightlyActive    = "lightly_active"
	ActivityModeratelyActive = "moderately_active"
	ActivityVeryActive       = "very_active"
)

// Fitness goals accepted by the goal assistant.
const (
	FitnessLose     = "lose"
	FitnessMaintain = "maintain"
	FitnessGain     = "gain"
)

// Profile is the biometric record sent to the goal recommendation service.
// Height is in centimetres and weight in kilograms.
type Profile struct {
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	ActivityLevel string  `json:"activityLevel"`
	FitnessGoal   string  `json:"fitnessGoal"`
}

// DefaultProfile is used when no profile has been saved.
var DefaultProfile = Profile{
	Age:           30,
	Gender:        "male",
	Height:        180,
	Weight:        80,
	ActivityLevel: ActivitySedentary,
	FitnessGoal:   FitnessMaintain,
}

// Validate checks the profile fields against the accepted values.
func (p Profile) Validate() error {
	if p.Age <= 0 {
		return fmt.Errorf("age must be positive")
	}
	if p.Height <= 0 {
		return fmt.Errorf("height must be positive")
	}
	if p.Weight <= 0 {
		return fmt.Errorf("weight must be positive")
	}
	switch p.Gender {
	case "male", "female":
	default:
		return fmt.Errorf("unknown gender %q", p.Gender)
	}
	switch p.ActivityLevel {
	case ActivitySedentary, ActivityLightlyActive, ActivityModeratelyActive, ActivityVeryActive:
	default:
		return fmt.Errorf("unknown activity level %q", p.ActivityLevel)
	}
	switch p.FitnessGoal {
	case FitnessLose, FitnessMaintain, FitnessGain:
	default:
		return fmt.Errorf("unknown fitness goal %q", p.FitnessGoal)
	}
	return nil
}

// ParseProfile decodes a persisted profile record.
func ParseProfile(raw string) (Profile, error) {
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	return p, nil
}
