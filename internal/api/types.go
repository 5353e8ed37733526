package api

import "github.com/pageza/nutrilog/internal/models"

// EntryRequest is the body of POST /entries and PUT /entries/:id.
type EntryRequest struct {
	Query string `json:"query" binding:"required"`
}

// EntryResponse carries a logged entry. Entry is null when an edit target
// was deleted before the analysis finished.
type EntryResponse struct {
	Entry   *models.Entry `json:"entry"`
	Warning string        `json:"warning,omitempty"`
}

// GoalsResponse carries the current goals.
type GoalsResponse struct {
	Goals   models.Goals `json:"goals"`
	Warning string       `json:"warning,omitempty"`
}

// RecommendRequest is the body of POST /goals/recommend.
type RecommendRequest struct {
	Profile models.Profile `json:"profile"`
}

// RecommendResponse carries a goal recommendation that has not been applied.
type RecommendResponse struct {
	Goals   *models.Goals `json:"goals"`
	Warning string        `json:"warning,omitempty"`
}

// ProfileResponse carries the current profile.
type ProfileResponse struct {
	Profile models.Profile `json:"profile"`
	Warning string         `json:"warning,omitempty"`
}
