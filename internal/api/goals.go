package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutrilog/internal/models"
)

// GetGoals returns the current goals.
func (h *TrackerHandler) GetGoals(c *gin.Context) {
	c.JSON(http.StatusOK, GoalsResponse{Goals: h.tracker.Goals()})
}

// UpdateGoals replaces the goals.
func (h *TrackerHandler) UpdateGoals(c *gin.Context) {
	var goals models.Goals
	if err := c.ShouldBindJSON(&goals); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goals: " + err.Error()})
		return
	}

	saved, err := h.tracker.ApplyGoals(c.Request.Context(), goals)
	warning, err := saveWarning(err)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, GoalsResponse{Goals: saved, Warning: warning})
}

// RecommendGoals asks for goals suited to the posted profile.
func (h *TrackerHandler) RecommendGoals(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	goals, err := h.tracker.RecommendGoals(c.Request.Context(), req.Profile)
	warning, err := saveWarning(err)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecommendResponse{Goals: goals, Warning: warning})
}

// GetProfile returns the current profile.
func (h *TrackerHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, ProfileResponse{Profile: h.tracker.Profile()})
}

// UpdateProfile validates and stores a profile.
func (h *TrackerHandler) UpdateProfile(c *gin.Context) {
	var profile models.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile: " + err.Error()})
		return
	}

	saved, err := h.tracker.SaveProfile(c.Request.Context(), profile)
	warning, err := saveWarning(err)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{Profile: saved, Warning: warning})
}
