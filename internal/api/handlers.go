package api

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/nutrilog/internal/logging"
	"github.com/pageza/nutrilog/internal/service"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "nutrilog API is running",
	})
}

// TrackerHandler serves the tracker over HTTP.
type TrackerHandler struct {
	tracker service.ITrackerService
	now     func() time.Time
	logger  *zap.Logger
}

// NewTrackerHandler creates a handler. now defaults to time.Now.
func NewTrackerHandler(tracker service.ITrackerService, now func() time.Time, logger *zap.Logger) *TrackerHandler {
	if now == nil {
		now = time.Now
	}
	return &TrackerHandler{tracker: tracker, now: now, logger: logging.OrNop(logger)}
}

// RegisterRoutes mounts the tracker routes. inference runs before every
// route that calls the inference service.
func (h *TrackerHandler) RegisterRoutes(router *gin.RouterGroup, inference ...gin.HandlerFunc) {
	withInference := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(slices.Clip(inference), handler)
	}

	router.GET("/today", h.Today)
	router.GET("/history", h.History)

	entries := router.Group("/entries")
	{
		entries.POST("", withInference(h.CreateEntry)...)
		entries.GET("/:id", h.GetEntry)
		entries.PUT("/:id", withInference(h.UpdateEntry)...)
		entries.DELETE("/:id", h.DeleteEntry)
	}

	goals := router.Group("/goals")
	{
		goals.GET("", h.GetGoals)
		goals.PUT("", h.UpdateGoals)
		goals.POST("/recommend", withInference(h.RecommendGoals)...)
	}

	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
	}
}

// respondError writes the status matching err's kind.
func (h *TrackerHandler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrEmptyQuery), errors.Is(err, service.ErrInvalidProfile):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrBusy):
		status = http.StatusConflict
	case service.IsInferenceError(err):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// saveWarning turns a *SaveError into the warning text sent alongside a
// successful response. Any other error is returned for respondError.
func saveWarning(err error) (string, error) {
	if err == nil {
		return "", nil
	}
	if service.IsSaveError(err) {
		return "changes could not be saved and will be lost on restart: " + err.Error(), nil
	}
	return "", err
}
