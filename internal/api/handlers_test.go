package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/nutrilog/internal/mocks"
	"github.com/pageza/nutrilog/internal/models"
	"github.com/pageza/nutrilog/internal/nutrition"
	"github.com/pageza/nutrilog/internal/service"
)

var fixedNow = time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)

func setupTestRouter(t *testing.T, inference ...gin.HandlerFunc) (*gin.Engine, *mocks.MockTrackerService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tracker := &mocks.MockTrackerService{}
	t.Cleanup(func() { tracker.AssertExpectations(t) })

	handler := NewTrackerHandler(tracker, func() time.Time { return fixedNow }, zap.NewNop())
	router := gin.New()
	router.GET("/health", HealthCheck)
	handler.RegisterRoutes(router.Group("/api/v1"), inference...)
	return router, tracker
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupTestRouter(t)
	w := doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestToday(t *testing.T) {
	router, tracker := setupTestRouter(t)
	tracker.On("Dashboard", fixedNow).Return(&service.Dashboard{
		Date:    "2024-05-10",
		Entries: models.DailyLog{{ID: "e1", FoodName: "eggs", Calories: 150}},
		Totals:  models.Totals{Calories: 150},
		Score:   8,
		Goals:   models.DefaultGoals,
	})

	w := doJSON(router, http.MethodGet, "/api/v1/today", nil)
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[service.Dashboard](t, w)
	assert.Equal(t, "2024-05-10", got.Date)
	assert.Equal(t, 8, got.Score)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "eggs", got.Entries[0].FoodName)
}

func TestHistory(t *testing.T) {
	router, tracker := setupTestRouter(t)
	tracker.On("History", fixedNow).Return([]nutrition.DaySummary{{Date: "2024-05-09", Items: 3, Calories: 1900, ProteinG: 80}})

	w := doJSON(router, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"history":[{"date":"2024-05-09","items":3,"calories":1900,"protein_g":80}]}`, w.Body.String())
}

func TestCreateEntry(t *testing.T) {
	entry := &models.Entry{ID: "e1", FoodName: "banana", Calories: 105, OriginalQuery: "a banana", Timestamp: fixedNow}

	t.Run("should log an entry", func(t *testing.T) {
		router, tracker := setupTestRouter(t)
		tracker.On("Submit", mock.Anything, "a banana", "", fixedNow).Return(entry, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/entries", EntryRequest{Query: "a banana"})
		require.Equal(t, http.StatusCreated, w.Code)
		got := decode[EntryResponse](t, w)
		assert.Equal(t, "e1", got.Entry.ID)
		assert.Empty(t, got.Warning)
	})

	t.Run("should require a query", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		w := doJSON(router, http.MethodPost, "/api/v1/entries", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should keep the entry and warn when saving fails", func(t *testing.T) {
		router, tracker := setupTestRouter(t)
		tracker.On("Submit", mock.Anything, "a banana", "", fixedNow).
			Return(entry, &service.SaveError{Key: "weeklyLog", Err: errors.New("disk full")})

		w := doJSON(router, http.MethodPost, "/api/v1/entries", EntryRequest{Query: "a banana"})
		require.Equal(t, http.StatusCreated, w.Code)
		got := decode[EntryResponse](t, w)
		assert.Equal(t, "e1", got.Entry.ID)
		assert.Contains(t, got.Warning, "disk full")
	})

	errorCases := []struct {
		name   string
		err    error
		status int
	}{
		{"should map a blank query to 400", service.ErrEmptyQuery, http.StatusBadRequest},
		{"should map a busy tracker to 409", service.ErrBusy, http.StatusConflict},
		{"should map inference failures to 502", &service.InferenceError{Op: "analyze food", Err: errors.New("status 503")}, http.StatusBadGateway},
		{"should map anything else to 500", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			router, tracker := setupTestRouter(t)
			tracker.On("Submit", mock.Anything, "soup", "", fixedNow).Return(nil, tc.err)

			w := doJSON(router, http.MethodPost, "/api/v1/entries", EntryRequest{Query: "soup"})
			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}

	t.Run("should run the inference middleware first", func(t *testing.T) {
		blocked := func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		}
		router, _ := setupTestRouter(t, blocked)

		w := doJSON(router, http.MethodPost, "/api/v1/entries", EntryRequest{Query: "soup"})
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestUpdateEntry(t *testing.T) {
	t.Run("should resubmit as an edit", func(t *testing.T) {
		router, tracker := setupTestRouter(t)
		tracker.On("Submit", mock.Anything, "two bananas", "e1", fixedNow).
			Return(&models.Entry{ID: "e1", FoodName: "bananas", Calories: 210}, nil)

		w := doJSON(router, http.MethodPut, "/api/v1/entries/e1", EntryRequest{Query: "two bananas"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 210.0, decode[EntryResponse](t, w).Entry.Calories)
	})

	t.Run("should report an edit target that vanished", func(t *testing.T) {
		router, tracker := setupTestRouter(t)
		tracker.On("Submit", mock.Anything, "two bananas", "gone", fixedNow).Return(nil, nil)

		w := doJSON(router, http.MethodPut, "/api/v1/entries/gone", EntryRequest{Query: "two bananas"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetEntry(t *testing.T) {
	router, tracker := setupTestRouter(t)
	tracker.On("BeginEdit", fixedNow, "e1").Return(models.Entry{ID: "e1", OriginalQuery: "oats"}, nil)
	tracker.On("BeginEdit", fixedNow, "nope").Return(models.Entry{}, service.ErrNotFound)

	w := doJSON(router, http.MethodGet, "/api/v1/entries/e1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "oats", decode[EntryResponse](t, w).Entry.OriginalQuery)

	w = doJSON(router, http.MethodGet, "/api/v1/entries/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteEntry(t *testing.T) {
	router, tracker := setupTestRouter(t)
	tracker.On("Remove", mock.Anything, "e1", fixedNow).Return(nil)
	tracker.On("Remove", mock.Anything, "e2", fixedNow).Return(&service.SaveError{Key: "weeklyLog", Err: errors.New("disk full")})

	w := doJSON(router, http.MethodDelete, "/api/v1/entries/e1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/v1/entries/e2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "warning")
}

func TestGoalsRoutes(t *testing.T) {
	t.Run("should return the goals", func(t *testing.T) {
		router, tracker := setupTestRouter(t)
		tracker.On("Goals").Return(models.DefaultGoals)

		w := doJSON(router, http.MethodGet, "/api/v1/goals", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.DefaultGoals, decode[GoalsResponse](t, w).Goals)
	})

	t.Run("should apply new goals", func(t *testing.T) {
		router, tracker := setupTestRouter(t)
		goals := models.Goals{Calories: 1800, ProteinG: 120, CarbsG: 150, FatG: 60, FiberG: 30}
		tracker.On("ApplyGoals", mock.Anything, goals).Return(goals, nil)

		w := doJSON(router, http.MethodPut, "/api/v1/goals", goals)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, goals, decode[GoalsResponse](t, w).Goals)
	})

	t.Run("should reject a malformed body", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/goals", bytes.NewBufferString(`{"calories":"lots"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should recommend goals for a profile", func(t *testing.T) {
		router, tracker := setupTestRouter(t)
		tracker.On("RecommendGoals", mock.Anything, models.DefaultProfile).
			Return(&models.Goals{Calories: 2500, ProteinG: 96, CarbsG: 340, FatG: 69, FiberG: 35}, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/goals/recommend", RecommendRequest{Profile: models.DefaultProfile})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2500.0, decode[RecommendResponse](t, w).Goals.Calories)
	})

	t.Run("should reject an invalid profile", func(t *testing.T) {
		router, tracker := setupTestRouter(t)
		bad := models.DefaultProfile
		bad.Gender = "other"
		tracker.On("RecommendGoals", mock.Anything, bad).Return(nil, service.ErrInvalidProfile)

		w := doJSON(router, http.MethodPost, "/api/v1/goals/recommend", RecommendRequest{Profile: bad})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProfileRoutes(t *testing.T) {
	router, tracker := setupTestRouter(t)
	tracker.On("Profile").Return(models.DefaultProfile)
	updated := models.DefaultProfile
	updated.Age = 45
	tracker.On("SaveProfile", mock.Anything, updated).Return(updated, nil)

	w := doJSON(router, http.MethodGet, "/api/v1/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.DefaultProfile, decode[ProfileResponse](t, w).Profile)

	w = doJSON(router, http.MethodPut, "/api/v1/profile", updated)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 45, decode[ProfileResponse](t, w).Profile.Age)
}
