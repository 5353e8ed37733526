package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutrilog/internal/service"
)

// Today returns the dashboard for the current day.
func (h *TrackerHandler) Today(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Dashboard(h.now()))
}

// History returns the summaries of the retained days before today.
func (h *TrackerHandler) History(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": h.tracker.History(h.now())})
}

// CreateEntry analyzes a description and logs it.
func (h *TrackerHandler) CreateEntry(c *gin.Context) {
	h.submit(c, "", http.StatusCreated)
}

// UpdateEntry re-analyzes a new description for an existing entry.
func (h *TrackerHandler) UpdateEntry(c *gin.Context) {
	h.submit(c, c.Param("id"), http.StatusOK)
}

func (h *TrackerHandler) submit(c *gin.Context, editID string, status int) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	entry, err := h.tracker.Submit(c.Request.Context(), req.Query, editID, h.now())
	warning, err := saveWarning(err)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrNotFound.Error()})
		return
	}
	c.JSON(status, EntryResponse{Entry: entry, Warning: warning})
}

// GetEntry returns today's entry so it can be edited.
func (h *TrackerHandler) GetEntry(c *gin.Context) {
	entry, err := h.tracker.BeginEdit(h.now(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, EntryResponse{Entry: &entry})
}

// DeleteEntry removes today's entry. Unknown ids succeed.
func (h *TrackerHandler) DeleteEntry(c *gin.Context) {
	err := h.tracker.Remove(c.Request.Context(), c.Param("id"), h.now())
	warning, err := saveWarning(err)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if warning != "" {
		c.JSON(http.StatusOK, gin.H{"warning": warning})
		return
	}
	c.Status(http.StatusNoContent)
}
