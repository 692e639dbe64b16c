// Package rest exposes the task view service over HTTP.
package rest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/toni6/taskproc/delivery/rest/dto"
	"github.com/toni6/taskproc/delivery/websocket"
	"github.com/toni6/taskproc/domain"
	"github.com/toni6/taskproc/expr"
	"github.com/toni6/taskproc/infrastructure/logger"
	tasksvc "github.com/toni6/taskproc/task"
)

// Handler handles HTTP requests against the shared task manager.
type Handler struct {
	manager *tasksvc.Manager
	hub     *websocket.Hub
	log     *zap.Logger
}

// NewHandler creates a new HTTP handler. hub may be nil when the event
// stream is disabled.
func NewHandler(manager *tasksvc.Manager, hub *websocket.Hub) *Handler {
	return &Handler{
		manager: manager,
		hub:     hub,
		log:     logger.Named("rest"),
	}
}

// LoadSource handles POST /api/v1/source
func (h *Handler) LoadSource(c *gin.Context) {
	var req dto.LoadSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.manager.LoadSource(req.Path); err != nil {
		h.respondDomainError(c, err, "Failed to load source")
		return
	}

	h.broadcast("source_loaded", gin.H{
		"source": req.Path,
		"tasks":  h.manager.TaskCount(),
	})
	c.JSON(http.StatusOK, dto.SourceResponse{
		Source:     req.Path,
		TotalCount: h.manager.TaskCount(),
	})
}

// ReloadSource handles POST /api/v1/source/reload
func (h *Handler) ReloadSource(c *gin.Context) {
	if err := h.manager.ReloadSource(); err != nil {
		h.respondDomainError(c, err, "Failed to reload source")
		return
	}

	h.broadcast("source_loaded", gin.H{
		"source": h.manager.CurrentSourcePath(),
		"tasks":  h.manager.TaskCount(),
	})
	c.JSON(http.StatusOK, dto.SourceResponse{
		Source:     h.manager.CurrentSourcePath(),
		TotalCount: h.manager.TaskCount(),
	})
}

// GetView handles GET /api/v1/view
func (h *Handler) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, h.viewResponse())
}

// GetTask handles GET /api/v1/tasks/:id
func (h *Handler) GetTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_id", "Task id must be an integer")
		return
	}

	t, err := h.manager.GetTask(id)
	if err != nil {
		h.respondDomainError(c, err, "Failed to get task")
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(t))
}

// ApplyFilter handles POST /api/v1/view/filter
func (h *Handler) ApplyFilter(c *gin.Context) {
	var req dto.ExpressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.manager.ApplyFilter(req.Expression); err != nil {
		h.respondDomainError(c, err, "Failed to apply filter")
		return
	}

	h.broadcast("view_filtered", gin.H{
		"expression": req.Expression,
		"view_count": h.manager.ViewCount(),
	})
	c.JSON(http.StatusOK, h.viewResponse())
}

// ApplySort handles POST /api/v1/view/sort
func (h *Handler) ApplySort(c *gin.Context) {
	var req dto.ExpressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.manager.ApplySort(req.Expression); err != nil {
		h.respondDomainError(c, err, "Failed to apply sort")
		return
	}

	h.broadcast("view_sorted", gin.H{"expression": req.Expression})
	c.JSON(http.StatusOK, h.viewResponse())
}

// FilterByTag handles POST /api/v1/view/tag
func (h *Handler) FilterByTag(c *gin.Context) {
	var req dto.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.manager.FilterByTag(req.Tag); err != nil {
		h.respondDomainError(c, err, "Failed to filter by tag")
		return
	}

	h.broadcast("view_filtered", gin.H{
		"tag":        req.Tag,
		"view_count": h.manager.ViewCount(),
	})
	c.JSON(http.StatusOK, h.viewResponse())
}

// ResetView handles POST /api/v1/view/reset
func (h *Handler) ResetView(c *gin.Context) {
	h.manager.ResetView()
	h.broadcast("view_reset", gin.H{"view_count": h.manager.ViewCount()})
	c.JSON(http.StatusOK, h.viewResponse())
}

// GetStats handles GET /api/v1/view/stats
func (h *Handler) GetStats(c *gin.Context) {
	stats := h.manager.StatusStats()
	today := time.Now().Format("2006-01-02")

	c.JSON(http.StatusOK, dto.StatsResponse{
		Total: stats.Total(),
		ByStatus: map[string]int{
			"todo":        stats.Todo,
			"in-progress": stats.InProgress,
			"done":        stats.Done,
			"other":       stats.Other,
		},
		AveragePriority: h.manager.AveragePriority(),
		Overdue:         h.manager.OverdueCount(today),
	})
}

// GetHistory handles GET /api/v1/view/history
func (h *Handler) GetHistory(c *gin.Context) {
	actions := h.manager.History()
	entries := make([]dto.HistoryEntry, len(actions))
	for i, a := range actions {
		entries[i] = dto.HistoryEntry{Type: string(a.Type), Payload: a.Payload}
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// Clear handles DELETE /api/v1/source
func (h *Handler) Clear(c *gin.Context) {
	if err := h.manager.Clear(); err != nil {
		h.log.Error("failed to clear state", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to clear state")
		return
	}
	h.broadcast("view_reset", gin.H{"view_count": 0})
	c.Status(http.StatusNoContent)
}

func (h *Handler) viewResponse() dto.ViewResponse {
	tasks := h.manager.CurrentView()
	out := make([]*dto.TaskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = dto.FromEntity(t)
	}
	return dto.ViewResponse{
		Tasks:      out,
		ViewCount:  len(out),
		TotalCount: h.manager.TaskCount(),
		Source:     h.manager.CurrentSourcePath(),
	}
}

func (h *Handler) broadcast(event string, data gin.H) {
	if h.hub == nil {
		return
	}
	h.hub.Broadcast(event, data)
}

func (h *Handler) respondDomainError(c *gin.Context, err error, fallback string) {
	var perr *expr.ParseError
	switch {
	case errors.As(err, &perr):
		respondError(c, http.StatusBadRequest, "invalid_expression", perr.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, "task_not_found", err.Error())
	case errors.Is(err, domain.ErrNoReader),
		errors.Is(err, domain.ErrEmptySource),
		errors.Is(err, domain.ErrBadParamInput):
		respondError(c, http.StatusBadRequest, "invalid_source", err.Error())
	case errors.Is(err, domain.ErrNoSource):
		respondError(c, http.StatusConflict, "no_source", err.Error())
	default:
		h.log.Error(fallback, zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", fallback)
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.ErrorResponse{Error: code, Message: message})
}
