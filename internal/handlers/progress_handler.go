package handlers

import (
	"context"
	"net/http"
	"strconv"

	"assessment-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	Service *service.ProgressService
}

func NewProgressHandler(s *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{Service: s}
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	record, err := h.Service.Snapshot(context.Background(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"progress":         record,
		"xp_to_next_level": record.XPToNextLevel(),
	})
}

func (h *ProgressHandler) Leaderboard(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	records, err := h.Service.Leaderboard(context.Background(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
