package handlers

import (
	"context"
	"net/http"

	"assessment-service/internal/models"
	"assessment-service/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	Service *service.SessionService
}

func NewSessionHandler(s *service.SessionService) *SessionHandler {
	return &SessionHandler{Service: s}
}

// StartPractice creates a free-running adaptive practice session.
func (h *SessionHandler) StartPractice(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		DurationMinutes int `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	result, err := h.Service.StartPractice(context.Background(), userID, req.DurationMinutes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// SubmitPracticeAnswer answers the current question and advances the ladder.
func (h *SessionHandler) SubmitPracticeAnswer(c *gin.Context) {
	var req struct {
		ChosenOption     string `json:"chosen_option" binding:"required"`
		TimeTakenSeconds int    `json:"time_taken_seconds" binding:"omitempty,min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	result, err := h.Service.SubmitPracticeAnswer(context.Background(), c.Param("id"), req.ChosenOption, req.TimeTakenSeconds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// EndPractice completes the session early and settles XP.
func (h *SessionHandler) EndPractice(c *gin.Context) {
	result, err := h.Service.EndPractice(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetResults is read-only and never re-triggers awarding.
func (h *SessionHandler) GetResults(c *gin.Context) {
	result, err := h.Service.Results(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// StartSectional creates a sectional test with one fixed block.
func (h *SessionHandler) StartSectional(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		SectionID       string `json:"section_id" binding:"required"`
		Difficulty      string `json:"difficulty" binding:"required"`
		SectionIndex    int    `json:"section_index" binding:"omitempty,min=0"`
		DurationMinutes int    `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	result, err := h.Service.StartSectional(context.Background(), userID, req.SectionID,
		models.Tier(req.Difficulty), req.SectionIndex, req.DurationMinutes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *SessionHandler) SubmitSectionalAnswer(c *gin.Context) {
	var req struct {
		ChosenOption     string `json:"chosen_option" binding:"required"`
		TimeTakenSeconds int    `json:"time_taken_seconds" binding:"omitempty,min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	result, err := h.Service.SubmitSectionalAnswer(context.Background(), c.Param("id"), req.ChosenOption, req.TimeTakenSeconds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AddSection appends the next fixed block once the previous one completed.
func (h *SessionHandler) AddSection(c *gin.Context) {
	var req struct {
		SectionID    string `json:"section_id" binding:"required"`
		Difficulty   string `json:"difficulty" binding:"required"`
		SectionIndex int    `json:"section_index" binding:"omitempty,min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	result, err := h.Service.AddSection(context.Background(), c.Param("id"), req.SectionID,
		models.Tier(req.Difficulty), req.SectionIndex)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SessionHandler) EndSectional(c *gin.Context) {
	result, err := h.Service.EndSectional(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListSessions returns the caller's session history, optionally filtered by
// mode.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	sessions, err := h.Service.ListByUser(context.Background(), userID, models.SessionMode(c.Query("mode")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}
