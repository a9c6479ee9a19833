package handlers

import (
	"context"
	"net/http"

	"assessment-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ExamHandler struct {
	Service *service.ExamService
}

func NewExamHandler(s *service.ExamService) *ExamHandler {
	return &ExamHandler{Service: s}
}

func (h *ExamHandler) StartExam(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		DurationMinutes int `json:"duration_minutes" binding:"omitempty,min=1,max=240"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	result, err := h.Service.StartExam(context.Background(), userID, req.DurationMinutes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *ExamHandler) SubmitAnswer(c *gin.Context) {
	var req struct {
		Answer           string `json:"answer" binding:"required"`
		TimeSpentSeconds int    `json:"time_spent_seconds" binding:"omitempty,min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	result, err := h.Service.SubmitAnswer(context.Background(), c.Param("id"), req.Answer, req.TimeSpentSeconds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// EndExam abandons the exam, or with save_results treats the partial
// progress as a completion.
func (h *ExamHandler) EndExam(c *gin.Context) {
	var req struct {
		SaveResults bool `json:"save_results"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	result, err := h.Service.End(context.Background(), c.Param("id"), req.SaveResults)
	if err != nil {
		respondError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Exam abandoned"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ExamHandler) Resume(c *gin.Context) {
	result, err := h.Service.Resume(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ExamHandler) GetExam(c *gin.Context) {
	session, err := h.Service.Get(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *ExamHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	sessions, err := h.Service.History(context.Background(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}
