package handlers

import (
	"errors"
	"net/http"

	"assessment-service/internal/selection"
	"assessment-service/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps the typed error taxonomy to HTTP statuses and stable
// error codes.
func respondError(c *gin.Context, err error) {
	var insufficient *selection.InsufficientQuestionsError
	var invalidState *service.InvalidStateError
	var duplicate *service.DuplicateActiveSessionError
	var oracleDown *service.OracleUnavailableError

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found", "code": "SESSION_NOT_FOUND"})
	case errors.Is(err, selection.ErrNoQuestionsAvailable):
		c.JSON(http.StatusNotFound, gin.H{"error": "No questions available", "code": "NO_QUESTIONS_AVAILABLE"})
	case errors.Is(err, service.ErrSessionExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Session has expired", "code": "SESSION_EXPIRED"})
	case errors.Is(err, service.ErrSessionBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "Session is processing another request", "code": "SESSION_BUSY"})
	case errors.Is(err, service.ErrCannotResume):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "CANNOT_RESUME"})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Not enough questions for section",
			"code":   "INSUFFICIENT_QUESTIONS",
			"found":  insufficient.Found,
			"needed": insufficient.Needed,
		})
	case errors.As(err, &invalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "INVALID_STATE"})
	case errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "An active exam session already exists",
			"code":       "DUPLICATE_ACTIVE_SESSION",
			"session_id": duplicate.SessionID,
		})
	case errors.As(err, &oracleDown):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Scoring service unavailable", "code": "ORACLE_UNAVAILABLE"})
	case errors.Is(err, service.ErrNoMoreQuestionsInSection):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": "NO_MORE_QUESTIONS_IN_SECTION"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func requireUserID(c *gin.Context) (string, bool) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID is required", "code": "MISSING_USER_ID"})
		return "", false
	}
	return userID, true
}
