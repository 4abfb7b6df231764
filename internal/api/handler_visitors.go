package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"apnagate-backend/internal/mw"
)

// GetNotifications lists the resident's PENDING visitor entries, newest
// first ("the notification bell").
func (h *Handler) GetNotifications(c *gin.Context) {
	logs, err := h.store.PendingLogs(c.Request.Context(), mw.FlatNumber(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// MarkNotificationsRead flips is_read for all of the resident's PENDING
// entries. Idempotent.
func (h *Handler) MarkNotificationsRead(c *gin.Context) {
	if err := h.store.MarkLogsRead(c.Request.Context(), mw.FlatNumber(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read."})
}

// GetHistory lists the resident's resolved visitor entries, newest first.
func (h *Handler) GetHistory(c *gin.Context) {
	logs, err := h.store.HistoryLogs(c.Request.Context(), mw.FlatNumber(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}
