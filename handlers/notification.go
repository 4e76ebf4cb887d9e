package handlers

import (
	"net/http"
	"strconv"

	"blaccbook/services/notification"
	"blaccbook/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the notification center endpoints.
type NotificationHandler struct {
	Service notification.NotificationService
}

func NewNotificationHandler(svc notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: svc}
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	limit := int64(50)
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	items, err := h.Service.List(c.Request.Context(), userID, limit)
	if err != nil {
		utils.HandleServiceError(c, err, "list notifications")
		return
	}
	c.JSON(http.StatusOK, items)
}

// MarkRead marks one notification read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	if err := h.Service.MarkRead(c.Request.Context(), c.Param("id"), userID); err != nil {
		utils.HandleServiceError(c, err, "mark notification read")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MarkAllRead marks every notification read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	if err := h.Service.MarkAllRead(c.Request.Context(), userID); err != nil {
		utils.HandleServiceError(c, err, "mark notifications read")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UnreadCount returns the badge count.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	count, err := h.Service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err, "count unread notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}
