package handlers

import (
	"net/http"
	"strconv"

	"blaccbook/services/chat"
	"blaccbook/utils"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves the conversation and message endpoints.
type ChatHandler struct {
	Service chat.ChatService
}

func NewChatHandler(svc chat.ChatService) *ChatHandler {
	return &ChatHandler{Service: svc}
}

// Open returns (creating if needed) the conversation with another user.
func (h *ChatHandler) Open(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	conv, err := h.Service.GetOrCreateConversation(c.Request.Context(), userID, req.UserID)
	if err != nil {
		utils.HandleServiceError(c, err, "open conversation")
		return
	}
	c.JSON(http.StatusOK, conv)
}

// List returns the user's conversations, most recently active first.
func (h *ChatHandler) List(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	convs, err := h.Service.ListConversations(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err, "list conversations")
		return
	}
	c.JSON(http.StatusOK, convs)
}

// Send appends a message to the conversation.
func (h *ChatHandler) Send(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req chat.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	msg, err := h.Service.SendMessage(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err, "send message")
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// Messages returns the conversation's messages.
func (h *ChatHandler) Messages(c *gin.Context) {
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

	msgs, err := h.Service.ListMessages(c.Request.Context(), c.Param("id"), userID, limit)
	if err != nil {
		utils.HandleServiceError(c, err, "list messages")
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// MarkRead zeroes the caller's unread counter for the conversation.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	if err := h.Service.MarkRead(c.Request.Context(), c.Param("id"), userID); err != nil {
		utils.HandleServiceError(c, err, "mark conversation read")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Clear deletes the conversation's messages.
func (h *ChatHandler) Clear(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	if err := h.Service.ClearChat(c.Request.Context(), c.Param("id"), userID); err != nil {
		utils.HandleServiceError(c, err, "clear chat")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UploadImage stores a chat image attachment and returns its URL. The caller
// then sends an image message with that URL as content.
func (h *ChatHandler) UploadImage(c *gin.Context) {
	if _, ok := authedUserID(c); !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "an image file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "failed to read uploaded file")
		return
	}
	defer file.Close()

	url, err := h.Service.UploadAttachment(c.Request.Context(), file)
	if err != nil {
		utils.HandleServiceError(c, err, "upload attachment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
