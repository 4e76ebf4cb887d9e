package handlers

import (
	"net/http"

	"blaccbook/services/call"
	"blaccbook/utils"

	"github.com/gin-gonic/gin"
)

// CallHandler serves the voice call signaling endpoints.
type CallHandler struct {
	Service call.CallService
}

func NewCallHandler(svc call.CallService) *CallHandler {
	return &CallHandler{Service: svc}
}

// Initiate starts ringing another user.
func (h *CallHandler) Initiate(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req struct {
		RecipientID string `json:"recipientId" binding:"required"`
		Video       bool   `json:"video"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	record, err := h.Service.InitiateCall(c.Request.Context(), userID, req.RecipientID, req.Video)
	if err != nil {
		utils.HandleServiceError(c, err, "start call")
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Accept answers a ringing call.
func (h *CallHandler) Accept(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	record, err := h.Service.AcceptCall(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.HandleServiceError(c, err, "accept call")
		return
	}
	c.JSON(http.StatusOK, record)
}

// End hangs up from either side.
func (h *CallHandler) End(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	record, err := h.Service.EndCall(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.HandleServiceError(c, err, "end call")
		return
	}
	c.JSON(http.StatusOK, record)
}

// Decline rejects a ringing call.
func (h *CallHandler) Decline(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	record, err := h.Service.DeclineCall(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.HandleServiceError(c, err, "decline call")
		return
	}
	c.JSON(http.StatusOK, record)
}

// Get returns one call record.
func (h *CallHandler) Get(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	record, err := h.Service.GetCall(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.HandleServiceError(c, err, "fetch call")
		return
	}
	c.JSON(http.StatusOK, record)
}

// History lists the caller's past calls.
func (h *CallHandler) History(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	calls, err := h.Service.ListHistory(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err, "list call history")
		return
	}
	c.JSON(http.StatusOK, calls)
}

// Watch streams live call record snapshots as server-sent events until the
// client disconnects or the call reaches a terminal state.
func (h *CallHandler) Watch(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	ch, err := h.Service.WatchCall(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.HandleServiceError(c, err, "watch call")
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case record, open := <-ch:
			if !open {
				return
			}
			c.SSEvent("call", record)
			c.Writer.Flush()
			if record.Terminal() {
				return
			}
		}
	}
}
