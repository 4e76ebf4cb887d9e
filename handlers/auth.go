package handlers

import (
	"net/http"

	"blaccbook/models"
	"blaccbook/services/user"
	"blaccbook/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the account and profile endpoints.
type UserHandler struct {
	Service user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{Service: svc}
}

// Register creates a new account and returns an auth response.
func (h *UserHandler) Register(c *gin.Context) {
	var req models.User
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	resp, err := h.Service.RegisterUser(req)
	if err != nil {
		utils.HandleServiceError(c, err, "register user")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login authenticates with email and password.
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	resp, err := h.Service.AuthenticateUser(req.Email, req.Password)
	if err != nil {
		utils.HandleServiceError(c, err, "authenticate user")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Profile returns the authenticated user's profile.
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	profile, err := h.Service.GetUserByID(userID)
	if err != nil {
		utils.HandleServiceError(c, err, "fetch profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile applies a partial profile update.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req user.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	updated, err := h.Service.UpdateProfile(userID, req)
	if err != nil {
		utils.HandleServiceError(c, err, "update profile")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// UpdateFCMToken stores the caller's device push token.
func (h *UserHandler) UpdateFCMToken(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	if err := h.Service.UpdateFCMToken(userID, req.Token); err != nil {
		utils.HandleServiceError(c, err, "update FCM token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Logout revokes the caller's auth token.
func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	if err := h.Service.RevokeUserAuthToken(userID); err != nil {
		utils.HandleServiceError(c, err, "logout")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
