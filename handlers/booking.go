package handlers

import (
	"net/http"

	"blaccbook/services/booking"
	"blaccbook/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// Create books a slot for the authenticated user.
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	b, err := h.Service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err, "create booking")
		return
	}
	c.JSON(http.StatusCreated, b)
}

// Get returns one booking for its customer or provider.
func (h *BookingHandler) Get(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	b, err := h.Service.GetBooking(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.HandleServiceError(c, err, "fetch booking")
		return
	}
	c.JSON(http.StatusOK, b)
}

// List returns the user's bookings for a tab (upcoming, completed,
// cancelled).
func (h *BookingHandler) List(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	bookings, err := h.Service.ListBookings(c.Request.Context(), userID, c.Query("tab"))
	if err != nil {
		utils.HandleServiceError(c, err, "list bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// Cancel cancels a future booking with a required reason.
func (h *BookingHandler) Cancel(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	b, err := h.Service.CancelBooking(c.Request.Context(), c.Param("id"), userID, req.Reason)
	if err != nil {
		utils.HandleServiceError(c, err, "cancel booking")
		return
	}
	c.JSON(http.StatusOK, b)
}

// Rate submits a star rating for a completed booking.
func (h *BookingHandler) Rate(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req booking.RateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	if err := h.Service.RateBooking(c.Request.Context(), c.Param("id"), userID, req); err != nil {
		utils.HandleServiceError(c, err, "rate booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rated"})
}

// ApplyPromo validates a promo code and returns its discount.
func (h *BookingHandler) ApplyPromo(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	promo, err := h.Service.ApplyPromoCode(c.Request.Context(), req.Code)
	if err != nil {
		utils.HandleServiceError(c, err, "apply promo code")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":               promo.Code,
		"discountPercentage": promo.DiscountPercentage,
	})
}
