package handlers

import (
	"net/http"

	serviceRepo "blaccbook/database/repository/service"
	"blaccbook/models"
	"blaccbook/services/booking"
	"blaccbook/services/catalog"
	"blaccbook/utils"

	"github.com/gin-gonic/gin"
)

// ServiceHandler serves the service catalogue endpoints.
type ServiceHandler struct {
	Catalog  catalog.CatalogService
	Bookings booking.BookingService
}

func NewServiceHandler(cat catalog.CatalogService, bookings booking.BookingService) *ServiceHandler {
	return &ServiceHandler{Catalog: cat, Bookings: bookings}
}

// Create publishes a new service listing under the authenticated provider.
func (h *ServiceHandler) Create(c *gin.Context) {
	providerID, ok := authedUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var svc models.Service
	if err := c.ShouldBindJSON(&svc); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	created, err := h.Catalog.CreateService(c.Request.Context(), providerID, svc)
	if err != nil {
		utils.HandleServiceError(c, err, "create service")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get returns one listing.
func (h *ServiceHandler) Get(c *gin.Context) {
	svc, err := h.Catalog.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err, "fetch service")
		return
	}
	c.JSON(http.StatusOK, svc)
}

// List returns listings matching the query filters.
func (h *ServiceHandler) List(c *gin.Context) {
	filter := serviceRepo.ServiceFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}
	if featured := c.Query("featured"); featured != "" {
		val := featured == "true"
		filter.Featured = &val
	}

	services, err := h.Catalog.ListServices(c.Request.Context(), filter)
	if err != nil {
		utils.HandleServiceError(c, err, "list services")
		return
	}
	c.JSON(http.StatusOK, services)
}

// Reviews returns a service's reviews, newest first.
func (h *ServiceHandler) Reviews(c *gin.Context) {
	reviews, err := h.Catalog.ListReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// Slots returns the bookable slots for one service on one date.
func (h *ServiceHandler) Slots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "date query parameter is required")
		return
	}

	slots, err := h.Bookings.GetAvailableSlots(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		utils.HandleServiceError(c, err, "fetch slots")
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
