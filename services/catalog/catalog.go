// Package catalog exposes the bookable service listings customers browse.
package catalog

import (
	"context"
	"time"

	reviewRepo "blaccbook/database/repository/review"
	serviceRepo "blaccbook/database/repository/service"
	"blaccbook/models"
	"blaccbook/utils"

	"github.com/google/uuid"
)

// CatalogService manages the provider-published service listings.
type CatalogService interface {
	CreateService(ctx context.Context, providerID string, svc models.Service) (*models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	ListServices(ctx context.Context, filter serviceRepo.ServiceFilter) ([]models.Service, error)
	ListReviews(ctx context.Context, serviceID string) ([]models.Review, error)
}

// DefaultCatalogService is the production implementation of CatalogService.
type DefaultCatalogService struct {
	Services serviceRepo.ServiceRepository
	Reviews  reviewRepo.ReviewRepository
}

// CreateService publishes a new listing under the given provider.
func (s *DefaultCatalogService) CreateService(ctx context.Context, providerID string, svc models.Service) (*models.Service, error) {
	if svc.Title == "" {
		return nil, utils.ValidationError{Message: "a service title is required"}
	}
	if svc.Price <= 0 {
		return nil, utils.ValidationError{Message: "service price must be positive"}
	}

	svc.ID = uuid.New().String()
	svc.ProviderID = providerID
	svc.Rating = 0
	svc.ReviewCount = 0
	now := time.Now()
	svc.CreatedAt = now
	svc.UpdatedAt = now

	if err := s.Services.Create(&svc); err != nil {
		return nil, utils.PersistenceError{Message: "failed to create service", Err: err}
	}
	return &svc, nil
}

// GetService fetches one listing.
func (s *DefaultCatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.Services.GetByID(id)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to load service", Err: err}
	}
	if svc == nil {
		return nil, utils.NotFoundError{Message: "service not found"}
	}
	return svc, nil
}

// ListServices returns listings matching the filter, featured and top-rated
// first.
func (s *DefaultCatalogService) ListServices(ctx context.Context, filter serviceRepo.ServiceFilter) ([]models.Service, error) {
	services, err := s.Services.List(filter)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to list services", Err: err}
	}
	return services, nil
}

// ListReviews returns a service's reviews, newest first.
func (s *DefaultCatalogService) ListReviews(ctx context.Context, serviceID string) ([]models.Review, error) {
	if _, err := s.GetService(ctx, serviceID); err != nil {
		return nil, err
	}
	reviews, err := s.Reviews.ListByService(serviceID)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to list reviews", Err: err}
	}
	return reviews, nil
}
