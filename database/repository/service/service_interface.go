package serviceRepo

import "blaccbook/models"

// ServiceFilter narrows a catalogue listing. Zero values mean "no filter".
type ServiceFilter struct {
	Category string
	Featured *bool
	Query    string // case-insensitive match against title/description
}

// ServiceRepository defines persistence operations for the service catalogue.
type ServiceRepository interface {
	Create(svc *models.Service) error
	GetByID(id string) (*models.Service, error)
	List(filter ServiceFilter) ([]models.Service, error)
	// ApplyRating folds one new review rating into the service's running
	// average and increments the review count, atomically server-side.
	ApplyRating(serviceID string, rating int) error
}
