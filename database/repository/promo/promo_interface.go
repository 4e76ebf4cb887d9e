package promoRepo

import "blaccbook/models"

// PromoRepository defines lookup operations for promo codes.
type PromoRepository interface {
	Create(promo *models.PromoCode) error
	// GetByCode retrieves a promo by its uppercase code. Returns nil when
	// absent.
	GetByCode(code string) (*models.PromoCode, error)
}
