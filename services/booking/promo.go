package booking

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"blaccbook/models"
	"blaccbook/utils"

	"go.uber.org/zap"
)

const promoCacheTTL = 10 * time.Minute

// ApplyPromoCode validates a promo code. Codes are normalized to uppercase
// before lookup, cached in redis, and checked for expiry at call time.
func (s *DefaultBookingService) ApplyPromoCode(ctx context.Context, code string) (*models.PromoCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, utils.ValidationError{Message: "a promo code is required"}
	}

	promo := s.cachedPromo(ctx, code)
	if promo == nil {
		var err error
		promo, err = s.Promos.GetByCode(code)
		if err != nil {
			return nil, utils.PersistenceError{Message: "failed to look up promo code", Err: err}
		}
		if promo == nil {
			return nil, utils.NotFoundError{Message: "invalid promo code"}
		}
		s.cachePromo(ctx, promo)
	}

	if promo.Expired(s.now()) {
		return nil, utils.ExpiredError{Message: "this promo code has expired"}
	}
	return promo, nil
}

func (s *DefaultBookingService) cachedPromo(ctx context.Context, code string) *models.PromoCode {
	if s.Cache == nil {
		return nil
	}
	data, err := s.Cache.Get(ctx, utils.PromoCachePrefix+code).Result()
	if err != nil {
		return nil
	}
	var promo models.PromoCode
	if err := json.Unmarshal([]byte(data), &promo); err != nil {
		utils.GetLogger().Warn("Dropping corrupt promo cache entry", zap.String("code", code))
		s.Cache.Del(ctx, utils.PromoCachePrefix+code)
		return nil
	}
	return &promo
}

func (s *DefaultBookingService) cachePromo(ctx context.Context, promo *models.PromoCode) {
	if s.Cache == nil {
		return
	}
	data, err := json.Marshal(promo)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, utils.PromoCachePrefix+promo.Code, data, promoCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("Failed to cache promo code", zap.Error(err))
	}
}
