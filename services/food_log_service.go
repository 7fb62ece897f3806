package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"backend/models"
)

var ErrLogNotFound = errors.New("food log not found")

// FoodLogService covers the direct log operations that do not go through the
// free-text pipeline: listing, quantity edits, and deletion. Every operation
// is scoped to the owning user.
type FoodLogService struct {
	DB        *gorm.DB
	Nutrition *NutritionService
}

func NewFoodLogService(db *gorm.DB, nutrition *NutritionService) *FoodLogService {
	return &FoodLogService{DB: db, Nutrition: nutrition}
}

// ListByDate returns the user's logs for one day, oldest first, with the
// catalog entry preloaded.
func (s *FoodLogService) ListByDate(userID uint, date time.Time) ([]models.FoodLog, error) {
	var logs []models.FoodLog
	err := s.DB.Preload("Food").
		Where("user_id = ? AND date(consumed_date) = ?", userID, date.Format("2006-01-02")).
		Order("consumed_at ASC, id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("list food logs: %w", err)
	}
	return logs, nil
}

func (s *FoodLogService) getOwned(userID, logID uint) (*models.FoodLog, error) {
	var log models.FoodLog
	err := s.DB.Preload("Food").Where("id = ? AND user_id = ?", logID, userID).First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load food log: %w", err)
	}
	return &log, nil
}

// UpdateQuantity changes how much of the food was eaten and recomputes the
// denormalized totals from the catalog entry.
func (s *FoodLogService) UpdateQuantity(ctx context.Context, userID, logID uint, quantity float64) (*models.FoodLog, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	log, err := s.getOwned(userID, logID)
	if err != nil {
		return nil, err
	}

	log.Quantity = quantity
	log.RecomputeTotals(&log.Food)
	if err := s.DB.Omit("Food").Save(log).Error; err != nil {
		return nil, fmt.Errorf("update food log: %w", err)
	}

	s.Nutrition.Invalidate(ctx, userID, log.ConsumedDate)
	return log, nil
}

// Delete removes one of the user's logs and invalidates that day's totals.
func (s *FoodLogService) Delete(ctx context.Context, userID, logID uint) error {
	log, err := s.getOwned(userID, logID)
	if err != nil {
		return err
	}
	if err := s.DB.Delete(log).Error; err != nil {
		return fmt.Errorf("delete food log: %w", err)
	}
	s.Nutrition.Invalidate(ctx, userID, log.ConsumedDate)
	return nil
}
