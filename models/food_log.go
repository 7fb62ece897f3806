package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Meal type values accepted on a FoodLog. Anything else is coerced to
// MealLunch by the resolver.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

func ValidMealType(t string) bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// FoodLog is one user's record of eating a quantity of a Food. The Totals
// block denormalizes every nutrient as per-100g value * quantity/100, rounded
// to one decimal, and is recomputed whenever the row is saved with its Food
// association populated (only quantity changes in practice).
type FoodLog struct {
	gorm.Model
	UserID uint `gorm:"index:idx_food_logs_user_date;not null" json:"user_id"`
	FoodID uint `gorm:"index;not null" json:"food_id"`
	Food   Food `gorm:"constraint:OnDelete:CASCADE" json:"food"`

	Quantity float64 `gorm:"not null" json:"quantity"` // grams
	MealType string  `gorm:"size:20;default:lunch" json:"meal_type"`

	// Audit trail of the raw user utterance and the extraction it produced.
	OriginalText string         `gorm:"type:text" json:"original_text"`
	AIAnalysis   datatypes.JSON `json:"ai_analysis"`

	ConsumedAt   time.Time `gorm:"autoCreateTime" json:"consumed_at"`
	ConsumedDate time.Time `gorm:"type:date;index:idx_food_logs_user_date" json:"consumed_date"`

	Totals Nutrients `gorm:"embedded;embeddedPrefix:total_" json:"totals"`
}

// RecomputeTotals refreshes the denormalized block from the given catalog
// entry and the current quantity.
func (l *FoodLog) RecomputeTotals(f *Food) {
	l.Totals = f.Nutrients.Scaled(l.Quantity)
}

// BeforeSave keeps the totals in sync when the Food association is loaded,
// mirroring the quantity-edit path where only Quantity changes.
func (l *FoodLog) BeforeSave(tx *gorm.DB) error {
	if l.Food.ID != 0 {
		l.RecomputeTotals(&l.Food)
	}
	return nil
}
