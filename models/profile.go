package models

import (
	"time"

	"gorm.io/gorm"
)

// Goal and activity-level choices mirror the onboarding form.
const (
	GoalLoseWeight     = "lose_weight"
	GoalMaintainWeight = "maintain_weight"
	GoalGainWeight     = "gain_weight"
	GoalMuscleGain     = "muscle_gain"
)

// Profile stores per-user anthropometrics and the computed daily recommended
// intake the dashboard percentages are measured against.
type Profile struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	Gender    string     `gorm:"size:10;default:male" json:"gender"` // male|female
	BirthDate *time.Time `json:"birth_date"`
	HeightCm  float64    `json:"height"` // cm, 0 when unset
	WeightKg  float64    `json:"weight"` // kg, 0 when unset

	Goal          string `gorm:"size:20;default:maintain_weight" json:"goal"`
	ActivityLevel string `gorm:"size:20;default:moderate" json:"activity_level"` // sedentary|light|moderate|active|very_active

	// 계산된 일일 권장 섭취량
	DailyCalories int     `gorm:"default:2000" json:"daily_calories"`
	DailyProtein  float64 `gorm:"default:150" json:"daily_protein"` // g
	DailyCarbs    float64 `gorm:"default:250" json:"daily_carbs"`   // g
	DailyFat      float64 `gorm:"default:67" json:"daily_fat"`      // g
}

// Age derives years from the birth date, defaulting to 30 when unset.
func (p *Profile) Age() int {
	if p.BirthDate == nil {
		return 30
	}
	now := time.Now()
	years := now.Year() - p.BirthDate.Year()
	if now.Month() < p.BirthDate.Month() ||
		(now.Month() == p.BirthDate.Month() && now.Day() < p.BirthDate.Day()) {
		years--
	}
	return years
}
