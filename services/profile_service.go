package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"backend/models"
	"backend/utils"
)

// ProfileService manages the per-user body profile and the derived daily
// intake targets.
type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// GetOrCreate returns the user's profile, creating a default one on first
// access so the dashboard always has targets to compare against.
func (s *ProfileService) GetOrCreate(userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := s.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{
			UserID:        userID,
			Gender:        "male",
			Goal:          models.GoalMaintainWeight,
			ActivityLevel: "moderate",
			DailyCalories: 2000,
			DailyProtein:  150,
			DailyCarbs:    250,
			DailyFat:      67,
		}
		if err := s.DB.Create(&profile).Error; err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
		return &profile, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &profile, nil
}

// ProfileUpdate carries the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Gender        *string    `json:"gender"`
	BirthDate     *time.Time `json:"birth_date"`
	HeightCm      *float64   `json:"height"`
	WeightKg      *float64   `json:"weight"`
	Goal          *string    `json:"goal"`
	ActivityLevel *string    `json:"activity_level"`
}

// Update applies the given fields and recomputes the daily targets from the
// resulting body data.
func (s *ProfileService) Update(userID uint, upd ProfileUpdate) (*models.Profile, error) {
	profile, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	if upd.Gender != nil {
		profile.Gender = *upd.Gender
	}
	if upd.BirthDate != nil {
		profile.BirthDate = upd.BirthDate
	}
	if upd.HeightCm != nil {
		profile.HeightCm = *upd.HeightCm
	}
	if upd.WeightKg != nil {
		profile.WeightKg = *upd.WeightKg
	}
	if upd.Goal != nil {
		profile.Goal = *upd.Goal
	}
	if upd.ActivityLevel != nil {
		profile.ActivityLevel = *upd.ActivityLevel
	}

	if profile.HeightCm > 0 && profile.WeightKg > 0 {
		profile.DailyCalories, profile.DailyProtein, profile.DailyCarbs, profile.DailyFat =
			utils.DailyNeeds(profile.Gender, profile.WeightKg, profile.HeightCm,
				profile.Age(), profile.ActivityLevel, profile.Goal)
	}

	if err := s.DB.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return profile, nil
}
