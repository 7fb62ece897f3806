package utils

import (
	"errors"
	"math"
)

// Activity multipliers applied to BMR (Mifflin-St Jeor) to get TDEE.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// Goal multipliers adjust the calorie target.
var goalMultipliers = map[string]float64{
	"lose_weight":     0.8,
	"maintain_weight": 1.0,
	"gain_weight":     1.2,
	"muscle_gain":     1.1,
}

// BMR computes basal metabolic rate with the Mifflin-St Jeor equation.
// Height in cm, weight in kg.
func BMR(gender string, weightKg, heightCm float64, ageYears int) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if gender == "female" {
		return base - 161
	}
	return base + 5
}

// DailyNeeds derives the recommended daily intake from anthropometrics.
// Protein is 1.6 g per kg bodyweight; carbs take 45% of calories at 4 kcal/g
// and fat 25% at 9 kcal/g.
func DailyNeeds(gender string, weightKg, heightCm float64, ageYears int, activityLevel, goal string) (calories int, protein, carbs, fat float64) {
	am, ok := activityMultipliers[activityLevel]
	if !ok {
		am = 1.55
	}
	gm, ok := goalMultipliers[goal]
	if !ok {
		gm = 1.0
	}
	tdee := BMR(gender, weightKg, heightCm, ageYears) * am
	calories = int(tdee * gm)
	protein = math.Round(weightKg*1.6*10) / 10
	carbs = math.Round(float64(calories)*0.45/4*10) / 10
	fat = math.Round(float64(calories)*0.25/9*10) / 10
	return calories, protein, carbs, fat
}

// CalculateBMI expects height in centimeters and weight in kilograms.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}
	h := heightCm / 100.0
	return math.Round(weightKg/(h*h)*10) / 10, nil
}

// BMICategory uses the WHO Asia-Pacific cutoffs, which Korean health
// screenings follow.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "저체중"
	case bmi < 23.0:
		return "정상"
	case bmi < 25.0:
		return "과체중"
	case bmi < 30.0:
		return "비만"
	default:
		return "고도비만"
	}
}
