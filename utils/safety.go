package utils

import (
	"fmt"

	"backend/models"
)

// WarningSeverity categorizes how serious a dietary finding is.
type WarningSeverity string

const (
	Info    WarningSeverity = "info"
	Caution WarningSeverity = "caution"
	High    WarningSeverity = "high"
)

// Warning is a structured dietary finding suitable for the API response.
type Warning struct {
	Code     string          `json:"code"`
	Severity WarningSeverity `json:"severity"`
	Message  string          `json:"message"`
	Metric   string          `json:"metric"`
	Value    float64         `json:"value"`
	Limit    float64         `json:"limit"`
}

// sodiumLimitByAge returns the daily sodium limit in mg (CDRR).
func sodiumLimitByAge(ageYears int) float64 {
	switch {
	case ageYears <= 0:
		return 2300
	case ageYears <= 3:
		return 1200
	case ageYears <= 8:
		return 1500
	case ageYears <= 13:
		return 1800
	default:
		return 2300
	}
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// AssessDailyIntake runs rule-based checks over one day's summed totals
// against the profile's calorie target. Rules only fire on values that are
// actually present; an empty day produces no findings.
func AssessDailyIntake(totals models.Nutrients, profile *models.Profile) []Warning {
	warnings := []Warning{}

	kcalTarget := 2000.0
	age := 30
	if profile != nil {
		if profile.DailyCalories > 0 {
			kcalTarget = float64(profile.DailyCalories)
		}
		age = profile.Age()
	}

	// Sodium against the age-specific daily limit.
	sodLimit := sodiumLimitByAge(age)
	if totals.Sodium >= sodLimit {
		warnings = append(warnings, Warning{
			Code:     "sodium_over_limit",
			Severity: High,
			Message:  fmt.Sprintf("오늘 나트륨 섭취가 일일 권장 한도를 넘었어요 (%.0f/%.0fmg).", totals.Sodium, sodLimit),
			Metric:   "sodium_mg",
			Value:    round2(totals.Sodium),
			Limit:    sodLimit,
		})
	} else if totals.Sodium >= 0.8*sodLimit {
		warnings = append(warnings, Warning{
			Code:     "sodium_near_limit",
			Severity: Caution,
			Message:  fmt.Sprintf("나트륨 섭취가 일일 한도의 80%%를 넘었어요 (%.0fmg).", totals.Sodium),
			Metric:   "sodium_mg",
			Value:    round2(totals.Sodium),
			Limit:    sodLimit,
		})
	}

	// Sugars at most 10% of daily calories (4 kcal per gram).
	sugarLimitG := 0.10 * kcalTarget / 4.0
	if totals.Sugar >= sugarLimitG {
		warnings = append(warnings, Warning{
			Code:     "sugar_over_limit",
			Severity: High,
			Message:  fmt.Sprintf("당류 섭취가 하루 권장량을 넘었어요 (%.1f/%.1fg).", totals.Sugar, sugarLimitG),
			Metric:   "sugar_g",
			Value:    round2(totals.Sugar),
			Limit:    round2(sugarLimitG),
		})
	}

	// Saturated fat at most 10% of daily calories (9 kcal per gram).
	satFatLimitG := 0.10 * kcalTarget / 9.0
	if totals.SaturatedFat >= satFatLimitG {
		warnings = append(warnings, Warning{
			Code:     "saturated_fat_over_limit",
			Severity: Caution,
			Message:  fmt.Sprintf("포화지방 섭취가 하루 권장량을 넘었어요 (%.1f/%.1fg).", totals.SaturatedFat, satFatLimitG),
			Metric:   "saturated_fat_g",
			Value:    round2(totals.SaturatedFat),
			Limit:    round2(satFatLimitG),
		})
	}

	// Any meaningful trans fat is worth flagging.
	if totals.TransFat >= 2.0 {
		warnings = append(warnings, Warning{
			Code:     "trans_fat_high",
			Severity: High,
			Message:  fmt.Sprintf("트랜스지방 섭취가 많아요 (%.1fg).", totals.TransFat),
			Metric:   "trans_fat_g",
			Value:    round2(totals.TransFat),
			Limit:    2.0,
		})
	}

	// Fiber check only once most of the day's calories are logged, so a
	// single salad at breakfast doesn't trigger it.
	fiberTargetG := 14.0 * kcalTarget / 1000.0
	if totals.Calories >= 0.75*kcalTarget && totals.Fiber < 0.5*fiberTargetG {
		warnings = append(warnings, Warning{
			Code:     "fiber_low",
			Severity: Info,
			Message:  fmt.Sprintf("식이섬유 섭취가 부족해요 (%.1f/%.1fg).", totals.Fiber, fiberTargetG),
			Metric:   "fiber_g",
			Value:    round2(totals.Fiber),
			Limit:    round2(fiberTargetG),
		})
	}

	return warnings
}
