package utils

import (
	"testing"

	"backend/models"
)

func findWarning(ws []Warning, code string) *Warning {
	for i := range ws {
		if ws[i].Code == code {
			return &ws[i]
		}
	}
	return nil
}

func TestAssessDailyIntakeEmptyDay(t *testing.T) {
	if ws := AssessDailyIntake(models.Nutrients{}, nil); len(ws) != 0 {
		t.Errorf("empty day should produce no warnings, got %+v", ws)
	}
}

func TestAssessDailyIntakeSodium(t *testing.T) {
	ws := AssessDailyIntake(models.Nutrients{Sodium: 2500}, nil)
	w := findWarning(ws, "sodium_over_limit")
	if w == nil {
		t.Fatalf("expected sodium_over_limit, got %+v", ws)
	}
	if w.Severity != High || w.Limit != 2300 {
		t.Errorf("unexpected warning: %+v", w)
	}

	ws = AssessDailyIntake(models.Nutrients{Sodium: 2000}, nil)
	if findWarning(ws, "sodium_near_limit") == nil {
		t.Errorf("expected sodium_near_limit at 2000mg, got %+v", ws)
	}
	if findWarning(ws, "sodium_over_limit") != nil {
		t.Errorf("2000mg should not exceed the limit")
	}
}

func TestAssessDailyIntakeUsesProfileTarget(t *testing.T) {
	// 1600 kcal target: sugar limit 40g.
	profile := &models.Profile{DailyCalories: 1600}
	ws := AssessDailyIntake(models.Nutrients{Sugar: 45}, profile)
	w := findWarning(ws, "sugar_over_limit")
	if w == nil {
		t.Fatalf("expected sugar_over_limit, got %+v", ws)
	}
	if w.Limit != 40.0 {
		t.Errorf("limit = %v, want 40.0", w.Limit)
	}

	// Same intake under a 2400 kcal target (limit 60g) passes.
	profile.DailyCalories = 2400
	if ws := AssessDailyIntake(models.Nutrients{Sugar: 45}, profile); findWarning(ws, "sugar_over_limit") != nil {
		t.Errorf("45g sugar should pass a 2400 kcal target")
	}
}

func TestAssessDailyIntakeTransFat(t *testing.T) {
	ws := AssessDailyIntake(models.Nutrients{TransFat: 2.5}, nil)
	if findWarning(ws, "trans_fat_high") == nil {
		t.Errorf("expected trans_fat_high, got %+v", ws)
	}
}

func TestAssessDailyIntakeFiberNeedsLoggedDay(t *testing.T) {
	// Low fiber but barely any calories logged: no finding yet.
	ws := AssessDailyIntake(models.Nutrients{Calories: 400, Fiber: 2}, nil)
	if findWarning(ws, "fiber_low") != nil {
		t.Errorf("fiber check should wait for a mostly-logged day")
	}

	ws = AssessDailyIntake(models.Nutrients{Calories: 1800, Fiber: 2}, nil)
	if findWarning(ws, "fiber_low") == nil {
		t.Errorf("expected fiber_low on a fully logged day, got %+v", ws)
	}
}

func TestCalculateBMI(t *testing.T) {
	bmi, err := CalculateBMI(175, 70)
	if err != nil {
		t.Fatalf("CalculateBMI: %v", err)
	}
	if bmi != 22.9 {
		t.Errorf("bmi = %v, want 22.9", bmi)
	}

	if _, err := CalculateBMI(0, 70); err == nil {
		t.Error("zero height should error")
	}
	if _, err := CalculateBMI(175, 500); err == nil {
		t.Error("implausible weight should error")
	}
}

func TestBMICategory(t *testing.T) {
	tests := []struct {
		bmi  float64
		want string
	}{
		{17.0, "저체중"},
		{21.0, "정상"},
		{23.5, "과체중"},
		{27.0, "비만"},
		{32.0, "고도비만"},
	}
	for _, tt := range tests {
		if got := BMICategory(tt.bmi); got != tt.want {
			t.Errorf("BMICategory(%v) = %q, want %q", tt.bmi, got, tt.want)
		}
	}
}
