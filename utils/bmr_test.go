package utils

import (
	"math"
	"testing"
)

func TestBMR(t *testing.T) {
	tests := []struct {
		name   string
		gender string
		weight float64
		height float64
		age    int
		want   float64
	}{
		{"male", "male", 70, 175, 30, 1648.75},
		{"female", "female", 70, 175, 30, 1482.75},
		{"unknown gender treated as male", "", 70, 175, 30, 1648.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BMR(tt.gender, tt.weight, tt.height, tt.age); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("BMR = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDailyNeeds(t *testing.T) {
	calories, protein, carbs, fat := DailyNeeds("male", 70, 175, 30, "moderate", "maintain_weight")

	// BMR 1648.75 * 1.55 = 2555.5625, truncated to int.
	if calories != 2555 {
		t.Errorf("calories = %d, want 2555", calories)
	}
	if protein != 112.0 {
		t.Errorf("protein = %v, want 112.0", protein)
	}
	if carbs != 287.4 {
		t.Errorf("carbs = %v, want 287.4", carbs)
	}
	if fat != 71.0 {
		t.Errorf("fat = %v, want 71.0", fat)
	}
}

func TestDailyNeedsGoalAdjustment(t *testing.T) {
	maintain, _, _, _ := DailyNeeds("male", 70, 175, 30, "moderate", "maintain_weight")
	lose, _, _, _ := DailyNeeds("male", 70, 175, 30, "moderate", "lose_weight")
	gain, _, _, _ := DailyNeeds("male", 70, 175, 30, "moderate", "gain_weight")

	if lose >= maintain {
		t.Errorf("lose_weight calories %d should be below maintain %d", lose, maintain)
	}
	if gain <= maintain {
		t.Errorf("gain_weight calories %d should be above maintain %d", gain, maintain)
	}
}

func TestDailyNeedsUnknownLevels(t *testing.T) {
	known, _, _, _ := DailyNeeds("male", 70, 175, 30, "moderate", "maintain_weight")
	unknown, _, _, _ := DailyNeeds("male", 70, 175, 30, "bogus", "bogus")
	if known != unknown {
		t.Errorf("unknown activity/goal should fall back to moderate/maintain: %d vs %d", unknown, known)
	}
}
