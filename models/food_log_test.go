package models

import "testing"

func TestNutrientsScaled(t *testing.T) {
	per100 := Nutrients{
		Calories: 250,
		Protein:  10.5,
		Carbs:    33.3,
		Fat:      7,
		Sodium:   333,
	}

	got := per100.Scaled(150)
	if got.Calories != 375.0 {
		t.Errorf("calories = %v, want 375.0", got.Calories)
	}
	if got.Protein != 15.8 { // 10.5 * 1.5 = 15.75, rounds up
		t.Errorf("protein = %v, want 15.8", got.Protein)
	}
	if got.Carbs != 50.0 { // 33.3 * 1.5 = 49.95
		t.Errorf("carbs = %v, want 50.0", got.Carbs)
	}
	if got.Sodium != 499.5 {
		t.Errorf("sodium = %v, want 499.5", got.Sodium)
	}
}

func TestNutrientsScaledFullPortion(t *testing.T) {
	per100 := Nutrients{Calories: 52, Fat: 0.2}
	if got := per100.Scaled(100); got != per100 {
		t.Errorf("100g portion should reproduce per-100g values, got %+v", got)
	}
}

func TestNutrientsScaledZeroQuantity(t *testing.T) {
	per100 := Nutrients{Calories: 250, Protein: 10}
	got := per100.Scaled(0)
	if got.Calories != 0 || got.Protein != 0 {
		t.Errorf("zero quantity should zero the totals, got %+v", got)
	}
}

func TestClampNegatives(t *testing.T) {
	n := Nutrients{Calories: 100, Protein: -3, TransFat: -0.5, Water: 70}
	n.ClampNegatives()
	if n.Protein != 0 || n.TransFat != 0 {
		t.Errorf("negative fields not clamped: %+v", n)
	}
	if n.Calories != 100 || n.Water != 70 {
		t.Errorf("positive fields should be untouched: %+v", n)
	}
}

func TestRecomputeTotals(t *testing.T) {
	food := Food{Nutrients: Nutrients{Calories: 250, Protein: 20}}
	log := FoodLog{Quantity: 150}

	log.RecomputeTotals(&food)
	if log.Totals.Calories != 375.0 {
		t.Errorf("calories = %v, want 375.0", log.Totals.Calories)
	}
	if log.Totals.Protein != 30.0 {
		t.Errorf("protein = %v, want 30.0", log.Totals.Protein)
	}

	log.Quantity = 50
	log.RecomputeTotals(&food)
	if log.Totals.Calories != 125.0 {
		t.Errorf("calories after edit = %v, want 125.0", log.Totals.Calories)
	}
}

func TestValidMealType(t *testing.T) {
	for _, mt := range []string{MealBreakfast, MealLunch, MealDinner, MealSnack} {
		if !ValidMealType(mt) {
			t.Errorf("ValidMealType(%q) = false", mt)
		}
	}
	for _, mt := range []string{"", "brunch", "야식", "LUNCH"} {
		if ValidMealType(mt) {
			t.Errorf("ValidMealType(%q) = true", mt)
		}
	}
}
