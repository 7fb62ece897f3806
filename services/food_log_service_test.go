package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend/models"
)

func TestListByDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewFoodLogService(db, NewNutritionService(db, nil))
	now := time.Now()

	seedLog(t, db, 1, now, models.Nutrients{Calories: 100})
	seedLog(t, db, 1, now, models.Nutrients{Calories: 200})
	seedLog(t, db, 1, now.AddDate(0, 0, -1), models.Nutrients{Calories: 300})
	seedLog(t, db, 2, now, models.Nutrients{Calories: 400})

	logs, err := svc.ListByDate(1, now)
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d logs, want 2", len(logs))
	}
	if logs[0].ID > logs[1].ID {
		t.Errorf("logs should be oldest first")
	}
	if logs[0].Food.Name == "" {
		t.Errorf("catalog entry should be preloaded")
	}
}

func TestUpdateQuantityRecomputesTotals(t *testing.T) {
	db := newTestDB(t)
	svc := NewFoodLogService(db, NewNutritionService(db, nil))
	now := time.Now()

	seedLog(t, db, 1, now, models.Nutrients{Calories: 250, Protein: 20})
	var log models.FoodLog
	if err := db.First(&log).Error; err != nil {
		t.Fatalf("load seed: %v", err)
	}

	updated, err := svc.UpdateQuantity(context.Background(), 1, log.ID, 150)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if updated.Quantity != 150 {
		t.Errorf("quantity = %v, want 150", updated.Quantity)
	}
	if updated.Totals.Calories != 375.0 || updated.Totals.Protein != 30.0 {
		t.Errorf("totals not recomputed: %+v", updated.Totals)
	}

	var reloaded models.FoodLog
	if err := db.First(&reloaded, log.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Totals.Calories != 375.0 {
		t.Errorf("persisted totals = %v, want 375.0", reloaded.Totals.Calories)
	}
}

func TestUpdateQuantityRejectsOtherUsers(t *testing.T) {
	db := newTestDB(t)
	svc := NewFoodLogService(db, NewNutritionService(db, nil))

	seedLog(t, db, 1, time.Now(), models.Nutrients{Calories: 100})
	var log models.FoodLog
	if err := db.First(&log).Error; err != nil {
		t.Fatalf("load seed: %v", err)
	}

	if _, err := svc.UpdateQuantity(context.Background(), 2, log.ID, 50); !errors.Is(err, ErrLogNotFound) {
		t.Errorf("foreign log should be invisible, got %v", err)
	}
	if _, err := svc.UpdateQuantity(context.Background(), 1, log.ID, -5); err == nil {
		t.Error("non-positive quantity should be rejected")
	}
}

func TestDeleteRemovesFromAggregation(t *testing.T) {
	db := newTestDB(t)
	nutrition := NewNutritionService(db, nil)
	svc := NewFoodLogService(db, nutrition)
	now := time.Now()
	ctx := context.Background()

	seedLog(t, db, 1, now, models.Nutrients{Calories: 300})
	seedLog(t, db, 1, now, models.Nutrients{Calories: 200})
	var log models.FoodLog
	if err := db.First(&log).Error; err != nil {
		t.Fatalf("load seed: %v", err)
	}

	if err := svc.Delete(ctx, 1, log.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, 1, log.ID); !errors.Is(err, ErrLogNotFound) {
		t.Errorf("double delete should report not found, got %v", err)
	}

	totals, err := nutrition.DailyTotals(ctx, 1, now, SubsetBasic)
	if err != nil {
		t.Fatalf("DailyTotals: %v", err)
	}
	if totals.Calories != 200 {
		t.Errorf("deleted log still counted: %v", totals.Calories)
	}
}
