package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"backend/models"
	"backend/utils"
)

// Match methods reported back to the client, in descending confidence.
const (
	MatchExact      = "exact"
	MatchEmbedding  = "embedding"
	MatchSimilarity = "string_similarity"
	MatchGenerated  = "llm_generated"
)

// ResolverService turns free-text meal descriptions into persisted food logs.
// Each extracted mention runs through the matcher strategies and, when all of
// them miss, a generative nutrition estimate that is added to the catalog.
type ResolverService struct {
	DB        *gorm.DB
	Gemini    *GeminiService
	Embedding *EmbeddingService
	Matcher   *MatcherService
	Nutrition *NutritionService
}

func NewResolverService(db *gorm.DB, gemini *GeminiService, embedding *EmbeddingService, nutrition *NutritionService) *ResolverService {
	return &ResolverService{
		DB:        db,
		Gemini:    gemini,
		Embedding: embedding,
		Matcher:   NewMatcherService(db, embedding),
		Nutrition: nutrition,
	}
}

// Resolve finds or creates the catalog entry for one food name and reports
// which strategy produced it. A strategy error is logged and treated as a
// miss so the next strategy still runs.
func (s *ResolverService) Resolve(ctx context.Context, name string) (*models.Food, string, error) {
	food, err := s.Matcher.FindExact(name)
	if err == nil {
		return food, MatchExact, nil
	}
	if !errors.Is(err, ErrNoMatch) {
		utils.Log.Warnw("exact match failed", "food", name, "error", err)
	}

	food, err = s.Matcher.FindByEmbedding(ctx, name)
	if err == nil {
		return food, MatchEmbedding, nil
	}
	if !errors.Is(err, ErrNoMatch) && !errors.Is(err, ErrEmbeddingUnavailable) {
		utils.Log.Warnw("embedding match failed", "food", name, "error", err)
	}

	food, err = s.Matcher.FindByStringSimilarity(name)
	if err == nil {
		return food, MatchSimilarity, nil
	}
	if !errors.Is(err, ErrNoMatch) {
		utils.Log.Warnw("string similarity match failed", "food", name, "error", err)
	}

	food, err = s.synthesize(ctx, name)
	if err != nil {
		return nil, "", fmt.Errorf("synthesize %q: %w", name, err)
	}
	return food, MatchGenerated, nil
}

// synthesize asks the model for a per-100g estimate and stores it as a new
// catalog row. The embedding is filled in best-effort so later queries can
// match the row semantically.
func (s *ResolverService) synthesize(ctx context.Context, name string) (*models.Food, error) {
	facts, err := s.Gemini.EstimateNutrition(ctx, name)
	if err != nil {
		return nil, err
	}

	food := models.Food{
		Name:        facts.Name,
		Nutrients:   facts.Nutrients,
		Category:    facts.Category,
		Subcategory: facts.Subcategory,
		FoodCode:    facts.FoodCode,
		Source:      facts.Source,
	}
	if vec, err := s.Embedding.Embed(ctx, food.Name); err == nil {
		food.Embedding = vec
	}
	if err := s.DB.Create(&food).Error; err != nil {
		return nil, fmt.Errorf("save generated food: %w", err)
	}
	utils.Log.Infow("generated catalog entry", "food", food.Name, "calories", food.Calories)
	return &food, nil
}

// SavedFood is one successfully logged mention in an analysis response.
type SavedFood struct {
	LogID        uint    `json:"log_id"`
	FoodName     string  `json:"food_name"`
	OriginalName string  `json:"original_name"`
	Quantity     float64 `json:"quantity"`
	MealType     string  `json:"meal_type"`
	MatchMethod  string  `json:"match_method"`
	Calories     float64 `json:"calories"`
}

// AnalysisResult itemizes what a free-text analysis saved and what it could
// not resolve.
type AnalysisResult struct {
	SavedFoods []SavedFood `json:"saved_foods"`
	NotFound   []string    `json:"not_found_foods"`
}

// AnalyzeText extracts every food mention from text, resolves each one
// independently, and writes a FoodLog per resolved mention. A mention that
// fails every strategy lands in NotFound; one bad mention never aborts the
// rest. Extraction failure aborts the whole call since there is nothing to
// resolve.
func (s *ResolverService) AnalyzeText(ctx context.Context, userID uint, text, language string) (*AnalysisResult, error) {
	extractions, err := s.Gemini.ExtractFoods(ctx, text, language)
	if err != nil {
		return nil, fmt.Errorf("extract foods: %w", err)
	}

	result := &AnalysisResult{SavedFoods: []SavedFood{}, NotFound: []string{}}
	now := time.Now()

	for _, ext := range extractions {
		mealType := ext.MealType
		if !models.ValidMealType(mealType) {
			mealType = models.MealLunch
		}

		food, method, err := s.Resolve(ctx, ext.FoodName)
		if err != nil {
			utils.Log.Warnw("food unresolved", "food", ext.FoodName, "error", err)
			result.NotFound = append(result.NotFound, ext.FoodName)
			continue
		}

		analysis, _ := json.Marshal(ext)
		log := models.FoodLog{
			UserID:       userID,
			FoodID:       food.ID,
			Quantity:     ext.Quantity,
			MealType:     mealType,
			OriginalText: text,
			AIAnalysis:   analysis,
			ConsumedAt:   now,
			ConsumedDate: dayOf(now),
		}
		log.RecomputeTotals(food)
		if err := s.DB.Create(&log).Error; err != nil {
			utils.Log.Errorw("food log save failed", "food", food.Name, "error", err)
			result.NotFound = append(result.NotFound, ext.FoodName)
			continue
		}

		result.SavedFoods = append(result.SavedFoods, SavedFood{
			LogID:        log.ID,
			FoodName:     food.Name,
			OriginalName: ext.FoodName,
			Quantity:     ext.Quantity,
			MealType:     mealType,
			MatchMethod:  method,
			Calories:     log.Totals.Calories,
		})
	}

	if len(result.SavedFoods) > 0 {
		s.Nutrition.Invalidate(ctx, userID, now)
	}
	return result, nil
}
