package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"backend/models"
	"backend/utils"
)

// NutrientSubset selects which columns a daily aggregation sums. Basic covers
// the dashboard headline figures; Full covers every tracked nutrient.
type NutrientSubset string

const (
	SubsetBasic NutrientSubset = "basic"
	SubsetFull  NutrientSubset = "full"
)

var basicColumns = []string{
	"calories", "protein", "carbs", "fat", "fiber", "sugar", "sodium",
}

var fullColumns = []string{
	"calories", "protein", "carbs", "fat", "fiber", "sugar",
	"sodium", "potassium", "calcium", "iron", "magnesium", "phosphorus",
	"zinc", "copper", "manganese", "selenium",
	"vitamin_a", "vitamin_b1", "vitamin_b2", "vitamin_b3", "vitamin_b6",
	"vitamin_b12", "vitamin_c", "vitamin_d", "vitamin_e", "vitamin_k",
	"folate", "choline",
	"beta_carotene", "niacin", "vitamin_d2", "vitamin_d3", "vitamin_k1", "vitamin_k2",
	"iodine", "fluorine", "chromium", "molybdenum", "chlorine",
	"cholesterol", "saturated_fat", "monounsaturated_fat", "polyunsaturated_fat",
	"omega3", "omega6", "trans_fat", "caffeine", "alcohol", "water", "ash",
}

// Cache TTLs: today's totals change as the user logs food, past days are
// effectively immutable.
const (
	todayTotalsTTL = time.Hour
	pastTotalsTTL  = 24 * time.Hour
)

// NutritionService aggregates the denormalized total_* columns of food logs
// per user per day, with a Redis read-through cache. A nil cache client
// disables caching without changing behavior.
type NutritionService struct {
	DB    *gorm.DB
	Cache *redis.Client
}

func NewNutritionService(db *gorm.DB, cache *redis.Client) *NutritionService {
	return &NutritionService{DB: db, Cache: cache}
}

func subsetColumns(subset NutrientSubset) []string {
	if subset == SubsetFull {
		return fullColumns
	}
	return basicColumns
}

func sumSelect(columns []string) string {
	exprs := make([]string, len(columns))
	for i, col := range columns {
		exprs[i] = fmt.Sprintf("COALESCE(SUM(total_%s), 0) AS %s", col, col)
	}
	return strings.Join(exprs, ", ")
}

// dayOf truncates a timestamp to local midnight.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func totalsCacheKey(userID uint, date time.Time, subset NutrientSubset) string {
	return fmt.Sprintf("nutrition:%d:%s:%s", userID, date.Format("2006-01-02"), subset)
}

func totalsTTL(date time.Time) time.Duration {
	if date.Format("2006-01-02") == time.Now().Format("2006-01-02") {
		return todayTotalsTTL
	}
	return pastTotalsTTL
}

// DailyTotals returns the summed totals for one user and day. Columns outside
// the subset stay zero.
func (s *NutritionService) DailyTotals(ctx context.Context, userID uint, date time.Time, subset NutrientSubset) (*models.Nutrients, error) {
	key := totalsCacheKey(userID, date, subset)
	if s.Cache != nil {
		if raw, err := s.Cache.Get(ctx, key).Result(); err == nil {
			var cached models.Nutrients
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var totals models.Nutrients
	err := s.DB.Model(&models.FoodLog{}).
		Select(sumSelect(subsetColumns(subset))).
		Where("user_id = ? AND date(consumed_date) = ?", userID, date.Format("2006-01-02")).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate daily totals: %w", err)
	}

	if s.Cache != nil {
		if raw, err := json.Marshal(totals); err == nil {
			if err := s.Cache.Set(ctx, key, raw, totalsTTL(date)).Err(); err != nil {
				utils.Log.Warnw("cache write failed", "key", key, "error", err)
			}
		}
	}
	return &totals, nil
}

// Invalidate drops the cached totals for one user and day, both subsets.
// Called after any write to that day's food logs.
func (s *NutritionService) Invalidate(ctx context.Context, userID uint, date time.Time) {
	if s.Cache == nil {
		return
	}
	keys := []string{
		totalsCacheKey(userID, date, SubsetBasic),
		totalsCacheKey(userID, date, SubsetFull),
	}
	if err := s.Cache.Del(ctx, keys...).Err(); err != nil {
		utils.Log.Warnw("cache invalidation failed", "keys", keys, "error", err)
	}
}

// DailySummary is one day's headline totals plus the number of logs.
type DailySummary struct {
	Date     time.Time `json:"date" gorm:"column:date"`
	Calories float64   `json:"calories" gorm:"column:calories"`
	Protein  float64   `json:"protein" gorm:"column:protein"`
	Carbs    float64   `json:"carbs" gorm:"column:carbs"`
	Fat      float64   `json:"fat" gorm:"column:fat"`
	Fiber    float64   `json:"fiber" gorm:"column:fiber"`
	Sugar    float64   `json:"sugar" gorm:"column:sugar"`
	Sodium   float64   `json:"sodium" gorm:"column:sodium"`
	LogCount int64     `json:"log_count" gorm:"column:log_count"`
}

// DailySummaries returns per-day basic totals for an inclusive date range,
// newest first. Days without logs are absent from the result.
func (s *NutritionService) DailySummaries(userID uint, from, to time.Time) ([]DailySummary, error) {
	var summaries []DailySummary
	err := s.DB.Model(&models.FoodLog{}).
		Select("consumed_date AS date, "+sumSelect(basicColumns)+", COUNT(*) AS log_count").
		Where("user_id = ? AND date(consumed_date) BETWEEN ? AND ?",
			userID, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Group("consumed_date").
		Order("consumed_date DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate daily summaries: %w", err)
	}
	return summaries, nil
}
