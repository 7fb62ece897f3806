package controllers

import (
	"math"
	"net/http"
	"time"

	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Nutrition *services.NutritionService
	Profile   *services.ProfileService
}

func NewDashboardController(nutrition *services.NutritionService, profile *services.ProfileService) *DashboardController {
	return &DashboardController{Nutrition: nutrition, Profile: profile}
}

func percentOf(value float64, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Round(value/target*1000) / 10
}

// TodayTotals returns the headline totals for one day next to the profile
// targets, with progress percentages.
func (h *DashboardController) TodayTotals(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date, err := dateQuery(c, "date")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	totals, err := h.Nutrition.DailyTotals(c.Request.Context(), userID, date, services.SubsetBasic)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.Profile.GetOrCreate(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date": date.Format("2006-01-02"),
		"totals": gin.H{
			"calories": totals.Calories,
			"protein":  totals.Protein,
			"carbs":    totals.Carbs,
			"fat":      totals.Fat,
			"fiber":    totals.Fiber,
			"sugar":    totals.Sugar,
			"sodium":   totals.Sodium,
		},
		"targets": gin.H{
			"calories": profile.DailyCalories,
			"protein":  profile.DailyProtein,
			"carbs":    profile.DailyCarbs,
			"fat":      profile.DailyFat,
		},
		"progress": gin.H{
			"calories": percentOf(totals.Calories, float64(profile.DailyCalories)),
			"protein":  percentOf(totals.Protein, profile.DailyProtein),
			"carbs":    percentOf(totals.Carbs, profile.DailyCarbs),
			"fat":      percentOf(totals.Fat, profile.DailyFat),
		},
	})
}

// DailyDetail returns every tracked nutrient summed for one day.
func (h *DashboardController) DailyDetail(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date, err := dateQuery(c, "date")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	totals, err := h.Nutrition.DailyTotals(c.Request.Context(), userID, date, services.SubsetFull)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.Profile.GetOrCreate(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     date.Format("2006-01-02"),
		"totals":   totals,
		"warnings": utils.AssessDailyIntake(*totals, profile),
	})
}

// DailySummaries returns per-day basic totals for a date range, defaulting to
// the last seven days.
func (h *DashboardController) DailySummaries(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	now := time.Now()
	fromStr := c.DefaultQuery("from", now.AddDate(0, 0, -6).Format("2006-01-02"))
	toStr := c.DefaultQuery("to", now.Format("2006-01-02"))

	from, err := time.ParseInLocation("2006-01-02", fromStr, now.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := time.ParseInLocation("2006-01-02", toStr, now.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "`to` must be on/after `from`"})
		return
	}

	summaries, err := h.Nutrition.DailySummaries(userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, gin.H{
			"date":      s.Date.Format("2006-01-02"),
			"calories":  s.Calories,
			"protein":   s.Protein,
			"carbs":     s.Carbs,
			"fat":       s.Fat,
			"fiber":     s.Fiber,
			"sugar":     s.Sugar,
			"sodium":    s.Sodium,
			"log_count": s.LogCount,
		})
	}
	c.JSON(http.StatusOK, gin.H{"from": fromStr, "to": toStr, "days": out})
}
