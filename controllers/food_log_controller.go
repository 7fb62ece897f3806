package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type FoodLogController struct {
	Resolver *services.ResolverService
	Logs     *services.FoodLogService
}

func NewFoodLogController(resolver *services.ResolverService, logs *services.FoodLogService) *FoodLogController {
	return &FoodLogController{Resolver: resolver, Logs: logs}
}

type AnalyzeInput struct {
	Text     string `json:"text" binding:"required"`
	Language string `json:"language"`
}

// AnalyzeFood runs the free-text pipeline: extract mentions, resolve each
// against the catalog, log the hits, and itemize the misses.
func (h *FoodLogController) AnalyzeFood(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input AnalyzeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Language == "" {
		input.Language = "ko"
	}

	result, err := h.Resolver.AnalyzeText(c.Request.Context(), userID, input.Text, input.Language)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListLogs returns the user's food logs for one day (default today).
func (h *FoodLogController) ListLogs(c *gin.Context) {
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

	logs, err := h.Logs.ListByDate(userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date.Format("2006-01-02"), "logs": logs})
}

type UpdateLogInput struct {
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

func (h *FoodLogController) UpdateLog(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	logID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	var input UpdateLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log, err := h.Logs.UpdateQuantity(c.Request.Context(), userID, uint(logID), input.Quantity)
	if err != nil {
		if errors.Is(err, services.ErrLogNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "food log not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *FoodLogController) DeleteLog(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	logID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	if err := h.Logs.Delete(c.Request.Context(), userID, uint(logID)); err != nil {
		if errors.Is(err, services.ErrLogNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "food log not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// --- helpers ---

func userIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case uint:
		return id, true
	case int:
		return uint(id), true
	case int64:
		return uint(id), true
	default:
		return 0, false
	}
}

// dateQuery parses a YYYY-MM-DD query param, defaulting to today.
func dateQuery(c *gin.Context, key string) (time.Time, error) {
	now := time.Now()
	v := c.DefaultQuery(key, now.Format("2006-01-02"))
	return time.ParseInLocation("2006-01-02", v, now.Location())
}
