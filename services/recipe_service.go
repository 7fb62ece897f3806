package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"backend/models"
	"backend/utils"
)

var (
	ErrFavoriteExists   = errors.New("recipe already bookmarked")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

const recipeSummaryTTL = 24 * time.Hour

// RecipeService drives the recipe feature: menu recommendations, video
// search with per-user history, AI summaries, and bookmarks.
type RecipeService struct {
	DB      *gorm.DB
	Gemini  *GeminiService
	YouTube *YouTubeService
	Cache   *redis.Client
}

func NewRecipeService(db *gorm.DB, gemini *GeminiService, youtube *YouTubeService, cache *redis.Client) *RecipeService {
	return &RecipeService{DB: db, Gemini: gemini, YouTube: youtube, Cache: cache}
}

// Search finds recipe videos for a dish and records the query in the user's
// search history. A history write failure is logged, not surfaced.
func (s *RecipeService) Search(ctx context.Context, userID uint, query string, maxResults int) ([]RecipeVideo, error) {
	videos, err := s.YouTube.SearchRecipes(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	history := models.RecipeSearchHistory{UserID: userID, Query: query}
	if err := s.DB.Create(&history).Error; err != nil {
		utils.Log.Warnw("search history save failed", "user_id", userID, "error", err)
	}
	return videos, nil
}

// History returns the user's most recent recipe searches, newest first.
func (s *RecipeService) History(userID uint, limit int) ([]models.RecipeSearchHistory, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var entries []models.RecipeSearchHistory
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("load search history: %w", err)
	}
	return entries, nil
}

// MenuRecommendation pairs one suggested menu with its top recipe videos.
type MenuRecommendation struct {
	Menu   string        `json:"menu"`
	Videos []RecipeVideo `json:"videos"`
}

// Recommend turns a free-text craving into menu suggestions, each with recipe
// videos attached. A menu whose video search fails is kept with an empty
// video list.
func (s *RecipeService) Recommend(ctx context.Context, userID uint, craving string) ([]MenuRecommendation, error) {
	menus, err := s.Gemini.RecommendMenus(ctx, craving)
	if err != nil {
		return nil, fmt.Errorf("recommend menus: %w", err)
	}

	history := models.RecipeSearchHistory{UserID: userID, Query: craving}
	if err := s.DB.Create(&history).Error; err != nil {
		utils.Log.Warnw("search history save failed", "user_id", userID, "error", err)
	}

	recommendations := make([]MenuRecommendation, 0, len(menus))
	for _, menu := range menus {
		videos, err := s.YouTube.SearchRecipes(ctx, menu, 3)
		if err != nil {
			utils.Log.Warnw("video search failed for menu", "menu", menu, "error", err)
			videos = []RecipeVideo{}
		}
		recommendations = append(recommendations, MenuRecommendation{Menu: menu, Videos: videos})
	}
	return recommendations, nil
}

// Summarize returns the AI summary of a recipe video, cached for a day per
// video.
func (s *RecipeService) Summarize(ctx context.Context, videoID, title string) (*RecipeSummary, error) {
	cacheKey := "youtube:summary:" + videoID
	if s.Cache != nil {
		if raw, err := s.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var cached RecipeSummary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.Gemini.SummarizeRecipe(ctx, videoID, title)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.Cache.Set(ctx, cacheKey, raw, recipeSummaryTTL).Err(); err != nil {
				utils.Log.Warnw("cache write failed", "key", cacheKey, "error", err)
			}
		}
	}
	return summary, nil
}

// FavoriteInput is the payload for bookmarking a video, summary included.
type FavoriteInput struct {
	VideoID      string   `json:"video_id" binding:"required"`
	Title        string   `json:"title"`
	ChannelName  string   `json:"channel_name"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Description  string   `json:"description"`
	ViewCount    int      `json:"view_count"`
	CommentCount int      `json:"comment_count"`
	Ingredients  []string `json:"ingredients"`
	Steps        []string `json:"steps"`
}

// AddFavorite bookmarks a video for the user. Bookmarking the same video
// twice returns ErrFavoriteExists.
func (s *RecipeService) AddFavorite(userID uint, in FavoriteInput) (*models.FavoriteRecipe, error) {
	var count int64
	s.DB.Model(&models.FavoriteRecipe{}).
		Where("user_id = ? AND video_id = ?", userID, in.VideoID).
		Count(&count)
	if count > 0 {
		return nil, ErrFavoriteExists
	}

	ingredients, _ := json.Marshal(in.Ingredients)
	steps, _ := json.Marshal(in.Steps)
	fav := models.FavoriteRecipe{
		UserID:            userID,
		VideoID:           in.VideoID,
		Title:             in.Title,
		ChannelName:       in.ChannelName,
		ThumbnailURL:      in.ThumbnailURL,
		Description:       in.Description,
		ViewCount:         in.ViewCount,
		CommentCount:      in.CommentCount,
		RecipeIngredients: ingredients,
		RecipeSteps:       steps,
	}
	if err := s.DB.Create(&fav).Error; err != nil {
		return nil, fmt.Errorf("save favorite: %w", err)
	}
	return &fav, nil
}

// ListFavorites returns the user's bookmarks, newest first.
func (s *RecipeService) ListFavorites(userID uint) ([]models.FavoriteRecipe, error) {
	var favs []models.FavoriteRecipe
	err := s.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&favs).Error
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	return favs, nil
}

// RemoveFavorite deletes one of the user's bookmarks by video ID.
func (s *RecipeService) RemoveFavorite(userID uint, videoID string) error {
	res := s.DB.Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&models.FavoriteRecipe{})
	if res.Error != nil {
		return fmt.Errorf("delete favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}
