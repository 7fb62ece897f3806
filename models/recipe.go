package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecipeSearchHistory records recipe-video searches per user.
type RecipeSearchHistory struct {
	gorm.Model
	UserID uint   `gorm:"index;not null" json:"user_id"`
	Query  string `gorm:"type:text;not null" json:"query"`
}

// FavoriteRecipe is a bookmarked recipe video together with the AI summary
// captured at bookmark time.
type FavoriteRecipe struct {
	gorm.Model
	UserID uint `gorm:"not null;uniqueIndex:idx_fav_user_video" json:"user_id"`

	VideoID      string `gorm:"size:20;not null;uniqueIndex:idx_fav_user_video" json:"video_id"`
	Title        string `gorm:"size:200" json:"title"`
	ChannelName  string `gorm:"size:100" json:"channel_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Description  string `gorm:"type:text" json:"description"`

	ViewCount    int `gorm:"default:0" json:"view_count"`
	CommentCount int `gorm:"default:0" json:"comment_count"`

	// Recipe summary produced by the AI service, kept as stored JSON so
	// bookmarks survive prompt changes.
	RecipeIngredients datatypes.JSON `json:"recipe_ingredients"`
	RecipeSteps       datatypes.JSON `json:"recipe_steps"`
}
