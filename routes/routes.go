package routes

import (
	"backend/config"
	"backend/controllers"
	"backend/middlewares"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

func SetupRouter() (*gin.Engine, error) {
	gemini, err := services.NewGeminiService(services.GeminiModelFlash)
	if err != nil {
		return nil, err
	}
	recipeAI, err := services.NewGeminiService(services.GeminiModelFlashLite)
	if err != nil {
		return nil, err
	}

	embedding := services.NewEmbeddingService()
	nutrition := services.NewNutritionService(config.DB, config.Cache)
	resolver := services.NewResolverService(config.DB, gemini, embedding, nutrition)
	foodLogs := services.NewFoodLogService(config.DB, nutrition)
	profiles := services.NewProfileService(config.DB)

	logCtrl := controllers.NewFoodLogController(resolver, foodLogs)
	dashCtrl := controllers.NewDashboardController(nutrition, profiles)
	profileCtrl := controllers.NewProfileController(profiles)

	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/profile", profileCtrl.GetProfile)
		api.PUT("/profile", profileCtrl.UpdateProfile)

		api.POST("/foods/analyze", logCtrl.AnalyzeFood)
		api.GET("/logs", logCtrl.ListLogs)
		api.PATCH("/logs/:id", logCtrl.UpdateLog)
		api.DELETE("/logs/:id", logCtrl.DeleteLog)

		api.GET("/dashboard/today", dashCtrl.TodayTotals)
		api.GET("/dashboard/detail", dashCtrl.DailyDetail)
		api.GET("/dashboard/summary", dashCtrl.DailySummaries)
	}

	// Recipe routes need the YouTube key; skip them when it is absent so the
	// nutrition core still serves.
	if youtube, err := services.NewYouTubeService(config.Cache); err != nil {
		utils.Log.Warnw("recipe routes disabled", "error", err)
	} else {
		recipes := services.NewRecipeService(config.DB, recipeAI, youtube, config.Cache)
		recipeCtrl := controllers.NewRecipeController(recipes)

		rec := r.Group("/api/recipes")
		rec.Use(middlewares.AuthMiddleware())
		{
			rec.GET("/search", recipeCtrl.SearchRecipes)
			rec.POST("/recommend", recipeCtrl.Recommend)
			rec.POST("/summarize", recipeCtrl.Summarize)
			rec.GET("/history", recipeCtrl.History)
			rec.GET("/favorites", recipeCtrl.ListFavorites)
			rec.POST("/favorites", recipeCtrl.AddFavorite)
			rec.DELETE("/favorites/:videoId", recipeCtrl.RemoveFavorite)
		}
	}

	return r, nil
}
