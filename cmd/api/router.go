package api

import (
	"leafscan-backend/internal/auth/delivery"
	authUsecase "leafscan-backend/internal/auth/usecase"
	historyDelivery "leafscan-backend/internal/history/delivery"
	historyUsecase "leafscan-backend/internal/history/usecase"
	predictionDelivery "leafscan-backend/internal/prediction/delivery"
	predictionUsecase "leafscan-backend/internal/prediction/usecase"
	"leafscan-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, predictionUsecase predictionUsecase.PredictionUsecase, historyUsecase historyUsecase.HistoryUsecase, settingsHandler *SettingsHandler, cfg *config.Config) {
	authHandler := delivery.NewAuthHandler(authUsecase)
	predictionHandler := predictionDelivery.NewPredictionHandler(predictionUsecase, cfg.MaxUploadBytes)
	historyHandler := historyDelivery.NewHistoryHandler(historyUsecase)

	// Health check (no auth required)
	r.GET("/health", predictionHandler.Health)

	// Auth routes
	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)
	r.GET("/me", delivery.AuthMiddleware(authUsecase), authHandler.Me)

	// Prediction (protected): the guard runs before any upload handling
	r.POST("/predict", delivery.AuthMiddleware(authUsecase), predictionHandler.Predict)

	// History routes (protected)
	history := r.Group("/history")
	history.Use(delivery.AuthMiddleware(authUsecase))
	{
		history.GET("", historyHandler.List)
		history.GET("/stats", historyHandler.Stats)
		history.GET("/export", historyHandler.Export)
		history.DELETE("/:id", historyHandler.Delete)
	}

	// Settings routes (protected) - classifier status
	settings := r.Group("/settings")
	settings.Use(delivery.AuthMiddleware(authUsecase))
	{
		settings.GET("/classifier", settingsHandler.GetClassifierSettings)
		settings.POST("/classifier/test", settingsHandler.TestClassifierConnection)
	}
}
