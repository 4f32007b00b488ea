package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	api "leafscan-backend/cmd/api"
	authdomain "leafscan-backend/internal/auth/domain"
	authRepo "leafscan-backend/internal/auth/repository"
	authUsecase "leafscan-backend/internal/auth/usecase"
	historydomain "leafscan-backend/internal/history/domain"
	historyRepo "leafscan-backend/internal/history/repository"
	historyUsecase "leafscan-backend/internal/history/usecase"
	"leafscan-backend/internal/prediction/scheduler"
	predictionUsecase "leafscan-backend/internal/prediction/usecase"
	"leafscan-backend/pkg/classifier"
	"leafscan-backend/pkg/config"
	"leafscan-backend/pkg/database"
	"leafscan-backend/pkg/logging"

	"github.com/gin-gonic/gin"
)

// memoryDatabaseURL keeps users and history in process memory.
const memoryDatabaseURL = "memory://"

func main() {
	// Load configuration
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(context.Background(), "server stopped", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	for _, dir := range []string{cfg.UploadDir, cfg.ModelDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	// Initialize repositories (dependency injection)
	var (
		userRepo     authRepo.UserRepository
		analysisRepo historyRepo.AnalysisRepository
	)
	if strings.HasPrefix(cfg.DatabaseURL, memoryDatabaseURL) {
		log.Warn(ctx, "using in-memory storage, data is lost on restart")
		userRepo = authRepo.NewMemoryUserRepository()
		analysisRepo = historyRepo.NewMemoryAnalysisRepository()
	} else {
		db, err := database.NewPostgresConnection(cfg)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		// Auto-migrate database schemas
		if err := db.AutoMigrate(&authdomain.User{}, &historydomain.Analysis{}); err != nil {
			return err
		}
		userRepo = authRepo.NewUserRepository(db)
		analysisRepo = historyRepo.NewGormAnalysisRepository(db)
	}

	clf, err := classifier.New(classifier.Config{
		Provider:  classifier.ProviderType(cfg.ClassifierProvider),
		RemoteURL: cfg.ClassifierURL,
		Timeout:   cfg.ClassifierTimeout,
		Onnx: classifier.OnnxConfig{
			ModelPath:   filepath.Join(cfg.ModelDir, cfg.OnnxModelFile),
			LibraryPath: cfg.OnnxLibraryPath,
			InputName:   cfg.OnnxInputName,
			OutputName:  cfg.OnnxOutputName,
		},
	}, log)
	if err != nil {
		return err
	}
	if closer, ok := clf.(io.Closer); ok {
		defer closer.Close()
	}
	log.Info(ctx, "classifier ready", "provider", clf.Name(), "model_loaded", clf.IsReady())

	// Initialize use cases (dependency injection)
	authUc := authUsecase.NewAuthUsecase(userRepo, authUsecase.NewTokenIssuer(cfg.JWTSecret, cfg.TokenExpiry))
	historyUc := historyUsecase.NewHistoryUsecase(analysisRepo)
	predictionUc := predictionUsecase.NewPredictionUsecase(clf, historyUc, predictionUsecase.Options{
		UploadDir:      cfg.UploadDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, log)

	scheduler.NewUploadCleanupScheduler(cfg.UploadDir, cfg.UploadRetention, time.Hour, log).Start(ctx)

	// Initialize HTTP handler
	handler := api.NewHandler(authUc, predictionUc, historyUc, clf, cfg, log)
	return handler.Start(ctx, ":"+cfg.Port)
}
