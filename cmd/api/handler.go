package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	authUsecase "leafscan-backend/internal/auth/usecase"
	historyUsecase "leafscan-backend/internal/history/usecase"
	predictionUsecase "leafscan-backend/internal/prediction/usecase"
	"leafscan-backend/pkg/apperr"
	"leafscan-backend/pkg/classifier"
	"leafscan-backend/pkg/config"
	"leafscan-backend/pkg/logging"
	"leafscan-backend/pkg/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

type Handler struct {
	authUsecase       authUsecase.AuthUsecase
	predictionUsecase predictionUsecase.PredictionUsecase
	historyUsecase    historyUsecase.HistoryUsecase
	settingsHandler   *SettingsHandler
	config            *config.Config
	log               logging.Logger
}

func NewHandler(authUc authUsecase.AuthUsecase, predictionUc predictionUsecase.PredictionUsecase, historyUc historyUsecase.HistoryUsecase, clf classifier.Classifier, cfg *config.Config, log logging.Logger) *Handler {
	return &Handler{
		authUsecase:       authUc,
		predictionUsecase: predictionUc,
		historyUsecase:    historyUc,
		settingsHandler:   NewSettingsHandler(clf, cfg),
		config:            cfg,
		log:               log,
	}
}

// Engine builds the Gin engine with middleware and routes.
func (h *Handler) Engine() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = h.config.MaxUploadBytes

	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.log.Error(c.Request.Context(), "panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		response.Abort(c, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
	}))
	r.Use(logging.GinMiddleware(h.log))
	r.Use(cors.New(corsConfig(h.config.AllowedOrigins)))

	SetupRoutes(r, h.authUsecase, h.predictionUsecase, h.historyUsecase, h.settingsHandler, h.config)
	return r
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.log.Info(ctx, "server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	h.log.Info(context.Background(), "server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
