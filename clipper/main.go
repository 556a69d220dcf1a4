package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clipper/clipper/config"
	"clipper/clipper/controllers"
	"clipper/clipper/routes"
	"clipper/clipper/services/enrich"
	"clipper/clipper/services/extractor"
	"clipper/clipper/sources/psql"
	"clipper/clipper/sources/psql/dao"
	"clipper/clipper/sources/storage"
	"clipper/clipper/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logging.InitLogger()
	cfg := config.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	userDAO := dao.NewUserDAO(db.DB)
	apiKeyDAO := dao.NewAPIKeyDAO(db.DB)
	clipDAO := dao.NewClipDAO(db.DB)

	// Optional collaborators: image cache, JS renderer, AI enrichment.
	var cache *storage.MinIOClient
	if cfg.MinIOEndpoint != "" {
		cache, err = storage.NewMinIOClient(cfg)
		if err != nil {
			logging.ErrorLogger.Error("minio connection error", zap.Error(err))
			os.Exit(1)
		}
	}

	var renderer *extractor.Renderer
	if cfg.RenderJS {
		renderer, err = extractor.NewRenderer()
		if err != nil {
			logging.ErrorLogger.Error("renderer init error", zap.Error(err))
			os.Exit(1)
		}
		defer renderer.Close()
	}

	var enricher *enrich.Client
	if cfg.OpenAIKey != "" {
		enricher = enrich.NewClient(cfg.OpenAIKey, cfg.OpenAIModel)
	}

	merger := extractor.NewMerger()
	if cfg.MergeRulesPath != "" {
		if err := merger.LoadRules(cfg.MergeRulesPath); err != nil {
			logging.ErrorLogger.Error("merge rules load error", zap.Error(err))
			os.Exit(1)
		}
	}

	heavy := extractor.NewHeavyExtractor(merger, renderer)
	orch := extractor.NewOrchestrator(heavy, cfg.HeavyBudget, cfg.LightBudget)

	authCtrl := controllers.NewAuthController(userDAO, apiKeyDAO, cfg)
	clipCtrl := controllers.NewClipController(clipDAO)
	ingestCtrl := controllers.NewIngestController(orch, enricher, clipDAO, cache, cfg)
	healthCtrl := controllers.NewHealthController()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/auth", routes.AuthRoutes(authCtrl, apiKeyDAO, cfg))
	r.Mount("/api/clips", routes.ClipRoutes(ingestCtrl, clipCtrl, apiKeyDAO, cfg))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	logging.AppLogger.Info("server started", zap.String("port", cfg.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
