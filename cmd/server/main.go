package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopassist/internal/cache"
	"shopassist/internal/config"
	"shopassist/internal/handler"
	"shopassist/internal/logx"
	"shopassist/internal/repository"
	"shopassist/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load configuration")
	}

	logx.Init(logx.Options{
		Environment: cfg.Environment,
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
	})
	logx.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting furniture shopping assistant")

	gin.SetMode(cfg.Server.GinMode)
	ctx := context.Background()

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer repo.Close()
	logx.Info().Msg("connected to PostgreSQL database")

	// Hosted models are optional; a nil interface selects the fallback path.
	var intentModel service.IntentModel
	if cfg.OpenAI.Enabled {
		intentModel = service.NewOpenAIClient(&cfg.OpenAI)
		logx.Info().
			Str("api_base", cfg.OpenAI.APIBase).
			Str("model", cfg.OpenAI.ChatModel).
			Msg("intent model enabled")
	} else {
		logx.Warn().Msg("OPENAI_API_KEY not set, intent classification uses keyword rules only")
	}

	var visionModel service.VisionModel
	if cfg.Vision.Enabled {
		gemini, err := service.NewGeminiVision(ctx, &cfg.Vision)
		if err != nil {
			logx.Warn().Err(err).Msg("vision model unavailable, photo analysis disabled")
		} else {
			visionModel = gemini
			logx.Info().Str("model", cfg.Vision.Model).Msg("vision model enabled")
		}
	} else {
		logx.Warn().Msg("GEMINI_API_KEY not set, photo analysis disabled")
	}

	var searchCache service.SearchCache
	if cfg.Redis.URL != "" {
		client, err := cache.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logx.Warn().Err(err).Msg("redis unavailable, search cache disabled")
		} else {
			defer client.Close()
			searchCache = cache.NewSearchCache(client, cfg.Catalog.CacheTTL)
			logx.Info().Dur("ttl", cfg.Catalog.CacheTTL).Msg("search cache enabled")
		}
	}

	variants := service.NewVariantSynthesizer()
	assistant := service.NewAssistant(
		service.NewIntentClassifier(intentModel, cfg.Conversation.MaxTurns),
		service.NewVisualAnalyzer(visionModel),
		service.NewCatalogSearcher(repo, searchCache, service.DemoCatalog, cfg.Catalog.SearchLimit),
		service.NewResponseComposer(service.NewRanker(), variants, cfg.Catalog.ResponseLimit),
		repo,
	)
	products := service.NewProductService(repo, variants)

	router := gin.New()
	router.Use(gin.Logger(), gin.CustomRecovery(handler.RecoverWithError))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.SplitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = config.SplitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = config.SplitList(cfg.Server.AllowedHeaders)
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if err := repo.Ping(c.Request.Context()); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": "shopping-assistant",
			"version": Version,
			"features": gin.H{
				"intent_model": intentModel != nil,
				"vision":       visionModel != nil,
				"search_cache": searchCache != nil,
			},
		})
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.RegisterRoutes(router.Group("/api/v1"), handler.Handlers{
		Chat:      handler.NewChatHandler(assistant),
		Product:   handler.NewProductHandler(products),
		Embedding: handler.NewEmbeddingHandler(products, cfg.Embedding.Dimensions),
		Feedback:  handler.NewFeedbackHandler(products),
	})

	setupFallbackRoutes(router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logx.Info().Str("addr", addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logx.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("server forced to shut down")
	}
	logx.Info().Msg("server stopped")
}
