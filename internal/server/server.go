package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/georgem7154/once-upon-a-prompt/internal/ai"
	"github.com/georgem7154/once-upon-a-prompt/internal/config"
	"github.com/georgem7154/once-upon-a-prompt/internal/handler"
	storyHandler "github.com/georgem7154/once-upon-a-prompt/internal/handler/story"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/cache"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/imagegen"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/mongodb"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/safety"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/storage"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/storagefactory"
	storyRepo "github.com/georgem7154/once-upon-a-prompt/internal/repository/story"
	"github.com/georgem7154/once-upon-a-prompt/internal/server/middleware"
	storySvc "github.com/georgem7154/once-upon-a-prompt/internal/service/story"
)

// Server HTTP server
type Server struct {
	cfg       *config.Config
	engine    *gin.Engine
	mongo     *mongodb.Client
	redis     *cache.RedisCache
	artifacts storage.Storage
	writer    *ai.Writer
}

// New creates a server instance and wires its dependencies. MongoDB,
// Redis, blob storage and the LLM writer are all optional: a missing or
// failing backend logs a warning and the matching feature degrades.
func New(cfg *config.Config) (*Server, error) {
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// MongoDB (optional)
	var mongoClient *mongodb.Client
	if cfg.Mongo.URI != "" {
		client, err := mongodb.New(&cfg.Mongo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, continuing without it")
		} else {
			mongoClient = client
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

			if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
				log.Warn().Err(err).Msg("failed to ensure indexes")
			}
		}
	}

	// Redis (optional)
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	// Blob storage (optional)
	var artifacts storage.Storage
	if cfg.Storage.Type != "" {
		st, err := storagefactory.NewStorage(context.Background(), &cfg.Storage)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize artifact storage, continuing without it")
		} else {
			artifacts = st
			log.Info().Str("type", string(st.Type())).Msg("initialized artifact storage")
		}
	}

	// LLM writer (optional)
	var writer *ai.Writer
	if cfg.AI.APIKey != "" {
		w, err := ai.NewWriter(context.Background(), &cfg.AI)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize story writer, continuing without it")
		} else {
			writer = w
			log.Info().Str("provider", cfg.AI.Provider).Str("model", cfg.AI.Model).Msg("initialized story writer")
		}
	}

	srv := &Server{
		cfg:       cfg,
		engine:    engine,
		mongo:     mongoClient,
		redis:     redisCache,
		artifacts: artifacts,
		writer:    writer,
	}

	if err := srv.setupRoutes(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (s *Server) setupRoutes() error {
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	provider, err := imagegen.NewProvider(&s.cfg.Image)
	if err != nil {
		return err
	}
	generator := imagegen.NewRetryingGenerator(provider, safety.NewSanitizer(), imagegen.Policy{
		MaxRetries: s.cfg.Image.MaxRetries,
		Backoff:    s.cfg.Image.RetryBackoff,
	})

	var fragments storyRepo.FragmentRepository
	if s.mongo != nil {
		fragments = storyRepo.NewFragmentRepo(s.mongo.Database())
	} else {
		log.Warn().Msg("MongoDB not configured, story fragments will not be persisted")
	}

	// a typed nil *RedisCache would defeat the orchestrator's nil check
	var artifactCache storySvc.ArtifactCache
	if s.redis != nil {
		artifactCache = s.redis
	}

	orchestrator := storySvc.NewOrchestrator(storySvc.Options{
		Generator: generator,
		Moderator: safety.NewModerator(),
		Fragments: fragments,
		Artifacts: s.artifacts,
		Cache:     artifactCache,
	})

	storyHdl := storyHandler.NewHandler(orchestrator, s.writer, fragments)

	v1 := s.engine.Group("/api/v1")
	{
		v1.POST("/stories/generate", storyHdl.GenerateText)
		v1.POST("/stories/illustrate", storyHdl.Illustrate)
		v1.POST("/stories/illustrate/stream", storyHdl.IllustrateStream)
		v1.GET("/users/:user_id/stories/:story_id/fragments", storyHdl.ListFragments)
	}

	return nil
}

// Run starts the server and blocks until ctx is cancelled or the
// listener fails. Shutdown closes MongoDB and Redis connections.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		if s.mongo != nil {
			if err := s.mongo.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
