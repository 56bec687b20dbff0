package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minigram/internal/cache"
	"minigram/internal/config"
	"minigram/internal/database"
	"minigram/internal/handler"
	"minigram/internal/redis"
	"minigram/internal/repository"
	"minigram/internal/service"
)

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. Connect to Redis (optional; the following cache falls back to
	// the database when absent)
	var followingCache cache.FollowingCache
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = redisClient.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Printf("[Server] Redis unreachable, running without following cache: %v", err)
			redisClient.Close()
		} else {
			defer redisClient.Close()
			followingCache = cache.NewFollowingCache(redisClient.Client)
			log.Println("[Server] Following cache enabled")
		}
	}

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// 5. Services
	sessionService := service.NewSessionService(userRepo, cfg)
	userService := service.NewUserService(userRepo, followRepo)
	followService := service.NewFollowService(followRepo, userRepo, followingCache)
	postService := service.NewPostService(postRepo, commentRepo, userRepo)
	feedService := service.NewFeedService(postRepo, commentRepo, userRepo, followService)
	aiService := service.NewAIService(cfg)
	if !aiService.Enabled() {
		log.Println("[Server] GEMINI_API_KEY not set, AI endpoints will report errors")
	}

	// 6. Handlers
	var mediaHandler *handler.MediaHandler
	mediaService, err := service.NewMediaService(context.Background(), cfg)
	if err != nil {
		log.Printf("[Server] Media upload disabled: %v", err)
	} else {
		mediaHandler = handler.NewMediaHandler(mediaService)
	}

	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, followService, sessionService),
		PostHandler:    handler.NewPostHandler(postService, feedService),
		AIHandler:      handler.NewAIHandler(aiService),
		MediaHandler:   mediaHandler,
		Sessions:       sessionService,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// 7. Serve until interrupted
	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		log.Printf("[Server] Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
