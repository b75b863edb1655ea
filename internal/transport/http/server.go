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

	"buzzline/internal/cache"
	"buzzline/internal/config"
	"buzzline/internal/database"
	"buzzline/internal/handler"
	"buzzline/internal/queue"
	"buzzline/internal/redis"
	"buzzline/internal/service"
	"buzzline/internal/store"
	"buzzline/internal/worker"
)

// Run wires the whole application together: config, Postgres, Redis,
// stores, services, the engagement worker pool, and the HTTP server.
// It blocks until SIGINT/SIGTERM and shuts down gracefully.
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

	// 3. Connect to Redis
	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	log.Println("Connected to Redis successfully")

	// 4. Stores
	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	notifStore := store.NewNotificationStore(db)

	// 5. Redis-backed infrastructure
	timelineCache := cache.NewTimelineCache(redisClient.Client)
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)

	// 6. Services
	userService := service.NewUserService(userStore)
	followService := service.NewFollowService(userStore, publisher)
	postService := service.NewPostService(userStore, postStore, publisher)
	commentService := service.NewCommentService(userStore, postStore, publisher)
	feedService := service.NewFeedService(postStore, userStore, timelineCache)
	notifService := service.NewNotificationService(notifStore)

	// Media is optional; the server runs without object storage configured
	var mediaHandler *handler.MediaHandler
	mediaService, err := service.NewMediaService(context.Background(), cfg)
	if err != nil {
		log.Printf("Media uploads disabled: %v", err)
	} else {
		mediaHandler = handler.NewMediaHandler(mediaService)
	}

	// 7. Engagement worker pool
	workerHandler := worker.NewHandler(timelineCache, notifStore)
	manager := worker.NewManager(consumer, workerHandler, worker.ManagerConfig{
		WorkerCount: cfg.WorkerCount,
	})
	if err := manager.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	defer manager.Stop()

	// 8. HTTP server
	router := NewRouter(RouterConfig{
		AuthHandler:         handler.NewAuthHandler(userService),
		UserHandler:         handler.NewUserHandler(userService),
		FollowHandler:       handler.NewFollowHandler(followService),
		FeedHandler:         handler.NewFeedHandler(feedService),
		PostHandler:         handler.NewPostHandler(postService),
		CommentHandler:      handler.NewCommentHandler(commentService),
		MediaHandler:        mediaHandler,
		NotificationHandler: handler.NewNotificationHandler(notifService),
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Printf("Received signal %v, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
