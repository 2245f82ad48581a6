package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gokulprasathd90/event-ticketing/config"
	"github.com/gokulprasathd90/event-ticketing/internal/cache"
	"github.com/gokulprasathd90/event-ticketing/internal/database"
	"github.com/gokulprasathd90/event-ticketing/internal/handler"
	"github.com/gokulprasathd90/event-ticketing/internal/repository"
	"github.com/gokulprasathd90/event-ticketing/internal/service"
	"github.com/gokulprasathd90/event-ticketing/migrations"
	"github.com/gokulprasathd90/event-ticketing/pkg/auth"
	"github.com/gokulprasathd90/event-ticketing/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	log := logger.WithComponent("server")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	gin.SetMode(cfg.Server.Mode)

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := migrations.Apply(context.Background(), pool); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiration)

	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	registrationRepo := repository.NewRegistrationRepository(pool)

	eventCache := cache.NewRedisEventCache(rdb, cfg.Cache.EventTTL)

	authService := service.NewAuthService(userRepo, tokens)
	eventService := service.NewEventService(eventRepo, registrationRepo, eventCache)
	registrationService := service.NewRegistrationService(pool, registrationRepo, eventRepo, eventCache)

	router := gin.New()
	router.Use(handler.RequestLogger(), handler.CORS(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler.NewAuthHandler(authService, tokens).RegisterRoutes(router)
	handler.NewEventHandler(eventService, tokens).RegisterRoutes(router)
	handler.NewRegistrationHandler(registrationService, tokens).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
