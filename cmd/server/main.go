package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"nexus-auth/internal/config"
	apphttp "nexus-auth/internal/http"
	"nexus-auth/internal/metrics"
	"nexus-auth/internal/queue"
	"nexus-auth/internal/repository"
	"nexus-auth/internal/repository/file"
	"nexus-auth/internal/repository/sqlite"
	"nexus-auth/internal/security"
	"nexus-auth/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, events, pinger, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup store: %v", err)
	}

	tokens := security.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	authService := service.NewAuthService(users, events, tokens)
	profileService := service.NewProfileService(users, events)

	publisher := buildPublisher(cfg, logger)
	defer publisher.Close()

	metrics.MustRegister()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(authService, profileService, tokens, pinger, publisher, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (repository.UserRepository, repository.EventRepository, apphttp.Pinger, error) {
	switch cfg.Store.Backend {
	case "sqlite":
		db, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		users := sqlite.NewUserRepository(db)
		events := sqlite.NewEventRepository(db)
		if err := users.Init(ctx); err != nil {
			return nil, nil, nil, err
		}
		if err := events.Init(ctx); err != nil {
			return nil, nil, nil, err
		}
		logger.Infof("using sqlite store at %s", cfg.Store.SQLitePath)
		return users, events, users, nil
	default:
		store, err := file.Open(cfg.Store.FilePath)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := store.Init(ctx); err != nil {
			return nil, nil, nil, err
		}
		logger.Infof("using file store at %s", cfg.Store.FilePath)
		return store, store, store, nil
	}
}

func buildPublisher(cfg config.Config, logger *logrus.Logger) queue.Publisher {
	if cfg.Queue.URL == "" {
		return queue.NewNoop()
	}
	pub, err := queue.NewRabbit(cfg.Queue.URL, cfg.Queue.Exchange)
	if err != nil {
		logger.Warnf("rabbit connect failed, events disabled: %v", err)
		return queue.NewNoop()
	}
	logger.Infof("publishing auth events to exchange %s", cfg.Queue.Exchange)
	return pub
}
