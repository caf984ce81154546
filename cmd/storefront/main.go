package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/session"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.MustValidate()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	r := repo.New(db)
	ready := []httpserver.Pinger{r}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	var store session.Store
	var redisStore *session.RedisStore
	switch cfg.SessionBackend {
	case "redis":
		redisStore = session.NewRedisStore(session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), cfg.SessionTTL)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisStore.Ping(pingCtx)
		pingCancel()
		if err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		store = redisStore
		ready = append(ready, redisStore)
	default:
		gormStore := session.NewGormStore(db, cfg.SessionTTL)
		go purgeSessions(bgCtx, gormStore, time.Hour)
		store = gormStore
	}

	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		if err := events.EnsureTopics(cfg.KafkaBrokers[0], events.Topics...); err != nil {
			logger.Warn("kafka_topics_error", "error", err)
		}
		prod, err := events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		pub = prod
	}

	authSvc := &service.AuthService{
		Repo:          r,
		Events:        pub,
		AccessSecret:  []byte(cfg.JWTAccessSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}

	e, err := httpserver.New(httpserver.Deps{
		Logger:       logger,
		Sessions:     session.NewManager(store, cfg.SessionTTL, cfg.CookieSecure),
		AuthMW:       authmw.NewAutoRefreshMiddleware(authSvc.AccessSecret, authSvc, cfg.CookieSecure),
		Catalog:      &service.CatalogService{Repo: r, Events: pub},
		Cart:         &service.CartService{Repo: r, Events: pub},
		Checkout:     &service.CheckoutService{Repo: r, Events: pub, LockTimeout: cfg.CheckoutLockTimeout},
		Orders:       &service.OrderService{Repo: r, Events: pub},
		Auth:         authSvc,
		Ready:        ready,
		CSRFEnabled:  cfg.CSRFEnabled,
		CookieSecure: cfg.CookieSecure,
		MediaRoot:    cfg.MediaRoot,
	})
	if err != nil {
		log.Fatalf("http server: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_started", "addr", srv.Addr, "db_driver", cfg.DBDriver, "session_backend", cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")
	stopBackground()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	if redisStore != nil {
		if err := redisStore.Close(); err != nil {
			logger.Error("redis_close_error", "error", err)
		}
	}
	if err := pub.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}

func purgeSessions(ctx context.Context, s *session.GormStore, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.PurgeExpired(ctx)
			if err != nil {
				slog.Error("session_purge_error", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("session_purge", "removed", n)
			}
		}
	}
}
