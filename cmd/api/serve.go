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

	"ecopark/internal/auth"
	"ecopark/internal/config"
	"ecopark/internal/database"
	"ecopark/internal/logger"
	"ecopark/internal/notify"
	"ecopark/internal/session"
	"ecopark/internal/websocket"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
)

const requestEventStream = "ecopark.requests"

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Start the HTTP server",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "migrate",
			Usage: "run schema migrations before serving",
			Value: true,
		},
	},
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	if cCtx.Bool("migrate") {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	rdb, err := connectRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	deps := routerDeps{
		cfg:      cfg,
		db:       db,
		tokens:   auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.JWTTTL),
		sessions: sessionStore(ctx, rdb),
		hub:      hub,
		rdb:      rdb,
	}
	deps.publisher = notify.Fanout{hub}
	if rdb != nil {
		deps.publisher = notify.Fanout{hub, notify.NewRedisStream(rdb, requestEventStream)}
	}

	router, err := newRouter(deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		logger.Log.Info("REDIS_URL not set, using in-memory sessions and rate limits")
		return nil, nil
	}
	rdb, err := session.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	logger.Log.Info("connected to redis")
	return rdb, nil
}

// sessionStore picks the revocation store. The in-memory store is swept
// hourly until ctx ends.
func sessionStore(ctx context.Context, rdb *redis.Client) session.Store {
	if rdb != nil {
		return session.NewRedisStore(rdb)
	}

	store := session.NewMemoryStore()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				store.Sweep()
			}
		}
	}()
	return store
}
