// Package main is the entry point for the piadas API server.
// It initializes all dependencies and starts the HTTPS server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"piadas/src/app/server"
	"piadas/src/core/ports"
	"piadas/src/infra/auth"
	"piadas/src/infra/cache"
	"piadas/src/infra/config"
	"piadas/src/infra/db"
	"piadas/src/infra/logger"
	"piadas/src/infra/ratelimit"
	"piadas/src/infra/repo"
)

func main() {
	if err := run(); err != nil {
		log.Printf("fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log)
	log.Info("starting application",
		"port", cfg.Server.Port,
		"log_level", cfg.Log.Level,
		"rate_limit_backend", cfg.RateLimit.Backend,
	)

	ctx := context.Background()

	pg, err := db.New(ctx, cfg.Database, logger.WithComponent(log, "db"))
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.Bootstrap(ctx); err != nil {
		return err
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.Cache.URL, logger.WithComponent(log, "cache"))
	if err != nil {
		return err
	}
	defer rdb.Close()

	var limiter ports.RateLimiter
	switch cfg.RateLimit.Backend {
	case "redis":
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	case "memory":
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	default:
		return fmt.Errorf("unknown rate limit backend %q", cfg.RateLimit.Backend)
	}

	store := repo.NewPostgresRepository(pg, logger.WithComponent(log, "repo"))
	searchCache := cache.NewRedisCache(rdb, logger.WithComponent(log, "cache"))

	srv := server.New(cfg, log, server.Deps{
		Users:   store,
		Jokes:   store,
		Cache:   searchCache,
		Limiter: limiter,
		Hasher:  auth.NewBcryptHasher(0),
		Tokens:  auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Components: map[string]ports.ExternalService{
			"database": pg,
			"cache":    searchCache,
		},
	})

	// Run blocks until shutdown signal is received
	return srv.Run()
}
