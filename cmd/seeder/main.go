// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/lavka-be/internal/adapters/db"
	redis_a "github.com/ammerola/lavka-be/internal/adapters/redis_adapter"
	"github.com/ammerola/lavka-be/internal/core/services"
	"github.com/ammerola/lavka-be/internal/pkg/config"
	"github.com/ammerola/lavka-be/internal/pkg/logger"
)

func main() {
	var (
		userID  = flag.String("user", "", "user ID to seed the starter catalog for")
		timeout = flag.Duration("timeout", 30*time.Second, "overall timeout")
	)
	flag.Parse()

	slogger := logger.SetupLogger("info", "text")

	if *userID == "" {
		slogger.Error("missing required -user flag")
		os.Exit(1)
	}

	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	log := slogger.Logger

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		Database:       cfg.Database.Name,
		SSLMode:        cfg.Database.SSLMode,
		MaxConnections: 5,
		MinConnections: 1,
		ConnectTimeout: cfg.Database.ConnectTimeout,
	}, log)
	if err != nil {
		slogger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slogger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	productRepo := db.NewProductRepository(database, log)
	kv := redis_a.NewKV(redisClient, log)
	feed := redis_a.NewFeed(redisClient, log)

	seeder := services.NewSeederService(productRepo, kv, feed, log)

	seeded, err := seeder.SeedIfEmpty(ctx, *userID)
	if err != nil {
		slogger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if seeded {
		slogger.Info("starter catalog seeded", slog.String("user_id", *userID))
	} else {
		slogger.Info("catalog not empty, nothing to do", slog.String("user_id", *userID))
	}
}
