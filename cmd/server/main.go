package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/fueldist/fuel-token-backend/internal/config"
	"github.com/fueldist/fuel-token-backend/internal/database"
	"github.com/fueldist/fuel-token-backend/internal/handler"
	"github.com/fueldist/fuel-token-backend/internal/middleware"
	"github.com/fueldist/fuel-token-backend/internal/pricing"
	"github.com/fueldist/fuel-token-backend/internal/queue"
	"github.com/fueldist/fuel-token-backend/internal/repository"
	"github.com/fueldist/fuel-token-backend/internal/router"
	"github.com/fueldist/fuel-token-backend/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories.
	users := repository.NewUserRepo(db)
	authTokens := repository.NewAuthTokenRepo(db)
	omcs := repository.NewOMCRepo(db)
	stations := repository.NewStationRepo(db)
	catalogs := repository.NewCatalogRepo(db)
	prices := repository.NewStationPriceRepo(db)
	topology := repository.NewTopologyRepo(db)
	fuelTokens := repository.NewFuelTokenRepo(db)

	// Core services.
	resolver := pricing.NewResolver(prices, catalogs)
	redemption := service.NewRedemption(fuelTokens, users, stations, topology,
		catalogs, resolver, service.PublishSaleCompleted)

	// Redis is optional; without it the cache and limiter become no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// The consumer mirrors completed sales into logs/sales.log.
	go func() {
		if err := queue.StartSaleConsumer(); err != nil {
			log.Printf("sale consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, authTokens), cfg.JWTSecret)
	router.RegisterAttendant(e, handler.NewAttendantTokenHandler(redemption, fuelTokens),
		cfg.JWTSecret, limiter)
	router.RegisterDriver(e, handler.NewDriverTokenHandler(fuelTokens, stations),
		cfg.JWTSecret, limiter)
	router.RegisterAdmin(e,
		handler.NewAdminCatalogHandler(omcs, stations, catalogs, prices),
		handler.NewAdminTopologyHandler(topology, stations, catalogs, users),
		handler.NewAdminAttendantHandler(cfg, users, stations),
		handler.NewAdminTransactionHandler(fuelTokens, omcs, stations, users),
		cfg.JWTSecret, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
