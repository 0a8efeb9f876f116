package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/lab-freezer-inventory/internal/config"
	"github.com/iliyamo/lab-freezer-inventory/internal/database"
	"github.com/iliyamo/lab-freezer-inventory/internal/handler"
	"github.com/iliyamo/lab-freezer-inventory/internal/limiter"
	"github.com/iliyamo/lab-freezer-inventory/internal/middleware"
	"github.com/iliyamo/lab-freezer-inventory/internal/queue"
	"github.com/iliyamo/lab-freezer-inventory/internal/repository"
	"github.com/iliyamo/lab-freezer-inventory/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	// Two connection tiers: the restricted handle serves ordinary inventory
	// traffic, the privileged one runs migrations and user administration.
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	serviceDB := db
	if cfg.ServiceDatabaseURL != cfg.DatabaseURL {
		serviceDB, err = database.Open(cfg.ServiceDatabaseURL)
		if err != nil {
			log.Fatalf("open service database: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, serviceDB); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepo(serviceDB)
	tokens := repository.NewTokenRepo(db)
	freezers := repository.NewFreezerRepo(db)
	racks := repository.NewRackRepo(db)
	boxes := repository.NewBoxRepo(db)
	samples := repository.NewSampleRepo(db)
	history := repository.NewHistoryRepo(db)
	stats := repository.NewStatsRepo(db)

	seedAdmin(ctx, cfg, users)
	cancel()

	rdb := config.NewRedisClient()
	throttle := limiter.NewLoginThrottle(config.LoadLoginThrottleConfig(), rdb)

	// Secondary audit sink; the durable trail lives in sample_history.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, throttle), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminUserHandler(cfg, users), cfg.JWTSecret)
	router.RegisterInventory(e, router.InventoryHandlers{
		Freezers: handler.NewFreezerHandler(freezers),
		Racks:    handler.NewRackHandler(racks),
		Boxes:    handler.NewBoxHandler(boxes, samples),
		Samples:  handler.NewSampleHandler(samples, boxes),
		History:  handler.NewHistoryHandler(history),
		Search:   handler.NewSearchHandler(samples),
		Stats:    handler.NewStatsHandler(stats),
	}, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedAdmin provisions the first admin account on an empty users table so a
// fresh deployment can be logged into.  The password comes from
// INITIAL_ADMIN_PASSWORD; without it, seeding is skipped and registration is
// the only way in.
func seedAdmin(ctx context.Context, cfg config.Config, users *repository.UserRepo) {
	n, err := users.Count(ctx)
	if err != nil {
		log.Fatalf("count users: %v", err)
	}
	if n > 0 {
		return
	}
	if cfg.InitialAdminPass == "" {
		log.Printf("users table is empty and INITIAL_ADMIN_PASSWORD is unset; skipping admin seed")
		return
	}
	id, err := users.Create(ctx, "admin", "admin@localhost", cfg.InitialAdminPass, "admin", cfg.BcryptCost)
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	log.Printf("seeded initial admin account (id=%d)", id)
}
