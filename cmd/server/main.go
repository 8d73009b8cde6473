package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/kidlab/study-booking/internal/booking"
	"github.com/kidlab/study-booking/internal/config"
	"github.com/kidlab/study-booking/internal/database"
	"github.com/kidlab/study-booking/internal/handler"
	"github.com/kidlab/study-booking/internal/model"
	"github.com/kidlab/study-booking/internal/queue"
	"github.com/kidlab/study-booking/internal/repository"
	"github.com/kidlab/study-booking/internal/router"
	queue_publisher "github.com/kidlab/study-booking/internal/service"
	"github.com/kidlab/study-booking/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	adminRepo := repository.NewAdminRepo(db)
	if err := seedAdmin(ctx, cfg, adminRepo); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	slotRepo := repository.NewSlotRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	holds := booking.NewHoldManager(slotRepo)
	engine := booking.NewAssignmentEngine(slotRepo, bookingRepo, holds)
	notifier := queue_publisher.NewPublisher(cfg.NotifyAdminIWM, cfg.NotifyAdminSaarland)
	orchestrator := booking.NewOrchestrator(holds, engine, bookingRepo, notifier)

	// Redis may be absent; middleware degrades to pass-through on nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and response cache disabled")
	}

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, router.Handlers{
		Public:    handler.NewPublicHandler(slotRepo),
		Booking:   handler.NewBookingHandler(orchestrator),
		AdminAuth: handler.NewAdminAuthHandler(cfg, adminRepo),
		Admin:     handler.NewAdminHandler(slotRepo, bookingRepo, adminRepo),
	}, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedAdmin creates the bootstrap admin when the admins table is empty
// and ADMIN_EMAIL/ADMIN_PASSWORD are set.  The seeded admin has no
// location scope so it can manage every study site.
func seedAdmin(ctx context.Context, cfg config.Config, admins *repository.AdminRepo) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return nil
	}
	n, err := admins.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := utils.HashPassword(cfg.SeedAdminPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := admins.Create(ctx, &model.Admin{
		Email:    cfg.SeedAdminEmail,
		Password: hash,
		Name:     "Administrator",
	}); err != nil {
		return err
	}
	log.Printf("seeded bootstrap admin %s", cfg.SeedAdminEmail)
	return nil
}
