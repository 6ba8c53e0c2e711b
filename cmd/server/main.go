package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/chakai/reservation-api/internal/capacity"
	"github.com/chakai/reservation-api/internal/config"
	"github.com/chakai/reservation-api/internal/database"
	"github.com/chakai/reservation-api/internal/handler"
	"github.com/chakai/reservation-api/internal/mailer"
	"github.com/chakai/reservation-api/internal/middleware"
	"github.com/chakai/reservation-api/internal/queue"
	"github.com/chakai/reservation-api/internal/repository"
	"github.com/chakai/reservation-api/internal/router"
	queuepub "github.com/chakai/reservation-api/internal/service"
	"github.com/chakai/reservation-api/migrations"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := migrations.Apply(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrations: %v", err)
	}
	cancel()

	// Repositories and the capacity ledger.
	eventRepo := repository.NewEventRepo(db)
	slotRepo := repository.NewSlotRepo(db)
	resRepo := repository.NewReservationRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	capSvc := capacity.NewService(repository.NewCapacityStore(db))

	seedAdmin(cfg, userRepo)

	// Background mail consumer; the HTTP side only enqueues.
	sender := &mailer.SMTPSender{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.MailFrom,
	}
	go func() {
		if err := queue.StartMailConsumer(sender); err != nil {
			log.Printf("mail consumer stopped: %v", err)
		}
	}()

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	adminH := handler.NewAdminHandler(cfg, eventRepo, slotRepo, resRepo, capSvc, queuepub.PublishBulkMail)
	publicH := handler.NewPublicHandler(eventRepo, slotRepo, resRepo, capSvc)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// Redis-backed response cache and rate limiting on the public side.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, cache)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// Uploaded event images are served straight from disk.
	e.Static(cfg.UploadBaseURL, cfg.UploadDir)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedAdmin provisions the bootstrap admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set and no such user exists yet. There is no
// self-service registration for admins.
func seedAdmin(cfg config.Config, users *repository.UserRepo) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := users.GetByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Printf("admin seed lookup failed: %v", err)
		return
	}
	if _, err := users.Create(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost); err != nil {
		log.Printf("admin seed failed: %v", err)
		return
	}
	log.Printf("seeded admin account %s", cfg.AdminEmail)
}
