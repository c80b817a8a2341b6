package main

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/appointment"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/auth"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/billing"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/config"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/doctor"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/events"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/router"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/upload"
	"github.com/HarisShah1122/prescription-full-stack-doctor-appointment-app/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	// Serving against a broken store helps nobody; fail fast.
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error creating pgx pool: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("error pinging database: %v", err)
	}

	tokens := auth.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	slotCache, err := doctor.NewSlotCache(cfg.Cache.Enabled, cfg.Cache.Size)
	if err != nil {
		log.Fatalf("slot cache: %v", err)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		p, err := events.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer p.Close()
		publisher = p
		log.Println("publishing appointment events to", cfg.RabbitMQ.Queue)
	}

	userRepo := user.NewRepository(pool)
	doctorRepo := doctor.NewRepository(pool)
	aptRepo := appointment.NewRepository(pool, userRepo, doctorRepo)
	uploader := upload.NewClient(cfg.Upload.URL, cfg.Upload.Key)
	stripe := billing.NewStripeClient(cfg.Stripe.SecretKey)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"success": false, "message": message})
		},
	})

	app.Use(router.CorsMiddleware(cfg.HTTP.CORSOrigin))
	app.Use(router.RequestLogger())
	app.Use(router.RequestTimeout(cfg.HTTP.RequestTimeout))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API Working")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})

	r := &router.Router{
		Users:        user.NewHandler(userRepo, tokens, uploader),
		Doctors:      doctor.NewHandler(doctorRepo, slotCache),
		Appointments: appointment.NewHandler(aptRepo, slotCache, publisher, pool),
		Billing:      billing.NewHandler(aptRepo, stripe, cfg.Currency, publisher, pool),
		Verifier:     tokens,
		AdminAPIKey:  cfg.AdminAPIKey,
	}
	r.RegisterRoutes(app)

	log.Println("Listening on port", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
