package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Alexaslastina/makeadate/internal/handlers"
	"github.com/Alexaslastina/makeadate/internal/mailer"
	"github.com/Alexaslastina/makeadate/internal/repository"
	"github.com/Alexaslastina/makeadate/internal/service"
	"github.com/Alexaslastina/makeadate/pkg/config"
	"github.com/Alexaslastina/makeadate/pkg/database"
	"github.com/Alexaslastina/makeadate/pkg/events"
	"github.com/Alexaslastina/makeadate/pkg/logger"
	mw "github.com/Alexaslastina/makeadate/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	var eventBus events.EventBus
	if cfg.NATS.Enabled {
		natsBus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		if err := natsBus.Subscribe(events.OrderCreated, func(msg *events.Message) {
			logger.Info("Order created", "subject", msg.Subject, "payload", string(msg.Data))
		}); err != nil {
			logger.Warn("Failed to subscribe to order events", "error", err)
		}
		eventBus = natsBus
	} else {
		eventBus = events.NewNoopEventBus()
	}
	defer eventBus.Close()

	var rateLimitRepo repository.RateLimitRepository
	if redisOpts, err := redis.ParseURL(cfg.Redis.URL); err != nil {
		logger.Warn("Invalid Redis URL, rate limiting disabled", "error", err)
	} else {
		if cfg.Redis.Password != "" {
			redisOpts.Password = cfg.Redis.Password
		}
		redisOpts.DB = cfg.Redis.DB
		rateLimitRepo = repository.NewRateLimitRepository(redis.NewClient(redisOpts))
	}

	userRepo := repository.NewUserRepository(pool)
	resetRepo := repository.NewResetTokenRepository(pool)

	mailService := selectMailer(cfg)

	authService := service.NewAuthService(userRepo, resetRepo, mailService, eventBus, cfg)
	userService := service.NewUserService(userRepo, eventBus)

	h := handlers.New(authService, userService, rateLimitRepo, cfg)

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Frontend.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(h.RateLimit(10, time.Minute)).Post("/register", h.Register)
			r.With(h.RateLimit(10, time.Minute)).Post("/login", h.Login)
			r.With(h.RateLimit(5, time.Minute)).Post("/forgot-password", h.ForgotPassword)
			r.With(h.RateLimit(5, time.Minute)).Post("/reset-password", h.ResetPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequireJWT("admin"))
			r.Get("/", h.ListUsers)
			r.Get("/stats/overview", h.GetUserStats)
			r.Post("/", h.CreateUser)
			r.Get("/{email}", h.GetUserByEmail)
			r.Patch("/{id}/role", h.UpdateUserRole)
			r.Delete("/{id}", h.DeleteUser)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("API shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}

func selectMailer(cfg *config.Config) mailer.Service {
	switch {
	case cfg.Email.DevMode:
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	default:
		return mailer.NewSMTPMailer(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPFrom,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPass,
			cfg.Email.SMTPUseTLS,
		)
	}
}
