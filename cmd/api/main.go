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

	"github.com/ioramishvili/GuestService/internal/cache"
	"github.com/ioramishvili/GuestService/internal/country"
	"github.com/ioramishvili/GuestService/internal/guest"
	"github.com/ioramishvili/GuestService/internal/http/handlers"
	mw "github.com/ioramishvili/GuestService/internal/http/middleware"
	"github.com/ioramishvili/GuestService/internal/http/response"
	"github.com/ioramishvili/GuestService/internal/repo/postgres"
	"github.com/ioramishvili/GuestService/pkg/config"
	"github.com/ioramishvili/GuestService/pkg/database"
	"github.com/ioramishvili/GuestService/pkg/logger"
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

	countryCache, err := newCache(cfg.Cache)
	if err != nil {
		logger.Error("Failed to initialize cache", "error", err)
		os.Exit(1)
	}

	names, err := country.NewDisplayNames(cfg.Country.Locale)
	if err != nil {
		logger.Error("Failed to initialize country names", "locale", cfg.Country.Locale, "error", err)
		os.Exit(1)
	}

	resolver := country.NewResolver(countryCache, country.PhoneParser{}, names,
		cfg.Country.Locale, cfg.Cache.TTL, logger.Default())

	guestRepo := postgres.NewGuestRepo(pool)
	guestService := guest.NewService(guestRepo, resolver, logger.Default())
	guestHandler := handlers.NewGuestHandler(guestService)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "x-partner-token"},
		MaxAge:         300,
	}))
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, "Not found.")
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(mw.PartnerToken(cfg.Auth.PartnerToken))
		r.Mount("/guest", guestHandler.Routes())
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

		logger.Info("Shutting down guest service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Guest service shutdown error", "error", err)
		}
	}()

	logger.Info("Starting guest service", "port", cfg.Server.Port, "cache", cfg.Cache.Driver)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Guest service error", "error", err)
		os.Exit(1)
	}
}

// newCache selects the country-lookup cache backend. Redis keeps entries
// consistent across worker processes; memory is enough for a single instance.
func newCache(cfg config.CacheConfig) (cache.Cache, error) {
	if cfg.Driver != "redis" {
		return cache.NewMemory(), nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	if cfg.RedisPassword != "" {
		opt.Password = cfg.RedisPassword
	}
	if cfg.RedisDB != 0 {
		opt.DB = cfg.RedisDB
	}

	return cache.NewRedis(redis.NewClient(opt), logger.Default()), nil
}
