package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	// Autoloads .env file to supply environment variables
	_ "github.com/joho/godotenv/autoload"

	"github.com/fitlife/backend/internal/auth"
	"github.com/fitlife/backend/internal/cache"
	"github.com/fitlife/backend/internal/database"
	"github.com/fitlife/backend/internal/dateutil"
	"github.com/fitlife/backend/internal/handlers/api"
	"github.com/fitlife/backend/internal/logger"
	"github.com/fitlife/backend/internal/middleware"
	"github.com/fitlife/backend/internal/ratelimit"
	"github.com/fitlife/backend/internal/schedule"
)

const (
	globalRateLimit  = 100
	globalRateWindow = time.Minute
)

func main() {
	log := logger.NewLogger()

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("unable to connect to database: %s", err)
	}
	if err := schedule.EnsureSeed(db); err != nil {
		log.Fatalf("unable to seed workout schedule: %s", err)
	}
	if err := auth.EnsureDefaultPassword(db); err != nil {
		log.Fatalf("unable to seed edit password: %s", err)
	}

	ctx := context.Background()
	handler := &api.Handler{Clock: dateutil.System, Log: log}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL != "" {
		sessions, err := auth.NewSessions(ctx, redisURL)
		if err != nil {
			log.Fatalf("unable to connect to redis: %s", err)
		}
		handler.Sessions = sessions

		limiter, err := ratelimit.New(ctx, redisURL)
		if err != nil {
			log.Fatalf("unable to connect to redis: %s", err)
		}
		handler.Limiter = limiter

		store, err := cache.NewRedisCache(ctx, redisURL)
		if err != nil {
			log.Fatalf("unable to connect to redis: %s", err)
		}
		handler.Cache = store
	} else {
		log.Warn("REDIS_URL not set; edit sessions, rate limits and the AI cache are disabled")
	}

	origins := []string{"*"}
	if val, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		origins = strings.Split(val, ",")
	}

	var apiHandler http.Handler = handler
	if handler.Limiter != nil {
		apiHandler = middleware.RateLimit(handler.Limiter, globalRateLimit, globalRateWindow, apiHandler)
	}
	apiHandler = middleware.CORS(origins, middleware.RequestLogger(log, apiHandler))

	mux := http.NewServeMux()
	mux.Handle("/api", apiHandler)
	mux.Handle("/health", middleware.RequestLogger(log, http.HandlerFunc(handler.Health)))

	port := ":8080"
	if val, ok := os.LookupEnv("PORT"); ok {
		port = ":" + val
	}
	log.Infof("starting server on %s", port)
	log.Fatal(http.ListenAndServe(port, mux)) //#nosec: G114
}
