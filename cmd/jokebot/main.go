package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/jokepay/jokebot/internal/api"
	"github.com/jokepay/jokebot/internal/client"
	"github.com/jokepay/jokebot/internal/config"
	"github.com/jokepay/jokebot/internal/logger"
	"github.com/jokepay/jokebot/internal/payment"
	"github.com/jokepay/jokebot/internal/service"
	"github.com/jokepay/jokebot/internal/stats"
	"github.com/jokepay/jokebot/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadAll()
	if err != nil {
		log.Fatal(err)
	}

	appLogger := logger.New(cfg.LogLevel)
	slog.SetDefault(appLogger)

	paidStore, cleanup, err := newPaidStore(cfg, appLogger)
	if err != nil {
		appLogger.Error("store init failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	checkout := payment.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Server.BaseURL)
	twilio := client.NewTwilioClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken)

	replier := service.NewReplier(paidStore, checkout, twilio, appLogger)
	confirmer := service.NewConfirmer(paidStore, checkout, twilio, cfg.Twilio.Sender, appLogger)

	reporter, err := stats.NewReporter(paidStore, cfg.Stats.Interval, appLogger)
	if err != nil {
		appLogger.Error("reporter init failed", "error", err)
		os.Exit(1)
	}
	reporter.Start()
	defer reporter.Stop()

	handler := api.NewHandler(replier, confirmer, appLogger)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: loggingMiddleware(api.Router(handler)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		appLogger.Info("jokebot listening",
			"addr", cfg.Server.Address,
			"base_url", cfg.Server.BaseURL,
			"sender", cfg.Twilio.Sender,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("shutdown error", "error", err)
	}
}

// newPaidStore picks the paid-identity backend from config. Postgres wins
// over Redis; with neither configured the set lives in memory and resets
// on restart.
func newPaidStore(cfg *config.Config, logger *slog.Logger) (store.PaidStore, func(), error) {
	switch {
	case cfg.Store.PostgresURL != "":
		db, err := sql.Open("pgx", cfg.Store.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using postgres paid store")
		return store.NewPostgresStore(db), func() { _ = db.Close() }, nil

	case cfg.Store.RedisAddr != "":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		})
		logger.Info("using redis paid store", "addr", cfg.Store.RedisAddr)
		return store.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil

	default:
		logger.Info("using in-memory paid store, paid users reset on restart")
		return store.NewMemoryStore(), func() {}, nil
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
