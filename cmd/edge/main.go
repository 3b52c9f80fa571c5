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

	"github.com/stayhaven/edge/internal/address"
	"github.com/stayhaven/edge/internal/booking"
	"github.com/stayhaven/edge/internal/catalog"
	"github.com/stayhaven/edge/internal/gateway"
	"github.com/stayhaven/edge/internal/messages"
	"github.com/stayhaven/edge/internal/payments"
	"github.com/stayhaven/edge/internal/querycache"
	"github.com/stayhaven/edge/internal/routes"
	"github.com/stayhaven/edge/internal/session"
	"github.com/stayhaven/edge/internal/storage"
	"github.com/stayhaven/edge/pkg/config"
	"github.com/stayhaven/edge/pkg/events"
	"github.com/stayhaven/edge/pkg/logger"
	mw "github.com/stayhaven/edge/pkg/middleware"
)

func main() {
	cfg := config.Load()

	// The client-local session replica is rebuilt per request from the
	// cookie replica (session.Attach below); nothing credential-shaped
	// outlives the request that carried it.
	cookies := session.NewCookieWriter(cfg.Session)

	gw := gateway.New(cfg.Backend.BaseURL, session.ContextTokens{},
		gateway.WithTimeout(cfg.Backend.Timeout),
		gateway.WithUnauthorizedHook(func(ctx context.Context) {
			session.FromContext(ctx).Clear()
		}),
	)

	cache := querycache.New(
		querycache.WithHorizon(cfg.Cache.StalenessHorizon),
		querycache.WithPolicy(querycache.DefaultPolicy{MaxAttempts: cfg.Cache.RetryAttempts}),
	)

	var bus events.Publisher = events.NoopPublisher{}
	if cfg.NATS.Enabled {
		natsBus, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			logger.Warn("NATS unavailable, events disabled", "error", err)
		} else {
			bus = natsBus
			defer natsBus.Close()
		}
	}

	var idemStore mw.IdempotencyStore
	if cfg.Redis.Enabled {
		redisStore, err := storage.NewRedisStore(cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, idempotency disabled", "error", err)
		} else {
			idemStore = redisStore
			defer redisStore.Close()
		}
	}

	catalogClient := catalog.NewClient(gw, cache)
	draftStore := booking.NewDraftStore(cfg.Session.BookingCookie, cfg.Session.CookieTTL, cfg.Session.CookieSecure)
	// The confirm route long-polls within one request, so its wait window
	// must stay inside the server write timeout; the page re-invokes the
	// route until cfg.Payments.MaxWait worth of attempts has passed.
	burst := cfg.Payments.MaxWait
	if limit := cfg.Server.WriteTimeout - time.Second; burst > limit {
		burst = limit
	}
	poller := payments.NewPoller(&payments.Client{GW: gw}, cfg.Payments.PollInterval, burst)

	sessionHandler := session.NewHandler(cookies, gw, bus)
	bookingHandler := booking.NewHandler(draftStore, bus)
	paymentsHandler := payments.NewHandler(poller, bus, catalogClient.InvalidateBookings)
	catalogHandler := &catalog.Handler{Client: catalogClient}
	messagesHandler := &messages.Handler{Client: &messages.Client{GW: gw}}
	addressHandler := &address.Handler{Lookup: address.NewLookup(cfg.Address)}

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Component("edge"))
	r.Use(mw.Logging)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "panic recovered", "error", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	})

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(mw.Health)
	r.Use(session.Attach(cookies))
	r.Use(routes.Guard(routes.Default(), cookies, cfg.Session.JWTSecret))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/session", sessionHandler.Routes())
		r.With(mw.Idempotency(idemStore)).Mount("/booking", bookingHandler.Routes())
		r.Mount("/payments", paymentsHandler.Routes())
		r.Mount("/address", addressHandler.Routes())
		r.Mount("/messages", messagesHandler.Routes())
		r.Mount("/", catalogHandler.Routes())
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

		logger.Info("Shutting down edge service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Edge shutdown error", "error", err)
		}
	}()

	logger.Info("Starting edge service", "port", cfg.Server.Port, "backend", cfg.Backend.BaseURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Edge server error", "error", err)
		os.Exit(1)
	}
}
