package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Simplici0/printcost/internal/config"
	"github.com/Simplici0/printcost/internal/db"
	"github.com/Simplici0/printcost/internal/logger"
	"github.com/Simplici0/printcost/internal/migrations"
	"github.com/Simplici0/printcost/internal/printjobs"
	"github.com/Simplici0/printcost/internal/seed"
	"github.com/Simplici0/printcost/internal/store"
)

type server struct {
	store     *store.Store
	jobs      *printjobs.Service
	validate  *validator.Validate
	log       *zap.Logger
	rateLimit int
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	log := logger.Must(logger.New(cfg.LogFormat))
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(ctx, database); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
		version, err := migrations.Version(database)
		if err != nil {
			log.Fatal("failed to read schema version", zap.Error(err))
		}
		log.Info("database migrated", zap.Int64("version", version))
	}
	if cfg.ShouldSeed() {
		stats, err := seed.Run(ctx, database)
		if err != nil {
			log.Fatal("failed to seed database", zap.Error(err))
		}
		log.Info("seed completed", zap.Int("inserts", stats.Inserts))
	}

	st := store.New(database)
	srv := newServer(st, printjobs.NewService(st, cfg.StrictSubmit, logger.Named(log, "printjobs")), logger.Named(log, "http"), cfg.RateLimitPerMinute)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("listening", zap.String("addr", httpServer.Addr), zap.Bool("strict_submit", cfg.StrictSubmit))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newServer(st *store.Store, jobs *printjobs.Service, log *zap.Logger, rateLimit int) *server {
	if log == nil {
		log = zap.NewNop()
	}
	return &server{
		store:     st,
		jobs:      jobs,
		validate:  newValidator(),
		log:       log,
		rateLimit: rateLimit,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		if s.rateLimit > 0 {
			r.Use(httprate.LimitByIP(s.rateLimit, time.Minute))
		}

		r.Get("/products", s.handleProductsList)
		r.Post("/products", s.handleProductsCreate)
		r.Get("/products/{id}", s.handleProductsGet)
		r.Put("/products/{id}", s.handleProductsUpdate)
		r.Delete("/products/{id}", s.handleProductsDelete)

		r.Get("/printers", s.handlePrintersList)
		r.Post("/printers", s.handlePrintersCreate)
		r.Get("/printers/{id}", s.handlePrintersGet)
		r.Put("/printers/{id}", s.handlePrintersUpdate)
		r.Delete("/printers/{id}", s.handlePrintersDelete)

		r.Get("/subscriptions", s.handleSubscriptionsList)
		r.Post("/subscriptions", s.handleSubscriptionsCreate)
		r.Get("/subscriptions/{id}", s.handleSubscriptionsGet)
		r.Put("/subscriptions/{id}", s.handleSubscriptionsUpdate)
		r.Delete("/subscriptions/{id}", s.handleSubscriptionsDelete)

		r.Get("/print-jobs", s.handlePrintJobsList)
		r.Post("/print-jobs", s.handlePrintJobsCreate)
		r.Get("/print-jobs/{id}", s.handlePrintJobsGet)
		r.Put("/print-jobs/{id}", s.handlePrintJobsUpdate)
		r.Delete("/print-jobs/{id}", s.handlePrintJobsDelete)
		r.Post("/print-jobs/{id}/status", s.handlePrintJobsStatus)

		r.Post("/cogs/preview", s.handleCogsPreview)
	})

	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
