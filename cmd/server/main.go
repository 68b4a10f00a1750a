package main

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ayush/user-console/internal/config"
	"github.com/ayush/user-console/internal/console"
	"github.com/ayush/user-console/internal/middleware"
	"github.com/ayush/user-console/internal/store"
	"github.com/ayush/user-console/internal/userapi"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Notices ──────────────────────────────────────────────
	var notices console.NoticeStore = console.NewMemoryNotices()
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect")
		}
		defer rdb.Close()
		notices = store.NewRedisNotices(rdb)
	}

	// ── Activity journal ─────────────────────────────────────
	var journal console.Journal = console.NopJournal{}
	if cfg.PostgresDSN != "" {
		pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connect")
		}
		defer pgPool.Close()
		pgJournal := store.NewPostgresJournal(pgPool)
		if err := pgJournal.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("postgres migrate")
		}
		journal = pgJournal
	}

	// ── Console ──────────────────────────────────────────────
	api := userapi.NewClient(cfg.UserAPIURL, cfg.HTTPTimeout)
	ctrl := console.NewController(api, notices, journal, logger, console.Options{
		NoticeTTL:    cfg.NoticeTTL,
		PollInterval: cfg.PollInterval,
	})
	go ctrl.Init(ctx)
	go ctrl.Poll(ctx)

	handler := console.NewHandler(ctrl)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	static, err := fs.Sub(console.StaticFS, "static")
	if err != nil {
		logger.Fatal().Err(err).Msg("static assets")
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session)
		handler.Routes(r)
		r.Route("/console", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   cfg.AllowedOrigins,
				AllowedMethods:   []string{"GET", "OPTIONS"},
				AllowedHeaders:   []string{"Content-Type"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
			r.Get("/state", handler.State)
		})
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("user_api", cfg.UserAPIURL).Msg("console listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()

	logger.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
