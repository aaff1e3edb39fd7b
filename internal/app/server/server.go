package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"npsportal/internal/domain/attendance"
	"npsportal/internal/domain/audit"
	"npsportal/internal/domain/auth"
	"npsportal/internal/domain/directory"
	"npsportal/internal/domain/orders"
	"npsportal/internal/domain/reports"
	"npsportal/internal/platform/config"
	"npsportal/internal/platform/db"
	"npsportal/internal/platform/metrics"
	"npsportal/internal/platform/storage"
	adminhandler "npsportal/internal/transport/http/handlers/admin"
	attendancehandler "npsportal/internal/transport/http/handlers/attendance"
	authhandler "npsportal/internal/transport/http/handlers/auth"
	directoryhandler "npsportal/internal/transport/http/handlers/directory"
	ordershandler "npsportal/internal/transport/http/handlers/orders"
	reportshandler "npsportal/internal/transport/http/handlers/reports"
	"npsportal/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	isProd := cfg.Environment == "production"

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	authService := auth.NewService(auth.NewStore(pool))
	auditService := audit.New(pool, cfg.AuditEnabled)
	attendanceService := attendance.NewService(attendance.NewStore(pool), cfg.OfficeLabel, time.Local)
	directoryService := directory.NewService(directory.NewStore(pool))
	reportsService := reports.NewService(reports.NewStore(pool))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recover)
	router.Use(middleware.SecureHeaders(isProd))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authH := authhandler.NewHandler(authService, cfg.JWTSecret, cfg.TokenTTL, isProd)
		r.With(middleware.AuthRateLimit(cfg.RateLimitPerMinute, time.Minute)).Post("/auth/signup", authH.HandleSignup)
		r.With(middleware.AuthRateLimit(cfg.RateLimitPerMinute, time.Minute)).Post("/auth/login", authH.HandleLogin)
		r.Post("/auth/logout", authH.HandleLogout)
		r.Get("/auth/me", authH.HandleMe)

		attendancehandler.NewHandler(attendanceService, auth.NewStore(pool)).RegisterRoutes(r)
		directoryhandler.NewHandler(directoryService).RegisterRoutes(r)
		reportshandler.NewHandler(reportsService, directoryService).RegisterRoutes(r)
		adminhandler.NewHandler(authService, auditService, collector).RegisterRoutes(r)

		if cfg.S3Bucket != "" {
			objects, err := storage.NewS3Store(ctx, cfg)
			if err != nil {
				slog.Warn("object storage unavailable, letter orders disabled", "err", err)
			} else {
				ordershandler.NewHandler(orders.NewStore(pool), objects).RegisterRoutes(r)
			}
		} else {
			slog.Info("S3_BUCKET not set, letter orders disabled")
		}
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	return &App{Config: cfg, DB: pool, Router: router}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() {
	cfg := config.Load()

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("server init failed: %v", err)
	}
	defer app.Close()

	log.Printf("portal listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
