package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sashabaranov/go-openai"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/audionary/audionary-backend/docs"
	"github.com/audionary/audionary-backend/internal/config"
	"github.com/audionary/audionary-backend/internal/database"
	narrationHandler "github.com/audionary/audionary-backend/internal/handler/narration"
	"github.com/audionary/audionary-backend/internal/handler/progress"
	ratelimit "github.com/audionary/audionary-backend/internal/middleware"
	narrationRepo "github.com/audionary/audionary-backend/internal/repository/narration"
	narrationService "github.com/audionary/audionary-backend/internal/service/narration"
	"github.com/audionary/audionary-backend/internal/service/pdf"
	"github.com/audionary/audionary-backend/internal/service/summary"
	"github.com/audionary/audionary-backend/internal/service/tts"
	"github.com/audionary/audionary-backend/internal/storage/object"
	"github.com/audionary/audionary-backend/web"
)

// @title           Audionary API
// @version         1.0
// @description     Turns uploaded PDFs into narrated MP3 audio.
// @BasePath        /
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	db, err := database.NewConnection(cfg.DB)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Object storage
	storage, err := newStorage(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to initialize storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}

	// Pipeline
	client := openai.NewClient(cfg.OpenAI.APIKey)
	hub := progress.NewHub(logger)

	svc := narrationService.NewService(
		storage,
		pdf.NewExtractor(),
		summary.NewAgent(client, cfg.OpenAI.Model, logger),
		tts.NewSynthesizer(client, cfg.OpenAI.TTSModel, cfg.OpenAI.TTSVoice),
		narrationRepo.NewPostgresRepository(db),
		narrationService.Options{
			MaxFileSize: int64(cfg.MaxUploadMB) << 20,
			Logger:      logger,
			Notifier:    hub,
		},
	)
	handler := narrationHandler.NewNarrationHandler(svc, cfg.PublicBaseURL, logger)

	limiter, closeLimiter := newRateLimiter(cfg, logger)
	defer closeLimiter()

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/", web.IndexHandler())
	r.Handle("/static/*", web.StaticHandler("/static/"))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// Streams audio; no request timeout
	r.Get("/media/audio/{fileName}", handler.DownloadAudio)
	r.Get("/api/ws/progress", hub.ServeWS)

	r.Group(func(r chi.Router) {
		// Narration calls the LLM and TTS in sequence
		r.Use(middleware.Timeout(5 * time.Minute))

		r.Route("/api", func(r chi.Router) {
			r.With(limiter).Post("/upload-pdf/", handler.UploadPDF)
			r.Get("/audio/{fileName}/", handler.DownloadAudio)
			r.Get("/narrations/{id}", handler.GetNarration)
		})
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr, "swagger", docs.SwaggerInfo.Title)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	logger.Info("server gracefully stopped")
}

func newStorage(ctx context.Context, cfg *config.Config) (object.StorageProvider, error) {
	if cfg.Storage.Backend == "local" {
		return object.NewLocalStorage(cfg.Storage.LocalDir, cfg.PublicBaseURL+"/media")
	}
	return object.NewMinioStorage(ctx, object.MinioConfig{
		Endpoint:  cfg.Storage.MinioEndpoint,
		AccessKey: cfg.Storage.MinioAccessKey,
		SecretKey: cfg.Storage.MinioSecretKey,
		Bucket:    cfg.Storage.MinioBucket,
		UseSSL:    cfg.Storage.MinioUseSSL,
		PublicURL: cfg.Storage.MinioPublicURL,
	})
}

// newRateLimiter returns the upload limiter, or a pass-through when Redis is
// not configured
func newRateLimiter(cfg *config.Config, logger *slog.Logger) (func(http.Handler) http.Handler, func()) {
	if cfg.RateLimit.RedisAddr == "" {
		logger.Info("rate limiting disabled")
		return func(next http.Handler) http.Handler { return next }, func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RateLimit.RedisAddr,
		Password: cfg.RateLimit.RedisPassword,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, rate limiter will fail open", "addr", cfg.RateLimit.RedisAddr, "error", err)
	}

	mw := ratelimit.RateLimiter(
		ratelimit.NewRedisCounter(rdb),
		cfg.RateLimit.Requests,
		cfg.RateLimit.Window,
		ratelimit.ClientIPKey,
		logger,
	)
	return mw, func() { rdb.Close() }
}
