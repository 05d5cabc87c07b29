package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"secureattend/internal/attendance"
	"secureattend/internal/code"
	"secureattend/internal/config"
	"secureattend/internal/directory"
	"secureattend/internal/faceclient"
	"secureattend/internal/geo"
	"secureattend/internal/handler"
	"secureattend/internal/httpmiddleware"
	"secureattend/internal/ledger"
	"secureattend/internal/queue"
	"secureattend/internal/snapshot"
	"secureattend/internal/store"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.Env)
	defer logger.Sync()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg, logger); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}

func runHTTP(cfg config.App, logger *zap.Logger) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "")
	}

	face := faceclient.New(cfg.FaceServiceURL, cfg.FaceSkip)
	if !cfg.FaceSkip {
		if err := face.Health(context.Background()); err != nil {
			logger.Warn("face service not available", zap.Error(err))
		}
	}

	registry := directory.NewPGRegistry(db.Client)
	codes := code.NewPGStore(db.Client)
	led := ledger.NewPGLedger(db.Client)

	svc := attendance.NewService(attendance.Options{
		Registry:  registry,
		Codes:     codes,
		Ledger:    led,
		Snaps:     snapshot.NewStore(cfg.SnapshotDir),
		Detector:  face,
		Classroom: geo.Point{Lat: cfg.ClassroomLat, Lon: cfg.ClassroomLon},
		RadiusM:   cfg.AllowedRadiusM,
		Validity:  cfg.CodeValidity,
	})

	authCfg := handler.AuthConfig{
		Issuer:     cfg.JWTIssuer,
		SigningKey: cfg.JWTSigningKey,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	}
	h := handler.New(svc, codes, led, registry, q, authCfg, cfg.CodeValidity, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	h.Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server forced shutdown", zap.Error(err))
	}

	logger.Info("server exited")
	return nil
}

func newLogger(env string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if env == "production" || env == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	skip := map[string]bool{"/healthz": true, "/metrics": true}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if skip[c.Request.URL.Path] {
			return
		}
		logger.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()))
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
