package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"secureattend/internal/cloudinary"
	"secureattend/internal/config"
	"secureattend/internal/ledger"
	"secureattend/internal/queue"
	"secureattend/internal/snapshot"
	"secureattend/internal/store"
)

// Worker consumes archive messages and mirrors stored snapshots to
// Cloudinary, back-filling the record's snapshot URL.
func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if cfg.Env != "production" && cfg.Env != "prod" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "")
	}

	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		logger.Fatal("cloudinary not configured; worker has nothing to mirror to")
	}
	cdn := cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)

	led := ledger.NewPGLedger(db.Client)
	snaps := snapshot.NewStore(cfg.SnapshotDir)

	messages, err := q.Consume(ctx)
	if err != nil {
		logger.Fatal("queue consume init failed", zap.Error(err))
	}

	logger.Info("worker started, waiting for messages")
	for msg := range messages {
		if msg.Type != queue.TypeArchive {
			continue
		}

		id := string(msg.Body)
		rec, err := led.Get(ctx, id)
		if err != nil {
			logger.Error("fetch record failed", zap.String("record_id", id), zap.Error(err))
			continue
		}
		if rec == nil {
			logger.Warn("record vanished before archiving", zap.String("record_id", id))
			continue
		}

		img, err := os.ReadFile(snaps.Path(rec.Snapshot))
		if err != nil {
			logger.Error("read snapshot failed", zap.String("record_id", id), zap.Error(err))
			continue
		}

		result, err := cdn.UploadBytes(img, rec.Snapshot)
		if err != nil {
			logger.Error("snapshot upload failed", zap.String("record_id", id), zap.Error(err))
			continue
		}

		if err := led.UpdateSnapshotURL(ctx, id, result.SecureURL); err != nil {
			logger.Error("snapshot url update failed", zap.String("record_id", id), zap.Error(err))
			continue
		}

		logger.Info("snapshot archived",
			zap.String("record_id", id),
			zap.String("url", result.SecureURL))

		time.Sleep(10 * time.Millisecond) // Small delay between uploads
	}

	logger.Info("worker stopped")
}
