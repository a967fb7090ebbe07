package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/terraincognita07/lunara/internal/blobstore"
	"github.com/terraincognita07/lunara/internal/clients/gcp"
	"github.com/terraincognita07/lunara/internal/clients/genai"
	"github.com/terraincognita07/lunara/internal/config"
	"github.com/terraincognita07/lunara/internal/db"
	"github.com/terraincognita07/lunara/internal/logger"
	"github.com/terraincognita07/lunara/internal/services"
	"gorm.io/gorm"
)

func nopLogger() *logger.Logger {
	return logger.Nop()
}

func openDatabase(cfg config.Config, log *logger.Logger, skipMigrations bool) (*gorm.DB, error) {
	database, err := db.Open(db.Options{
		Driver:         cfg.DBDriver,
		Path:           cfg.DBPath,
		DSN:            cfg.DatabaseURL,
		SkipMigrations: skipMigrations,
		Logger:         log,
	})
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	return database, nil
}

// openBlobStore selects the configured backend. The returned close func is
// always safe to call.
func openBlobStore(ctx context.Context, cfg config.Config, log *logger.Logger) (services.BlobStore, func() error, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		log.Warn("using in-memory storage, check-ins are lost on restart")
		return blobstore.NewMemory(), func() error { return nil }, nil
	case config.BackendRedis:
		store, err := blobstore.NewRedis(ctx, blobstore.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.BackendSQL, "":
		database, err := openDatabase(cfg, log, false)
		if err != nil {
			return nil, nil, err
		}
		return db.NewRepositories(database).Blobs, func() error { return db.Close(database) }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}

// buildReportService returns a disabled service when the report clients are
// not configured.
func buildReportService(ctx context.Context, cfg config.Config, log *logger.Logger) (*services.ReportService, func() error, error) {
	reportConfig := services.ReportServiceConfig{
		Model: cfg.GenAIModel,
		Retry: services.RetryPolicy{Attempts: services.DefaultRetryPolicy().Attempts, Delay: cfg.RetryDelay},
	}
	if !cfg.ReportsEnabled() {
		log.Info("report analysis disabled, storage or model credentials are not configured")
		return services.NewReportService(nil, nil, nil, reportConfig, log), func() error { return nil }, nil
	}

	uploader, err := gcp.NewBucketUploader(ctx, cfg.GCSBucket, cfg.GCSPublicBaseURL, log)
	if err != nil {
		return nil, nil, err
	}
	extractor, err := gcp.NewDocumentExtractor(ctx, gcp.DocumentConfig{
		ProjectID:     cfg.DocumentAIProject,
		Location:      cfg.DocumentAILocation,
		ProcessorID:   cfg.DocumentAIProcessor,
		Bucket:        cfg.GCSBucket,
		PublicBaseURL: cfg.GCSPublicBaseURL,
	}, log)
	if err != nil {
		_ = uploader.Close()
		return nil, nil, err
	}
	generator, err := genai.NewGenerator(ctx, cfg.GenAIAPIKey, log)
	if err != nil {
		_ = uploader.Close()
		_ = extractor.Close()
		return nil, nil, err
	}

	closeClients := func() error {
		return errors.Join(uploader.Close(), extractor.Close())
	}
	return services.NewReportService(uploader, extractor, generator, reportConfig, log), closeClients, nil
}
