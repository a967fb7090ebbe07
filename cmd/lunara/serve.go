package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/terraincognita07/lunara/internal/api"
	"github.com/terraincognita07/lunara/internal/config"
	"github.com/terraincognita07/lunara/internal/i18n"
	"github.com/terraincognita07/lunara/internal/logger"
	"github.com/terraincognita07/lunara/internal/services"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func runServe(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("logger init failed: %w", err)
	}
	defer log.Sync()

	location, err := cfg.Location()
	if err != nil {
		log.Warn("timezone fallback", "error", err)
	}
	time.Local = location

	blobs, closeBlobs, err := openBlobStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeBlobs(); err != nil {
			log.Warn("storage close failed", "error", err)
		}
	}()

	reports, closeReports, err := buildReportService(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("report clients init failed: %w", err)
	}
	defer func() {
		if err := closeReports(); err != nil {
			log.Warn("report clients close failed", "error", err)
		}
	}()

	manager, err := i18n.NewManager(cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	handler, err := api.NewHandler(api.Dependencies{
		SecretKey:    cfg.SecretKey,
		Location:     location,
		CookieSecure: cfg.CookieSecure,
		I18n:         manager,
		Logger:       log,
		CheckIns:     services.NewCheckInService(blobs, location, log),
		Reports:      reports,
		Wearables:    services.NewWearableService(blobs, cfg.WearablePairDelay, log),
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := newApp(handler)

	sigCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	group, groupCtx := errgroup.WithContext(sigCtx)
	group.Go(func() error {
		log.Info("lunara listening",
			"addr", "0.0.0.0:"+cfg.Port,
			"storage", cfg.StorageBackend,
			"tz", location.String(),
			"reports", reports.Enabled(),
		)
		return app.Listen(":" + cfg.Port)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		log.Info("server stopped")
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newApp(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Lunara",
		DisableStartupMessage: true,
		BodyLimit:             services.MaxReportSize + 1024*1024,
		ErrorHandler:          handler.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}
