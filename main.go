package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"perfume-backend/internal/catalog"
	"perfume-backend/internal/config"
	"perfume-backend/internal/database"
	"perfume-backend/internal/handlers"
	"perfume-backend/internal/images"
	"perfume-backend/internal/middleware"
	"perfume-backend/internal/models"
	"perfume-backend/internal/notify"
	"perfume-backend/internal/orders"
	"perfume-backend/internal/realtime"
	"perfume-backend/internal/reviews"
	"perfume-backend/internal/storage"
)

func newLogger(ginMode string) *slog.Logger {
	if ginMode == gin.ReleaseMode {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newImageBackend(ctx context.Context, cfg config.Config) (storage.Backend, error) {
	if cfg.ImageStorage == "s3" {
		return storage.NewS3Bucket(ctx, cfg.AWSRegion, cfg.S3Bucket)
	}
	return storage.NewLocal(cfg.UploadDir)
}

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	logger := newLogger(cfg.GinMode)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		logger.Error("mongodb connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Warn("mongodb disconnect failed", "error", err)
		}
	}()

	db := client.Database(cfg.DBName)
	logger.Info("mongodb connected", "database", db.Name())
	database.EnsureIndexes(db)

	backend, err := newImageBackend(ctx, cfg)
	if err != nil {
		logger.Error("image storage unavailable", "storage", cfg.ImageStorage, "error", err)
		os.Exit(1)
	}
	imageStore := images.NewStore(backend, images.Options{
		OptimizationEnabled: cfg.ImageOptimization,
		Threshold:           cfg.ImageThreshold,
		MaxDimension:        cfg.ImageMaxDimension,
		JPEGQuality:         cfg.ImageJPEGQuality,
		MaxFiles:            models.MaxProductImages,
	}, logger)

	hub := realtime.NewHub(middleware.OriginPatterns(cfg.CORSOrigins), logger)

	dispatcher := notify.NewDispatcher(cfg.NotifyBuffer, logger)
	if cfg.SendGridAPIKey != "" {
		mailer := notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom, cfg.AdminEmail, logger)
		dispatcher.OnOrderCreated(mailer)
		dispatcher.OnLowStock(mailer)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, email notifications disabled")
	}
	dispatcher.OnOrderCreated(
		notify.NewSMSSender(cfg.SMSAPIURL, cfg.SMSAPIKey, cfg.SMSPhoneNumber, logger),
		notify.NewOrderBroadcaster(hub, logger),
	)

	kafkaClient, err := notify.NewKafkaClient(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
	if err != nil {
		logger.Error("kafka client failed", "error", err)
		os.Exit(1)
	}
	if kafkaClient != nil {
		defer kafkaClient.Close()
		dispatcher.OnOrderCreated(notify.NewEventSink(kafkaClient, cfg.KafkaOrderTopic, logger))
	}

	dispatchDone := make(chan struct{})
	go func() {
		defer close(dispatchDone)
		dispatcher.Run(ctx)
	}()

	productStore := database.NewProductStore(db)
	reviewStore := database.NewReviewStore(db)

	catalogManager := catalog.NewManager(productStore, database.NewCategoryStore(db), dispatcher, logger)
	orderService := orders.NewService(
		database.NewOrderStore(db),
		productStore,
		database.NewTransactor(client),
		dispatcher,
		logger,
	)
	reviewService := reviews.NewService(reviewStore, productStore, logger)

	router := handlers.NewRouter(handlers.Dependencies{
		DB:             database.NewHealth(db),
		Products:       catalogManager,
		Categories:     catalogManager,
		Orders:         orderService,
		Reviews:        reviewService,
		Images:         imageStore,
		Admins:         database.NewAdminStore(db),
		OrderFeed:      hub.Handler(notify.OrdersTopic),
		JWTSecret:      cfg.JWTSecret,
		AccessTokenTTL: cfg.AccessTokenTTL,
		CORSOrigins:    cfg.CORSOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", "error", err)
	}

	select {
	case <-dispatchDone:
	case <-shutdownCtx.Done():
		logger.Warn("notifications still pending at exit")
	}
}
