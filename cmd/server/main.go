package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lostfound/internal/broker/memory"
	redisbroker "lostfound/internal/broker/redis"
	"lostfound/internal/config"
	"lostfound/internal/email/noop"
	"lostfound/internal/email/ses"
	"lostfound/internal/handler"
	"lostfound/internal/logger"
	"lostfound/internal/persistence"
	"lostfound/internal/port"
	mongorepo "lostfound/internal/repository/mongo"
	"lostfound/internal/repository/postgres"
	"lostfound/internal/router"
	"lostfound/internal/service"
	"lostfound/internal/session"
	s3storage "lostfound/internal/storage/s3"
	memtokens "lostfound/internal/tokenstore/memory"
	redistokens "lostfound/internal/tokenstore/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	var (
		reportRepo port.ReportRepository
		userRepo   port.UserRepository
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		db, err := mongorepo.NewDatabase(ctx, &cfg.Mongo, zl)
		if err != nil {
			return fmt.Errorf("failed to connect to mongo: %w", err)
		}
		defer func() { _ = db.Client().Disconnect(context.Background()) }()
		reportRepo = mongorepo.NewReportRepo(db)
		userRepo = mongorepo.NewUserRepo(db)
	default:
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		reportRepo = postgres.NewReportRepo(db)
		userRepo = postgres.NewUserRepo(db)
	}
	zl.Info("store ready", zap.String("driver", cfg.Store.Driver))

	healthChecks := []handler.HealthCheck{{Name: "store", Ping: reportRepo.Ping}}

	// Live feed broker and token revocation
	var (
		notifier port.ChangeNotifier
		tokens   port.TokenStore
	)
	if cfg.Redis.Enabled() {
		rdb := persistence.NewRedis(cfg.Redis, zl)
		defer rdb.Close()
		notifier = redisbroker.NewNotifier(rdb.Client, cfg.Feed.Channel, zl)
		tokens = redistokens.NewStore(rdb.Client)
		healthChecks = append(healthChecks, handler.HealthCheck{Name: "redis", Ping: rdb.Ping})
	} else {
		zl.Info("redis not configured, using in-process broker and token store")
		notifier = memory.NewNotifier()
		tokens = memtokens.NewStore()
	}

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	healthChecks = append(healthChecks, handler.HealthCheck{Name: "storage", Ping: s3Client.Ping})

	// Email outbox
	var sender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		sender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		sender = noop.NewNoopSender(zl)
	}
	dispatcher := service.NewNotificationDispatcher(sender, service.NotificationConfig{
		Workers:        cfg.Notification.Workers,
		QueueSize:      cfg.Notification.QueueSize,
		SendTimeout:    cfg.Notification.SendTimeout,
		FailureLogSize: cfg.Notification.FailureLogSize,
	}, zl.Named("notifications"))

	// Initialize services
	authSvc := service.NewAuthService(userRepo, tokens, cfg.JWT, zl.Named("auth"))
	authSvc.OnSessionChange(service.AccountEmailObserver(dispatcher))
	imageSvc := service.NewImageService(s3Client, &cfg.S3, zl.Named("images"))
	reportSvc := service.NewReportService(reportRepo, imageSvc, notifier, dispatcher, zl.Named("reports"))
	feedSvc := service.NewFeedService(reportRepo, notifier, zl.Named("feed"))

	cookies := session.NewCookieStore(cfg.Admin)
	admin := session.NewAdminAuthority(cookies, cfg.Admin, zl.Named("admin"))
	admin.Subscribe(func(isAdmin bool) {
		zl.Info("admin session changed", zap.Bool("is_admin", isAdmin))
	})
	prefs := session.NewPreferences(cookies)

	// Initialize handlers
	handlers := router.Handlers{
		Health:     handler.NewHealthHandler(healthChecks...),
		Auth:       handler.NewAuthHandler(authSvc, zl),
		Report:     handler.NewReportHandler(reportSvc, feedSvc, cfg.Feed.HeartbeatInterval, zl),
		Admin:      handler.NewAdminHandler(admin, reportSvc, dispatcher, zl),
		Validate:   handler.NewValidateHandler(),
		Preference: handler.NewPreferenceHandler(prefs, zl),
	}

	// Setup router
	r := router.Setup(authSvc, admin, handlers, cfg.CORS.AllowedOrigins, zl)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	srv.RegisterOnShutdown(handlers.Report.CloseStreams)

	// The dispatcher outlives the HTTP server so requests finishing during
	// shutdown can still enqueue.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dispatcher.Start(dispatchCtx)
		return nil
	})
	g.Go(func() error {
		zl.Info("server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		defer stopDispatch()

		zl.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zl.Warn("graceful shutdown incomplete, closing connections", zap.Error(err))
			_ = srv.Close()
		}
		return nil
	})

	return g.Wait()
}
