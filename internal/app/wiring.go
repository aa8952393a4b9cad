package app

import (
	"context"
	"fmt"
	"time"

	"lawfirm-cms/internal/audit"
	"lawfirm-cms/internal/auth"
	"lawfirm-cms/internal/config"
	apphttp "lawfirm-cms/internal/http"
	"lawfirm-cms/internal/http/handler"
	"lawfirm-cms/internal/notify"
	repomemory "lawfirm-cms/internal/repository/memory"
	"lawfirm-cms/internal/repository/postgres"
	storagememory "lawfirm-cms/internal/storage/memory"
	"lawfirm-cms/internal/storage/s3"
	"lawfirm-cms/pkg/mailer"
	"lawfirm-cms/pkg/mailer/providers"
	"lawfirm-cms/pkg/mailer/strategies"
	"lawfirm-cms/pkg/password"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	errConnectDatabaseFmt = "failed to connect to database: %w"
	errMigrateDatabaseFmt = "failed to migrate database: %w"
	errCreateS3ClientFmt  = "failed to create S3 client: %w"
	errEnsureBucketFmt    = "failed to prepare S3 bucket: %w"
	errMailProviderFmt    = "failed to configure mail provider %s: %w"
	errMailStrategyFmt    = "failed to configure mail strategy: %w"
	errMailServiceFmt     = "failed to create mail service: %w"

	verifyMailTimeout = 10 * time.Second
)

// InitializeService wires the stores selected by cfg into a server.
func InitializeService(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Service, error) {
	svc := &Service{config: cfg, log: log}

	var (
		docs       handler.DocumentStore
		users      handler.UserRepository
		auditStore audit.Store
	)
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf(errConnectDatabaseFmt, err)
		}
		svc.closers = append(svc.closers, db.Close)
		if err := db.Migrate(ctx); err != nil {
			svc.Close()
			return nil, fmt.Errorf(errMigrateDatabaseFmt, err)
		}
		docs = postgres.NewDocumentRepository(db)
		users = postgres.NewUserRepository(db)
		auditStore = audit.NewPostgresStore(db.Pool)
		log.WithField("host", cfg.Database.Host).Info("database connection established")
	default:
		store := repomemory.New()
		docs, users = store, store.Users()
		auditStore = audit.NewMemoryStore(cfg.App.AuditCapacity)
		log.Warn("using in-memory document store; content is lost on restart")
	}

	var (
		images  handler.ImageStore
		uploads echo.HandlerFunc
	)
	switch cfg.AWS.ImageStore {
	case config.ImageStoreS3:
		client, err := s3.NewClient(&cfg.AWS)
		if err != nil {
			svc.Close()
			return nil, fmt.Errorf(errCreateS3ClientFmt, err)
		}
		if err := client.EnsureBucket(ctx); err != nil {
			svc.Close()
			return nil, fmt.Errorf(errEnsureBucketFmt, err)
		}
		images = client
		log.WithField("bucket", cfg.AWS.Bucket).Info("S3 image store initialized")
	default:
		store := storagememory.New(cfg.Server.PublicURL)
		images, uploads = store, store.Handler
		log.Warn("using in-memory image store; uploads are lost on restart")
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryDuration)
	if cfg.App.EnableProfiling {
		log.Warn("profiling endpoints are mounted under /debug without authentication")
	}

	notifier, err := newNotifier(ctx, &cfg.Mail, log)
	if err != nil {
		svc.Close()
		return nil, err
	}

	svc.server = apphttp.NewServer(&apphttp.ServerDependencies{
		Config:     cfg,
		Documents:  docs,
		Users:      users,
		Images:     images,
		Hasher:     password.NewHasher(password.DefaultCost),
		JWTService: jwtService,
		Logger:     log,
		Uploads:    uploads,
		Audit:      audit.NewLogger(auditStore, log),
		Notifier:   notifier,
	})

	return svc, nil
}

// newNotifier returns nil when no mail provider is configured.
func newNotifier(ctx context.Context, cfg *config.MailConfig, log logrus.FieldLogger) (*notify.Notifier, error) {
	if !cfg.Enabled() {
		log.Info("no mail provider configured; inquiry notifications disabled")
		return nil, nil
	}

	list := make([]providers.EmailProvider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		p, err := mailer.NewProvider(mailer.ProviderConfig{Name: name, APIKey: cfg.APIKey(name)})
		if err != nil {
			return nil, fmt.Errorf(errMailProviderFmt, name, err)
		}
		list = append(list, p)
	}
	strategy, err := strategies.ByName(cfg.Strategy)
	if err != nil {
		return nil, fmt.Errorf(errMailStrategyFmt, err)
	}
	service, err := mailer.NewEmailService(mailer.EmailServiceConfig{
		Providers:   list,
		Strategy:    strategy,
		DefaultFrom: cfg.From,
	})
	if err != nil {
		return nil, fmt.Errorf(errMailServiceFmt, err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, verifyMailTimeout)
	defer cancel()
	for name, ok := range service.VerifyProviders(verifyCtx) {
		entry := log.WithField("provider", name)
		if ok {
			entry.Info("mail provider verified")
		} else {
			entry.Warn("mail provider could not be verified")
		}
	}

	return notify.New(service, notify.Config{
		Firm:     cfg.FirmName,
		To:       cfg.NotifyTo,
		AdminURL: cfg.AdminURL,
	}, log), nil
}
