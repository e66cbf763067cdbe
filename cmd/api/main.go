package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/cache"
	"github.com/fhuszti/athlete-portfolio-go/internal/config"
	"github.com/fhuszti/athlete-portfolio-go/internal/instagram"
	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/mailer"
	"github.com/fhuszti/athlete-portfolio-go/internal/mediaid"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/ratelimit"
	"github.com/fhuszti/athlete-portfolio-go/internal/renderer"
	"github.com/fhuszti/athlete-portfolio-go/internal/repository/blob"
	"github.com/fhuszti/athlete-portfolio-go/internal/server"
	"github.com/fhuszti/athlete-portfolio-go/internal/storage"
	"github.com/fhuszti/athlete-portfolio-go/internal/task"
	authSvc "github.com/fhuszti/athlete-portfolio-go/internal/usecase/auth"
	contactSvc "github.com/fhuszti/athlete-portfolio-go/internal/usecase/contact"
	instagramSvc "github.com/fhuszti/athlete-portfolio-go/internal/usecase/instagram"
	mediaSvc "github.com/fhuszti/athlete-portfolio-go/internal/usecase/media"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init("api")

	strg := initStorage(ctx, cfg)

	var (
		ca       port.Cache
		counters port.CounterStore
		ledger   port.TokenLedger
		repoOpts []blob.Option
		closers  []func() error
	)
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		dispatcher := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		ca = cache.NewCache(rdb)
		counters = ratelimit.NewRedisStore(rdb)
		ledger = ratelimit.NewRedisLedger(rdb)
		repoOpts = append(repoOpts, blob.WithSweepDispatcher(dispatcher))
		closers = append(closers, dispatcher.Close, rdb.Close)
		logger.Info(ctx, "✅  Redis enabled: shared cache, rate limits and deferred metadata sweeps")
	} else {
		ca = cache.NewMemory()
		counters = ratelimit.NewMemoryStore()
		ledger = ratelimit.NewMemoryLedger()
		logger.Warn(ctx, "⚠️  Redis not configured: cache and rate limits are per process")
	}

	repo := blob.NewMediaRepository(strg, repoOpts...)
	rdr := renderer.NewHTTPRenderer(ca)

	secret := []byte(cfg.SessionSecret)
	sessions := authSvc.NewSessionSigner(secret, cfg.SessionTTL)
	uploadSigner := mediaSvc.NewUploadTokenSigner(secret, mediaSvc.UploadTokenTTL)

	if len(cfg.AdminAccounts) == 0 {
		logger.Warn(ctx, "⚠️  No admin account configured, the admin area is unreachable")
	}

	r := server.NewRouter(server.Deps{
		Lister:      mediaSvc.NewMediaLister(repo),
		Updater:     mediaSvc.NewMediaUpdater(repo),
		Deleter:     mediaSvc.NewMediaDeleter(repo),
		Resetter:    mediaSvc.NewMetadataResetter(repo),
		Uploader:    mediaSvc.NewMediaUploader(repo, strg, mediaid.New),
		TokenIssuer: mediaSvc.NewUploadTokenIssuer(strg, uploadSigner),
		Registrar:   mediaSvc.NewUploadRegistrar(repo, strg, uploadSigner, ledger, mediaid.New),

		Authenticator: authSvc.NewAuthenticator(adminAccounts(cfg), authSvc.NewLoginLimiter(counters), sessions),
		Sessions:      sessions,

		Contact:   initContact(ctx, cfg, counters),
		Instagram: initInstagram(ctx, cfg, ca),

		Renderer: rdr,

		AdminURLSecret: cfg.AdminURLSecret,
		ContentDir:     cfg.ContentDir,
		SecureCookies:  cfg.SecureCookies,
		RequestLogging: cfg.RequestLogging,
	})

	logger.Infof(ctx, "🔑 Admin login served on %s", server.LoginPath(cfg.AdminURLSecret))
	listenRouter(ctx, r, cfg, closers)
}

func initStorage(ctx context.Context, cfg *config.Settings) *storage.MinioStorage {
	strg, err := storage.NewMinioStorage(storage.Options{
		Endpoint:      cfg.MinioEndpoint,
		AccessKey:     cfg.MinioAccessKey,
		SecretKey:     cfg.MinioSecretKey,
		UseSSL:        cfg.MinioUseSSL,
		Bucket:        cfg.MinioBucket,
		PublicBaseURL: cfg.PublicBaseURL,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}
	if err := strg.InitBucket(ctx); err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.MinioBucket, err)
		os.Exit(1)
	}
	return strg
}

func adminAccounts(cfg *config.Settings) []authSvc.Account {
	accounts := make([]authSvc.Account, 0, len(cfg.AdminAccounts))
	for _, a := range cfg.AdminAccounts {
		accounts = append(accounts, authSvc.Account{Email: a.Email, Name: a.Name, PasswordHash: a.PasswordHash})
	}
	return accounts
}

func initContact(ctx context.Context, cfg *config.Settings, counters port.CounterStore) port.ContactSender {
	var m port.Mailer
	if cfg.ResendAPIKey != "" && cfg.ContactEmail != "" {
		client, err := mailer.NewResendClient("", cfg.ResendAPIKey)
		if err != nil {
			logger.Errorf(ctx, "❌  Failed to initialize email client: %v", err)
			os.Exit(1)
		}
		m = client
	} else {
		logger.Warn(ctx, "⚠️  RESEND_API_KEY or CONTACT_EMAIL missing, the contact form is disabled")
	}
	return contactSvc.NewContactSender(m, contactSvc.NewContactLimiter(counters), contactSvc.Options{
		From: cfg.ContactFrom,
		To:   cfg.ContactEmail,
	})
}

func initInstagram(ctx context.Context, cfg *config.Settings, ca port.Cache) port.InstagramFeed {
	var fetcher port.OEmbedFetcher
	if client, err := instagram.NewOEmbedClient("", cfg.InstagramAppID, cfg.InstagramAppSecret); err == nil {
		fetcher = client
	} else if len(cfg.InstagramPostURLs) > 0 {
		logger.Warnf(ctx, "⚠️  %v, posts are served without embed data", err)
	}
	return instagramSvc.NewInstagramFeed(fetcher, ca, cfg.InstagramPostURLs)
}

func listenRouter(ctx context.Context, h http.Handler, cfg *config.Settings, closers []func() error) {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	for _, c := range closers {
		if err := c(); err != nil && !errors.Is(err, redis.ErrClosed) {
			logger.Warnf(ctx, "close error: %v", err)
		}
	}
}
