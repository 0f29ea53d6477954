package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hodastore/store-api/internal/auth"
	"github.com/hodastore/store-api/internal/catalog"
	"github.com/hodastore/store-api/internal/config"
	"github.com/hodastore/store-api/internal/events"
	"github.com/hodastore/store-api/internal/feedback"
	"github.com/hodastore/store-api/internal/httpx"
	"github.com/hodastore/store-api/internal/notify"
	"github.com/hodastore/store-api/internal/orders"
	"github.com/hodastore/store-api/internal/postgres"
	"github.com/hodastore/store-api/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Outbound notifications
	router := notify.Router{}
	if cfg.SMTPHost != "" {
		router.Email = &notify.EmailSender{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUser,
			Password:  cfg.SMTPPass,
			From:      cfg.EmailFrom,
			AdminAddr: cfg.AdminEmail,
		}
	}
	if cfg.TelegramToken != "" {
		router.Telegram = &notify.TelegramSender{Token: cfg.TelegramToken, ChatID: cfg.TelegramChatID}
	}
	dispatcher := notify.NewDispatcher(router, cfg.NotifyTimeout, 256)
	dispatcher.Start(ctx)

	// Order events
	var publisher events.Publisher = events.Nop{}
	var kafkaPub *events.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.ServiceName, 1024)
		kafkaPub.Start(ctx)
		publisher = kafkaPub
	}

	// Auth strategy
	var strategy auth.Strategy
	var creds auth.CredentialStore
	var users auth.UserStore
	switch cfg.AuthMode {
	case config.AuthModeToken:
		if cfg.TokenSecret == "" {
			log.Fatal("TOKEN_SECRET is required in token mode")
		}
		repo := &auth.UserRepo{DB: db}
		users = repo
		creds = &auth.UserCredentials{Users: repo}
		strategy = &auth.TokenStrategy{
			Creds:  creds,
			Secret: []byte(cfg.TokenSecret),
			TTL:    cfg.TokenTTL,
			Issuer: cfg.ServiceName,
		}
	case config.AuthModeSession:
		if cfg.AdminPassHash == "" {
			log.Fatal("ADMIN_PASS_HASH is required in session mode")
		}
		creds = &auth.AdminCredentials{Client: rdb, Username: cfg.AdminUser, SeedHash: cfg.AdminPassHash}
		strategy = &auth.SessionStrategy{
			Creds:    creds,
			Sessions: &auth.RedisSessionStore{Client: rdb},
			TTL:      cfg.SessionTTL,
		}
	default:
		log.Fatalf("unknown AUTH_MODE %q", cfg.AuthMode)
	}

	// Product resolution
	catalogSvc := &catalog.Service{Store: &catalog.Repo{DB: db}}
	var resolver orders.ProductResolver
	switch cfg.ProductMode {
	case config.ProductModeCatalog:
		resolver = &orders.CatalogResolver{Products: catalogSvc}
	case config.ProductModeInline:
		resolver = orders.InlineResolver{}
	default:
		log.Fatalf("unknown PRODUCT_MODE %q", cfg.ProductMode)
	}

	orderSvc := &orders.Service{
		Store:        &orders.Repo{DB: db},
		Resolver:     resolver,
		Events:       publisher,
		ScopeToOwner: cfg.AuthMode == config.AuthModeToken,
	}
	if cfg.NotifyNewOrders {
		orderSvc.Notify = dispatcher
	}
	feedbackSvc := &feedback.Service{
		Store:       &feedback.Repo{DB: db},
		Dispatch:    dispatcher,
		Notifier:    router,
		SendTimeout: cfg.NotifyTimeout,
	}

	mux := httpx.NewRouter()
	api := &httpx.API{
		Strategy:           strategy,
		Users:              users,
		Creds:              creds,
		Orders:             orderSvc,
		Catalog:            catalogSvc,
		Feedback:           feedbackSvc,
		Redis:              rdb,
		RequireAuthToOrder: cfg.AuthMode == config.AuthModeToken,
	}
	api.Register(mux)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}

	go func() {
		slog.Info("HTTP listening", "addr", cfg.HTTPAddr, "auth_mode", cfg.AuthMode, "product_mode", cfg.ProductMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	dispatcher.Close() // stop intake, flush pending notifications
	if kafkaPub != nil {
		kafkaPub.Close()
	}
	cancel()
	dispatcher.WaitClosed()
	if kafkaPub != nil {
		kafkaPub.WaitClosed()
	}
}
