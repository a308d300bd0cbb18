package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/velomarket/velomarket-backend/api/controllers"
	"github.com/velomarket/velomarket-backend/api/routes"
	"github.com/velomarket/velomarket-backend/internal/auth"
	"github.com/velomarket/velomarket-backend/internal/cart"
	"github.com/velomarket/velomarket-backend/internal/catalog"
	"github.com/velomarket/velomarket-backend/internal/checkout"
	"github.com/velomarket/velomarket-backend/internal/contact"
	"github.com/velomarket/velomarket-backend/internal/customers"
	"github.com/velomarket/velomarket-backend/internal/orders"
	"github.com/velomarket/velomarket-backend/internal/users"
	"github.com/velomarket/velomarket-backend/pkg/auth/session"
	"github.com/velomarket/velomarket-backend/pkg/config"
	"github.com/velomarket/velomarket-backend/pkg/db"
	"github.com/velomarket/velomarket-backend/pkg/images"
	"github.com/velomarket/velomarket-backend/pkg/logger"
	"github.com/velomarket/velomarket-backend/pkg/mailer"
	"github.com/velomarket/velomarket-backend/pkg/metrics"
	"github.com/velomarket/velomarket-backend/pkg/migrate"
	"github.com/velomarket/velomarket-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	closeAll := func() {
		var errs error
		errs = multierr.Append(errs, redisClient.Close())
		errs = multierr.Append(errs, dbClient.Close())
		if errs != nil {
			logg.Error(context.Background(), "error closing resources", errs)
		}
	}
	defer closeAll()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	imageStore, err := images.NewStore(cfg.Media)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare media storage", err)
		os.Exit(1)
	}

	mailSender, err := mailer.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		logg.Error(context.Background(), "failed to configure mailer", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())
	customersRepo := customers.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalogRepo, imageStore, cfg.Media, cfg.Shop)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, dbClient, catalogRepo, cfg.Shop)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	guestResolver, err := cart.NewGuestResolver(redisClient, cartService, cfg.Shop)
	if err != nil {
		logg.Error(context.Background(), "failed to create guest cart resolver", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(dbClient, cartRepo, ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	contactService, err := contact.NewService(mailSender, logg, cfg.SMTP)
	if err != nil {
		logg.Error(context.Background(), "failed to create contact service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	handler := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		sessionManager,
		httpMetrics,
		metricsHandler,
		catalogService,
		authService,
		registerService,
		checkoutService,
		ordersService,
		contactService,
		controllers.CartDeps{
			Carts:     cartService,
			Guests:    guestResolver,
			Customers: customersRepo,
		},
		controllers.ProfileDeps{
			Users:     usersRepo,
			Customers: customersRepo,
			Orders:    ordersService,
		},
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			closeAll()
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	logg.Info(ctx, "api server stopped")
}
