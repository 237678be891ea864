package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/reachfood2026-cmyk/reachfoodshop/content"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/cart"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/catalog"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/checkout"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/cms"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/config"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/i18n"
	mw "github.com/reachfood2026-cmyk/reachfoodshop/internal/middleware"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/newsletter"
	"github.com/reachfood2026-cmyk/reachfoodshop/internal/observability"
	"github.com/reachfood2026-cmyk/reachfoodshop/locales"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Fatal("init app", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		a.registry.Run(ctx, cfg.Store.SweepInterval, logger.Named("carts"))
	}()

	errorLog, err := zap.NewStdLogAt(logger.Named("http"), zap.WarnLevel)
	if err != nil {
		logger.Fatal("init http error log", zap.Error(err))
	}
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      a.routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     errorLog,
	}

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr), zap.Bool("dev", cfg.Server.DevMode))
	go func() {
		serverLogger.Info("reachfood web listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received; draining requests")
	<-sweepDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newApp builds every collaborator from cfg. It does not start background work.
func newApp(cfg config.Config, logger *zap.Logger) (*app, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	bundle, err := i18n.Load(locales.FS, i18n.English, nil)
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}
	views, err := newRenderer(cfg.Server.TemplatesDir, cfg.Server.DevMode, bundle)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	sessions, err := mw.NewSessionManager(mw.SessionConfig{
		CookieName: cfg.Session.CookieName,
		HashKey:    []byte(cfg.Session.HashKey),
		BlockKey:   []byte(cfg.Session.BlockKey),
		Secure:     cfg.Session.Secure,
		MaxAge:     cfg.Session.MaxAge,
	})
	if err != nil {
		return nil, fmt.Errorf("session manager: %w", err)
	}
	if cfg.Session.HashKey == "" {
		logger.Warn("session hash key not configured; sessions will not survive a restart")
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		catalog:    cat,
		bundle:     bundle,
		registry:   cart.NewRegistry(cat, cfg.Store.CartTTL),
		sessions:   sessions,
		pages:      cms.NewStore(content.FS, string(i18n.English)),
		newsletter: newsletter.NewService(newsletter.WithDelay(cfg.Simulation.NewsletterDelay)),
		checkout:   checkout.NewSimulator(checkout.WithDelay(cfg.Simulation.CheckoutDelay)),
		views:      views,
	}, nil
}
