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

	"github.com/labstack/echo/v4"

	"github.com/24kim/Luzbot/internal/channel/telegram"
	"github.com/24kim/Luzbot/internal/config"
	"github.com/24kim/Luzbot/internal/dispatch"
	"github.com/24kim/Luzbot/internal/gate"
	"github.com/24kim/Luzbot/internal/handlers"
	"github.com/24kim/Luzbot/internal/providers"
	"github.com/24kim/Luzbot/internal/session"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := providers.NewHTTPClient(cfg.ProviderTimeout)
	bins := providers.NewBinClient(cfg.BinBaseURL, httpClient, logger)
	identities := providers.NewIdentityClient(cfg.IdentityBaseURL, httpClient, logger)
	mail := providers.NewMailClient(cfg.MailBaseURL, httpClient, logger)

	approvals := gate.New(cfg.AdminID)
	sessions := session.NewStore()
	dispatcher := dispatch.New(logger, cfg.AdminID, approvals, sessions, bins, identities, mail)

	adapter, err := telegram.New(cfg.BotToken, logger)
	if err != nil {
		logger.Error("create telegram adapter failed", slog.Any("error", err))
		os.Exit(1)
	}

	ops := echo.New()
	ops.HideBanner = true
	ops.HidePort = true
	handlers.NewStatusHandler(approvals).Register(ops)
	go func() {
		logger.Info("ops server start", slog.String("addr", cfg.HTTPAddr))
		if err := ops.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops server failed", slog.Any("error", err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ops.Shutdown(shutdownCtx); err != nil {
			logger.Error("ops server shutdown failed", slog.Any("error", err))
		}
	}()

	logger.Info("bot started",
		slog.String("account", adapter.Username()),
		slog.Int64("admin_id", cfg.AdminID))
	if err := adapter.Start(ctx, dispatcher); err != nil {
		logger.Error("adapter stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
