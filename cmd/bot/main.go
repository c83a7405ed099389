package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/immortal-music/mlbbtopup/internal/bot"
	"github.com/immortal-music/mlbbtopup/internal/config"
	"github.com/immortal-music/mlbbtopup/internal/db"
	"github.com/immortal-music/mlbbtopup/internal/gate"
	"github.com/immortal-music/mlbbtopup/internal/logger"
	"github.com/immortal-music/mlbbtopup/internal/notify"
	"github.com/immortal-music/mlbbtopup/internal/order"
	"github.com/immortal-music/mlbbtopup/internal/pricing"
	"github.com/immortal-music/mlbbtopup/internal/server"
	"github.com/immortal-music/mlbbtopup/internal/session"
	"github.com/immortal-music/mlbbtopup/internal/settings"
	"github.com/immortal-music/mlbbtopup/internal/topup"
	"github.com/immortal-music/mlbbtopup/internal/user"
)

func main() {
	logger.Init()
	logger.Info("starting mlbb top-up bot")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// An unreachable store at startup is fatal.
	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	logger.Info("mongodb connected")

	database := client.Database(cfg.MongoDB)
	users := user.NewRepository(database)
	orders := order.NewRepository(database)
	topups := topup.NewRepository(database)
	settingsRepo := settings.NewRepository(database, cfg.OwnerID)

	sessions := session.New(cfg.RedisAddr)
	defer sessions.Close()
	if err := sessions.Ping(ctx); err != nil {
		logger.Fatalf("failed to connect to redis: %v", err)
	}
	logger.Info("redis connected")

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Fatalf("failed to connect to telegram: %v", err)
	}
	logger.Infof("authorized as @%s", api.Self.UserName)

	maint := gate.NewMaintenance()
	authGate := gate.New(settingsRepo, sessions, maint, strconv.FormatInt(cfg.OwnerID, 10))
	priceTable := pricing.NewTable(settingsRepo)
	notifier := notify.New(bot.NewSender(api), settingsRepo, cfg.AdminGroupID)
	orderService := order.NewService(authGate, priceTable, users, orders, notifier)
	topupService := topup.NewService(authGate, users, topups, sessions, notifier)

	tgBot := bot.New(api, bot.Deps{
		Config:   cfg,
		Gate:     authGate,
		Maint:    maint,
		Users:    users,
		Orders:   orderService,
		Topups:   topupService,
		Pricing:  priceTable,
		Settings: settingsRepo,
		Sessions: sessions,
	})

	srv := server.New(client, sessions)
	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("sidecar listening on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	go tgBot.Run(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("sidecar error: %v", err)
	}

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("error during sidecar shutdown: %v", err)
	}

	logger.Info("stopped")
}
