package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wordflip/internal/client"
	"wordflip/internal/config"
	"wordflip/internal/handler"
	"wordflip/internal/storage"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting wordflip bot")

	cfg, err := config.LoadBot()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Local storage survives server outages
	store, err := storage.OpenSQLite(cfg.LocalDBPath)
	if err != nil {
		logger.Fatal("Failed to open local storage", zap.Error(err))
	}
	defer store.Close()

	logger.Info("Local storage opened", zap.String("path", cfg.LocalDBPath))

	apiClient := client.NewAPIClient(cfg.APIURL, cfg.RequestTimeout)
	conn := client.NewConnectivity(apiClient, logger)

	apps := client.NewRegistry(func(key string) *client.App {
		return client.NewApp(apiClient, conn, store.Namespace(key), cfg.TargetLang, logger)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Startup probe sets the initial mode
	probeCtx, probeCancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	connected := conn.Probe(probeCtx)
	probeCancel()
	logger.Info("Server probe finished", zap.String("api_url", cfg.APIURL), zap.Bool("connected", connected))

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	h := handler.NewHandler(bot, apps, conn, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	if cfg.ProbeInterval > 0 {
		go runProbeJob(ctx, conn, cfg.ProbeInterval, cfg.RequestTimeout, logger)
	}

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	bot.Stop()
	cancel()

	logger.Info("Bot stopped gracefully", zap.Int("sessions", apps.Len()))
}

// runProbeJob re-probes the server so an offline bot can return to remote mode
func runProbeJob(ctx context.Context, conn *client.Connectivity, interval, timeout time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Probe job stopped")
			return
		case <-ticker.C:
			if conn.Connected() {
				continue
			}
			probeCtx, cancel := context.WithTimeout(ctx, timeout)
			connected := conn.Probe(probeCtx)
			cancel()
			logger.Debug("Scheduled probe finished", zap.Bool("connected", connected))
		}
	}
}
