// Command bot runs the queue bot next to the game client.
//
// this binary:
//  1. loads config from environment variables (.env during dev)
//  2. finds the game client (lockfile or explicit port/password)
//  3. connects the push socket and the chat platform
//  4. serves a small status API and waits for a signal from the OS to exit
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

	"github.com/jose-valero/lcu-queue-bot/internal/adapters/discord"
	"github.com/jose-valero/lcu-queue-bot/internal/adapters/lcu"
	"github.com/jose-valero/lcu-queue-bot/internal/adapters/twitch"
	"github.com/jose-valero/lcu-queue-bot/internal/app"
	"github.com/jose-valero/lcu-queue-bot/internal/domain/chat"
	"github.com/jose-valero/lcu-queue-bot/internal/httpapi"
	"github.com/jose-valero/lcu-queue-bot/internal/logging"
	"github.com/jose-valero/lcu-queue-bot/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// block till SIGINT/SIGTERM, this allows a clean shutdown (Ctrl+c, kill, etc)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("bot stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting", zap.String("config", cfg.Redacted()))

	creds, err := gameClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	rest := lcu.NewClient(creds, logger.Named("lcu.rest"))
	if name, err := rest.AppName(ctx); err != nil {
		logger.Warn("game client probe failed", zap.Error(err))
	} else {
		logger.Info("game client found", zap.String("app", name), zap.Int("port", creds.Port))
	}

	transport, err := chatTransport(cfg, logger)
	if err != nil {
		return err
	}

	bot := app.NewBot(app.Options{
		AdminID:        cfg.AdminID,
		Prefix:         cfg.Prefix,
		InviteSlots:    cfg.InviteSlots,
		ResolveTimeout: cfg.ResolveTimeout,
	}, rest, transport, logger.Named("bot"))

	socket := lcu.NewSocket(creds, logger.Named("lcu.socket"), lcu.WithReconnectDelay(cfg.LCU.ReconnectDelay))
	if err := bot.Subscribe(socket); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bot.Run(ctx) })
	g.Go(func() error {
		if err := socket.Run(ctx); err != nil {
			return fmt.Errorf("game socket: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := transport.Run(ctx, bot.HandleChat); err != nil {
			return fmt.Errorf("chat: %w", err)
		}
		return nil
	})
	if cfg.HTTPAddr != "" {
		g.Go(func() error { return serveStatus(ctx, cfg.HTTPAddr, bot, socket, logger.Named("http")) })
	}

	logger.Info("bot ready")
	return g.Wait()
}

// gameClient returns explicit credentials, or waits for the lockfile.
func gameClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (lcu.Credentials, error) {
	if cfg.LCU.Explicit() {
		return lcu.Credentials{
			Protocol: "https",
			Address:  "127.0.0.1",
			Port:     cfg.LCU.Port,
			Username: lcu.DefaultUsername,
			Password: cfg.LCU.Password,
		}, nil
	}
	logger.Info("waiting for game client lockfile", zap.String("path", cfg.LCU.Lockfile))
	creds, err := lcu.WaitForLockfile(ctx, cfg.LCU.Lockfile, cfg.LCU.LockfilePoll)
	if err != nil {
		return lcu.Credentials{}, fmt.Errorf("lockfile: %w", err)
	}
	return creds, nil
}

func chatTransport(cfg *config.Config, logger *zap.Logger) (chat.Transport, error) {
	switch cfg.Platform {
	case config.PlatformDiscord:
		return discord.New(cfg.Discord.Token, cfg.Discord.ChannelID, logger.Named("discord"))
	default:
		tokens, err := twitch.NewTokenManager(cfg.Twitch.TokenFile, cfg.Twitch.ClientID, cfg.Twitch.ClientSecret, logger.Named("twitch.token"))
		if err != nil {
			return nil, err
		}
		return twitch.NewClient(twitch.Config{
			Username: cfg.Twitch.Username,
			Channel:  cfg.Twitch.Channel,
		}, tokens, logger.Named("twitch")), nil
	}
}

func serveStatus(ctx context.Context, addr string, q httpapi.QueueSource, s httpapi.SocketStatus, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.SetupRoutes(q, s, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("status api listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("status api: %w", err)
	}
	return nil
}
