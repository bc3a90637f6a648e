package main

import (
	"os"
	"os/signal"
	"syscall"

	"rollcall/bot"
	"rollcall/config"
	"rollcall/keepalive"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Discord and manage events until interrupted",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Invalid configuration.", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	templates, registry, err := openStores(ctx, cfg.StorageConfig)
	if err != nil {
		logger.Error("Failed to open storage.", zap.Error(err))
		return err
	}

	b, err := bot.New(cfg.Token, cfg.GuildID, templates, registry, logger)
	if err != nil {
		logger.Error("Failed to start bot.", zap.Error(err))
		return err
	}
	defer b.Shutdown()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.RosterRefresher(ctx, cfg.RefreshInterval)
	})
	if cfg.KeepaliveAddr != "" {
		g.Go(func() error {
			return keepalive.New(cfg.KeepaliveAddr, logger).Run(ctx)
		})
	}

	logger.Info("Running. Press CTRL-C to exit.")
	if err := g.Wait(); err != nil {
		logger.Error("Stopped with error.", zap.Error(err))
		return err
	}
	return nil
}
