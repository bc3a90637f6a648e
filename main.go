package main

import (
	"context"
	"fmt"
	"os"

	"rollcall/config"
	"rollcall/dal"
	"rollcall/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	dbPath string
	debug  bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rollcall",
	Short: "Discord bot for role sign-up events",
	Long: `rollcall posts sign-up events built from role templates (raid, dungeon, ...)
and keeps each event's roster in sync with the reactions members add.

Run without a subcommand to start the bot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if debug {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&dbPath,
		"db",
		"",
		"SQLite database file path. Overrides DB_PATH.",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging.")

	rootCmd.AddCommand(serveCmd, seedCmd, templatesCmd)
}

// openStores opens the database and seeds the template store if it is empty.
func openStores(
	ctx context.Context,
	storage config.StorageConfig,
) (*dal.TemplateStore, *dal.EventRegistry, error) {
	if dbPath != "" {
		storage.DBPath = dbPath
	}

	db, err := dal.InitDB(storage.DBPath, logger)
	if err != nil {
		return nil, nil, err
	}

	var seed []models.RoleTemplate
	if storage.TemplatesFile != "" {
		seed, err = dal.LoadTemplatesFile(storage.TemplatesFile)
	} else {
		seed, err = dal.DefaultTemplates()
	}
	if err != nil {
		return nil, nil, err
	}

	templates := dal.NewTemplateStore(db, logger)
	seeded, err := templates.Seed(ctx, seed)
	if err != nil {
		return nil, nil, err
	}
	if seeded {
		logger.Info("Seeded templates.", zap.Int("count", len(seed)), zap.String("db", storage.DBPath))
	} else {
		logger.Debug("Templates already present, skipping seed.", zap.String("db", storage.DBPath))
	}

	return templates, dal.NewEventRegistry(db), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
