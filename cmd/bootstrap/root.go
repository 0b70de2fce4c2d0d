package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bookforge-api/internal/application/storage"
	"bookforge-api/internal/config"
	"bookforge-api/internal/wire"
	"bookforge-api/pkg/logger"
)

var (
	configDir string
	profileID string
)

var rootCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "bookforge storage maintenance",
	Long: `bootstrap manages the document store used by the API:
create the documents table, seed a sample draft for a profile, and print stored documents.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory containing config.yaml (default: ./configs)")
	rootCmd.PersistentFlags().StringVar(&profileID, "profile", storage.DefaultNamespace, "profile namespace to operate on")

	rootCmd.AddCommand(migrateCmd, seedCmd, showCmd)
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configDir != "" {
		cfg, err = config.LoadFrom(configDir)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	return cfg, nil
}

// openStore 初始化存储层，返回的 ctx 已绑定 --profile 命名空间
func openStore(ctx context.Context) (context.Context, *wire.StoreLayer, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	layer, cleanup, err := wire.InitializeStore(ctx, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialize store: %w", err)
	}
	ctx = storage.WithNamespace(ctx, profileID)
	ctx = logger.WithContext(ctx, logger.ProfileIDKey, profileID)
	return ctx, layer, cleanup, nil
}
