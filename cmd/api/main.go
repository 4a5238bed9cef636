package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/sngm3741/mymoo-services/api/internal/config"
	"github.com/sngm3741/mymoo-services/api/internal/logging"
	"github.com/sngm3741/mymoo-services/api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLogger.Fatal().Err(err).Msg("設定の読み込みに失敗しました")
	}
	logger := logging.New(cfg.AppEnv, cfg.LogLevel)

	if err := cfg.ValidateAuth(); err != nil {
		logger.Fatal().Err(err).Msg("認証設定が不足しています")
	}

	ctx := context.Background()
	backend, err := server.OpenBackend(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("ストレージへの接続に失敗しました")
	}

	app := server.New(cfg, backend, logger)
	if err := app.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("サーバー起動に失敗")
	}
}
