package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/viajeia/viajeia/internal/app"
	"github.com/viajeia/viajeia/internal/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	var (
		configPathFlag = flag.String("config", "", "path to config file (default ~/.viajeia/config.toml)")
		bindFlag       = flag.String("bind", "", "HTTP bind address")
		dataDirFlag    = flag.String("data-dir", "", "base data dir (default ~/.viajeia)")
	)
	flag.Parse()

	configPath := *configPathFlag
	if configPath == "" {
		configPath = filepath.Join(config.Default().DataDir, "config.toml")
	}

	daemonConfig, err := config.LoadOrCreate(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setIfNotEmpty := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}

	setIfNotEmpty(&daemonConfig.Bind, *bindFlag)
	setIfNotEmpty(&daemonConfig.DataDir, *dataDirFlag)

	daemonConfig.Debug = config.LoadDebugConfigFromEnv(daemonConfig.Debug)

	if err := app.RunServer(daemonConfig); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
