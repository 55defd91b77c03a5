package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/viajeia/viajeia/internal/app"
	"github.com/viajeia/viajeia/internal/config"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the viajeia daemon in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			cfg.Debug = config.LoadDebugConfigFromEnv(cfg.Debug)

			return app.RunServer(cfg)
		},
	}
}

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the viajeia daemon in the background",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			return startDaemon(cfg, configPath)
		},
	}
}

func startDaemon(cfg config.Config, configPath string) error {
	serverAddr := resolveServer("", cfg)

	if alreadyRunning(serverAddr) {
		fmt.Println("daemon already running at", serverAddr)
		return nil
	}

	daemonCmd := exec.Command(defaultDaemonBin())
	if configPath != "" {
		daemonCmd.Args = append(daemonCmd.Args, "--config", configPath)
	}

	logFile := filepath.Join(cfg.DataDir, "daemon.log")

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	daemonCmd.Stdout = out
	daemonCmd.Stderr = out

	if err := daemonCmd.Start(); err != nil {
		return err
	}

	fmt.Println("started daemon pid", daemonCmd.Process.Pid)

	return nil
}
