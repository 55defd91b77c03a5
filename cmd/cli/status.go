package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viajeia/viajeia/internal/app"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			serverOverride, _ := cmd.Flags().GetString("server")

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			serverAddr := resolveServer(serverOverride, cfg)
			running := alreadyRunning(serverAddr)
			pid := app.ReadPID(app.PIDFilePath(cfg.DataDir))

			fmt.Println("viajeia daemon")
			fmt.Println("  address:", serverAddr)
			fmt.Println("  running:", running)

			if pid != 0 {
				fmt.Println("  pid:", pid)
			}

			fmt.Println("  data_dir:", cfg.DataDir)
			fmt.Println("  model:", cfg.OpenAI.Model)

			if !running {
				fmt.Println("start with: viajeia start")
			}

			return nil
		},
	}
}
