package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viajeia/viajeia/internal/app"
)

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the viajeia daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			pid := app.ReadPID(app.PIDFilePath(cfg.DataDir))
			if pid == 0 {
				printDaemonNotRunning(resolveServer("", cfg), nil)
				return nil
			}

			if err := app.StopPID(pid); err != nil {
				return err
			}

			fmt.Println("sent shutdown signal to pid", pid)
			return nil
		},
	}
}
