package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/viajeia/viajeia/internal/config"
)

func execute() {
	rootCmd := &cobra.Command{
		Use:   "viajeia [pregunta]",
		Short: "viajeia CLI",
		Args:  cobra.ArbitraryArgs,
		RunE:  runAsk,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config file")
	rootCmd.PersistentFlags().String("server", "", "daemon address")
	rootCmd.PersistentFlags().String("session", "", "session id to reuse")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newStopCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newStatusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	configPath := path

	if configPath == "" {
		configPath = filepath.Join(config.Default().DataDir, "config.toml")
	}

	return config.LoadOrCreate(configPath)
}

func resolveServer(override string, cfg config.Config) string {
	if override != "" {
		return override
	}

	return clientAddrFromBind(cfg.Bind)
}

func clientAddrFromBind(bind string) string {
	host, port, err := netSplitHostPort(bind)
	if err != nil || port == "" {
		return bind
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		return "127.0.0.1:" + port
	}

	return bind
}

func netSplitHostPort(addr string) (string, string, error) {
	if strings.HasPrefix(addr, ":") {
		return "", strings.TrimPrefix(addr, ":"), nil
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", "", err
	}

	return host, port, nil
}

func serverURL(addr, path string) string {
	return "http://" + addr + path
}

func alreadyRunning(addr string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL(addr, "/healthz"), nil)
	if err != nil {
		return false
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func defaultDaemonBin() string {
	executablePath, err := os.Executable()
	if err != nil {
		return "viajeia-daemon"
	}

	executableDir := filepath.Dir(executablePath)
	daemonPath := filepath.Join(executableDir, "viajeia-daemon")
	if _, err := os.Stat(daemonPath); err == nil {
		return daemonPath
	}

	return "viajeia-daemon"
}

func loadActiveSession(dataDir string) string {
	path := filepath.Join(dataDir, "active_session")
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}

func saveActiveSession(dataDir string, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(dataDir, "active_session")

	return os.WriteFile(path, []byte(sessionID), 0o644)
}

func printDaemonNotRunning(addr string, err error) {
	fmt.Println("daemon is not running at", addr)
	fmt.Println("start with: viajeia start")
	if err != nil {
		fmt.Println("error:", err)
	}
}
