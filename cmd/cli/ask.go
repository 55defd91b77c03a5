package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/viajeia/viajeia/internal/core"
)

type askResponse struct {
	Answer      string `json:"respuesta"`
	SessionID   string `json:"session_id"`
	Destination *struct {
		Name       string  `json:"nombre"`
		Currency   string  `json:"moneda"`
		RatePerUSD float64 `json:"tasa_usd"`
	} `json:"destino"`
	Photos []string `json:"fotos"`
}

type apiError struct {
	Error string `json:"error"`
}

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [pregunta]",
		Short: "Ask the travel planner a question",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}

	cmd.Flags().String("destino", "", "trip destination")
	cmd.Flags().String("fecha", "", "trip date")
	cmd.Flags().String("presupuesto", "", "trip budget")
	cmd.Flags().String("preferencia", "", "trip preference")
	cmd.Flags().Bool("new-session", false, "start a fresh conversation")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	configPath, _ := cmd.Flags().GetString("config")
	serverOverride, _ := cmd.Flags().GetString("server")
	sessionFlag, _ := cmd.Flags().GetString("session")
	newSession, _ := cmd.Flags().GetBool("new-session")

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	serverAddr := resolveServer(serverOverride, cfg)
	question := strings.Join(args, " ")

	sessionID := sessionFlag
	if sessionID == "" && !newSession {
		sessionID = loadActiveSession(cfg.DataDir)
	}

	form := &core.TripContext{}
	form.Destination, _ = cmd.Flags().GetString("destino")
	form.Date, _ = cmd.Flags().GetString("fecha")
	form.Budget, _ = cmd.Flags().GetString("presupuesto")
	form.Preference, _ = cmd.Flags().GetString("preferencia")

	payload := map[string]any{"pregunta": question}
	if *form != (core.TripContext{}) {
		payload["contexto"] = form
	}
	if sessionID != "" {
		payload["session_id"] = sessionID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL(serverAddr, "/api/plan"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		printDaemonNotRunning(serverAddr, err)
		return fmt.Errorf("reach daemon at %s: %w", serverAddr, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return errors.New(apiErr.Error)
		}
		return fmt.Errorf("daemon returned %s", resp.Status)
	}

	var answer askResponse
	if err := json.Unmarshal(raw, &answer); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	fmt.Println(answer.Answer)

	if answer.Destination != nil && answer.Destination.Currency != "" {
		fmt.Println()
		if answer.Destination.RatePerUSD > 0 {
			fmt.Printf("moneda local: %s (1 USD = %.2f %s)\n",
				answer.Destination.Currency, answer.Destination.RatePerUSD, answer.Destination.Currency)
		} else {
			fmt.Println("moneda local:", answer.Destination.Currency)
		}
	}

	for _, photo := range answer.Photos {
		fmt.Println("foto:", photo)
	}

	if err := saveActiveSession(cfg.DataDir, answer.SessionID); err != nil {
		fmt.Println("warning: failed to save session:", err)
	}

	return nil
}
