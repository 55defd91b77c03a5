// Package app wires the services together and runs the HTTP server.
package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/viajeia/viajeia/internal/config"
	"github.com/viajeia/viajeia/internal/destination"
	"github.com/viajeia/viajeia/internal/enrich"
	"github.com/viajeia/viajeia/internal/planner"
	"github.com/viajeia/viajeia/internal/providers"
	"github.com/viajeia/viajeia/internal/ratelimit"
	"github.com/viajeia/viajeia/internal/safety"
	"github.com/viajeia/viajeia/internal/session"
	"github.com/viajeia/viajeia/internal/stats"
)

// Services holds every collaborator the HTTP surface needs.
type Services struct {
	Gate         *safety.Gate
	Store        session.Store
	Resolver     *destination.Resolver
	Orchestrator *planner.Orchestrator
	Weather      *enrich.WeatherClient
	Exchange     *enrich.ExchangeClient
	Photos       *enrich.PhotoClient
	Stats        *stats.Sink
	PlanLimiter  *ratelimit.PerKey
	StatsLimiter *ratelimit.PerKey
}

func NewServices(cfg config.Config, logger *slog.Logger) (Services, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store := session.NewMemoryStore()

	provider := providers.NewOpenAIProvider(providers.OpenAIConfig{
		Endpoint:         cfg.OpenAI.Endpoint,
		APIKey:           cfg.OpenAI.APIKey,
		HTTPTimeout:      time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
		ConcurrencyLimit: cfg.OpenAI.ConcurrencyLimit,
	}, cfg.Debug)

	router := &providers.SingleProviderRouter{Provider: provider}

	orchestrator := planner.NewOrchestrator(
		router,
		cfg.OpenAI.Model,
		cfg.OpenAI.MaxResponseTokens,
		cfg.OpenAI.ReservedOverhead,
		cfg.OpenAI.Temperature,
		logger,
	)

	sink, err := stats.NewSink(filepath.Join(cfg.DataDir, "stats.json"), logger)
	if err != nil {
		return Services{}, fmt.Errorf("open stats sink: %w", err)
	}

	return Services{
		Gate:         safety.NewGate(cfg.Validation.MinQuestionLength),
		Store:        store,
		Resolver:     destination.NewResolver(store),
		Orchestrator: orchestrator,
		Weather:      enrich.NewWeatherClient(cfg.Weather.Endpoint, cfg.Weather.APIKey, time.Duration(cfg.Weather.TimeoutSeconds)*time.Second),
		Exchange:     enrich.NewExchangeClient(cfg.Exchange.Endpoint, cfg.Exchange.APIKey, time.Duration(cfg.Exchange.TimeoutSeconds)*time.Second),
		Photos:       enrich.NewPhotoClient(cfg.Photos.Endpoint, cfg.Photos.APIKey, time.Duration(cfg.Photos.TimeoutSeconds)*time.Second),
		Stats:        sink,
		PlanLimiter:  ratelimit.NewPerKey(cfg.RateLimit.PlanPerMinute),
		StatsLimiter: ratelimit.NewPerKey(cfg.RateLimit.StatsPerMinute),
	}, nil
}
