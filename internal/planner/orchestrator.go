// Package planner turns a validated question plus its gathered context into
// one provider call and a final answer.
package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viajeia/viajeia/internal/budget"
	"github.com/viajeia/viajeia/internal/core"
	"github.com/viajeia/viajeia/internal/enrich"
	"github.com/viajeia/viajeia/internal/providers"
)

// historyTurnsInMessages is how many past turns are replayed as real
// user/assistant messages; older turns only survive in the condensed summary
// inside the system prompt.
const historyTurnsInMessages = 10

const degradedReplyFormat = "¡Ups! 😅 Hubo un pequeño problema técnico mientras procesaba tu solicitud. " +
	"Por favor, intenta de nuevo en un momento. Si el problema persiste, verifica tu conexión a internet. Error: %v"

// Request carries everything the orchestrator needs to answer one question.
// Question is the possibly rewritten form — destination references already
// resolved.
type Request struct {
	Question            string
	Form                *core.TripContext
	Weather             *enrich.Weather
	History             []core.Turn
	ResolvedDestination string
}

// Reply is the orchestrator's result. Degraded is set when the provider call
// failed and Answer carries the fallback text instead of a model response.
type Reply struct {
	Answer   string
	Usage    *core.Usage
	Degraded bool
}

type Orchestrator struct {
	provider          providers.Provider
	model             string
	maxResponseTokens int
	reservedOverhead  int
	temperature       float64
	logger            *slog.Logger
}

func NewOrchestrator(provider providers.Provider, model string, maxResponseTokens, reservedOverhead int, temperature float64, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	if reservedOverhead <= 0 {
		reservedOverhead = budget.DefaultReservedOverhead
	}

	return &Orchestrator{
		provider:          provider,
		model:             model,
		maxResponseTokens: maxResponseTokens,
		reservedOverhead:  reservedOverhead,
		temperature:       temperature,
		logger:            logger,
	}
}

// BuildReply assembles the message sequence, fits it to the model window, and
// asks the provider. A provider failure never propagates: the caller always
// gets an answer, degraded if necessary.
func (o *Orchestrator) BuildReply(ctx context.Context, req Request) Reply {
	messages := o.buildMessages(req)
	plan := budget.Plan(messages, o.model, o.maxResponseTokens, o.reservedOverhead)

	o.logger.Debug("fitted prompt to model window",
		"messages", len(plan.Messages),
		"estimated_tokens", plan.EstimatedTokens,
	)

	resp, err := o.provider.GenerateChat(ctx, providers.ChatRequest{
		Messages:    plan.Messages,
		Model:       o.model,
		MaxTokens:   o.maxResponseTokens,
		Temperature: o.temperature,
	})
	if err != nil {
		o.logger.Warn("chat completion failed, returning degraded reply", "error", err)

		return Reply{
			Answer:   fmt.Sprintf(degradedReplyFormat, err),
			Degraded: true,
		}
	}

	return Reply{
		Answer: resp.Content,
		Usage:  resp.Usage,
	}
}

func (o *Orchestrator) buildMessages(req Request) []core.Message {
	system := buildSystemContent(req.Form, req.Weather, req.History, req.ResolvedDestination)

	messages := []core.Message{{Role: core.RoleSystem, Content: system}}

	start := len(req.History) - historyTurnsInMessages
	if start < 0 {
		start = 0
	}

	for _, turn := range req.History[start:] {
		messages = append(messages,
			core.Message{Role: core.RoleUser, Content: turn.Question},
			core.Message{Role: core.RoleAssistant, Content: turn.Answer},
		)
	}

	return append(messages, core.Message{Role: core.RoleUser, Content: req.Question})
}
