package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/viajeia/viajeia/internal/core"
	"github.com/viajeia/viajeia/internal/enrich"
	"github.com/viajeia/viajeia/internal/providers"
)

type fakeProvider struct {
	lastRequest providers.ChatRequest
	response    core.ChatResponse
	err         error
}

func (p *fakeProvider) GenerateChat(_ context.Context, req providers.ChatRequest) (core.ChatResponse, error) {
	p.lastRequest = req
	if p.err != nil {
		return core.ChatResponse{}, p.err
	}
	return p.response, nil
}

func (p *fakeProvider) ConcurrencyLimit() int { return 1 }

func TestOrchestrator_BuildReply(t *testing.T) {
	provider := &fakeProvider{
		response: core.ChatResponse{
			Content: "» ALOJAMIENTO: ...",
			Usage:   &core.Usage{PromptTokens: 120, CompletionTokens: 80, TotalTokens: 200},
		},
	}

	orch := NewOrchestrator(provider, "gpt-4o-mini", 1500, 500, 0.8, nil)

	reply := orch.BuildReply(context.Background(), Request{
		Question: "¿Qué puedo hacer en Roma?",
		Form:     &core.TripContext{Destination: "Roma", Budget: "2000"},
	})

	if reply.Degraded {
		t.Fatal("reply should not be degraded")
	}
	if reply.Answer != "» ALOJAMIENTO: ..." {
		t.Errorf("answer = %q", reply.Answer)
	}
	if reply.Usage == nil || reply.Usage.TotalTokens != 200 {
		t.Errorf("usage = %+v", reply.Usage)
	}

	sent := provider.lastRequest
	if sent.Model != "gpt-4o-mini" || sent.MaxTokens != 1500 || sent.Temperature != 0.8 {
		t.Errorf("request parameters mismatch: %+v", sent)
	}
	if len(sent.Messages) != 2 {
		t.Fatalf("got %d messages, want system + question", len(sent.Messages))
	}
	if sent.Messages[0].Role != core.RoleSystem {
		t.Errorf("first message role = %q", sent.Messages[0].Role)
	}
	if !strings.Contains(sent.Messages[0].Content, "Destino: Roma") {
		t.Error("system prompt should carry the form destination")
	}
	if sent.Messages[1].Content != "¿Qué puedo hacer en Roma?" {
		t.Errorf("question message = %q", sent.Messages[1].Content)
	}
}

func TestOrchestrator_DegradedOnProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection refused")}

	orch := NewOrchestrator(provider, "gpt-4o-mini", 1500, 500, 0.8, nil)

	reply := orch.BuildReply(context.Background(), Request{Question: "hola, planea mi viaje"})

	if !reply.Degraded {
		t.Fatal("reply should be degraded")
	}
	if !strings.Contains(reply.Answer, "connection refused") {
		t.Errorf("degraded answer should name the error: %q", reply.Answer)
	}
	if !strings.Contains(reply.Answer, "Ups") {
		t.Errorf("degraded answer should be the fallback text: %q", reply.Answer)
	}
}

func TestOrchestrator_ReplaysRecentHistory(t *testing.T) {
	provider := &fakeProvider{response: core.ChatResponse{Content: "ok"}}
	orch := NewOrchestrator(provider, "gpt-4o", 1500, 500, 0.8, nil)

	history := make([]core.Turn, 12)
	for i := range history {
		history[i] = core.Turn{Question: "q", Answer: "a"}
	}

	orch.BuildReply(context.Background(), Request{Question: "¿y el clima?", History: history})

	// system + 10 replayed turns (2 messages each) + question
	if got := len(provider.lastRequest.Messages); got != 22 {
		t.Errorf("got %d messages, want 22", got)
	}

	roles := provider.lastRequest.Messages
	if roles[1].Role != core.RoleUser || roles[2].Role != core.RoleAssistant {
		t.Error("history must replay as alternating user/assistant messages")
	}
}

func TestBuildSystemContent_Blocks(t *testing.T) {
	history := []core.Turn{
		{Question: "¿Qué ver en París?", Answer: strings.Repeat("x", 300)},
	}

	weather := &enrich.Weather{
		Place:       "París",
		Temperature: 18.5,
		FeelsLike:   17.9,
		Condition:   "nubes dispersas",
		Humidity:    60,
		WindSpeed:   4.1,
	}

	content := buildSystemContent(
		&core.TripContext{Destination: "Roma", Date: "2026-09-10", Preference: "cultural"},
		weather,
		history,
		"París",
	)

	for _, want := range []string{
		"INFORMACIÓN DEL VIAJERO",
		"Destino: Roma",
		"Fecha del viaje: 2026-09-10",
		"CLIMA ACTUAL EN PARÍS",
		"nubes dispersas",
		"RESUMEN DE LA CONVERSACIÓN PREVIA",
		"DESTINO ACTUAL DE LA CONVERSACIÓN: París",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("system content missing %q", want)
		}
	}

	// Long answers are truncated in the summary.
	if strings.Contains(content, strings.Repeat("x", 300)) {
		t.Error("summary should truncate long answers")
	}
	if !strings.Contains(content, strings.Repeat("x", 200)+"...") {
		t.Error("truncated answer should end with an ellipsis")
	}
}

func TestBuildSystemContent_NoOptionalBlocks(t *testing.T) {
	content := buildSystemContent(nil, nil, nil, "")

	for _, absent := range []string{
		"INFORMACIÓN DEL VIAJERO",
		"CLIMA ACTUAL",
		"RESUMEN DE LA CONVERSACIÓN PREVIA",
		"DESTINO ACTUAL DE LA CONVERSACIÓN",
	} {
		if strings.Contains(content, absent) {
			t.Errorf("bare system content should not include %q", absent)
		}
	}

	if !strings.Contains(content, "Eres ViajeIA") {
		t.Error("persona missing")
	}
}

func TestBuildSystemContent_DestinationMatchingFormOmitted(t *testing.T) {
	content := buildSystemContent(&core.TripContext{Destination: "Roma"}, nil, nil, "Roma")

	if strings.Contains(content, "DESTINO ACTUAL DE LA CONVERSACIÓN") {
		t.Error("no destination note when the conversation matches the form")
	}
}
