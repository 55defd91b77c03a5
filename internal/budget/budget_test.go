package budget

import (
	"strings"
	"testing"

	"github.com/viajeia/viajeia/internal/core"
)

func TestEstimateText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "empty is zero", in: "", want: 0},
		{name: "single char", in: "a", want: 11},       // ceil(1/4)=1, +10
		{name: "exact multiple", in: "abcd", want: 11}, // ceil(4/4)=1, +10
		{name: "rounds up", in: "abcde", want: 12},     // ceil(5/4)=2, +10
		{name: "hundred chars", in: strings.Repeat("x", 100), want: 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateText(tt.in); got != tt.want {
				t.Errorf("EstimateText(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestEstimateMessages(t *testing.T) {
	messages := []core.Message{
		{Role: core.RoleSystem, Content: strings.Repeat("s", 40)}, // 10 + (10+10)
		{Role: core.RoleUser, Content: ""},                        // 10 + 0
	}

	if got := EstimateMessages(messages); got != 40 {
		t.Errorf("EstimateMessages = %d, want 40", got)
	}
}

func TestFitToWindow_AvailableBudget(t *testing.T) {
	// gpt-3.5-turbo window 4096, response 1000, reserved 500 => 2596 for history.
	// Each filler message costs 10 + ceil(400/4)+10 = 120 tokens; 21 of them fit
	// alongside a 30-token system message (30 + 21*120 = 2550 <= 2596, 22 would
	// be 2670).
	messages := []core.Message{{Role: core.RoleSystem, Content: strings.Repeat("s", 40)}}
	for i := 0; i < 30; i++ {
		messages = append(messages, core.Message{Role: core.RoleUser, Content: strings.Repeat("x", 400)})
	}

	fitted := FitToWindow(messages, "gpt-3.5-turbo", 1000, 500)

	if got := len(fitted); got != 22 { // system + 21
		t.Fatalf("kept %d messages, want 22", got)
	}

	if fitted[0].Role != core.RoleSystem {
		t.Error("system message must come first")
	}
}

func TestFitToWindow_KeepsMostRecent(t *testing.T) {
	messages := []core.Message{
		{Role: core.RoleSystem, Content: "sys"},
		{Role: core.RoleUser, Content: "oldest " + strings.Repeat("a", 10000)},
		{Role: core.RoleAssistant, Content: "middle"},
		{Role: core.RoleUser, Content: "newest"},
	}

	fitted := FitToWindow(messages, "gpt-3.5-turbo", 1500, 500)

	if fitted[0].Role != core.RoleSystem {
		t.Fatal("system message must be preserved")
	}

	last := fitted[len(fitted)-1]
	if last.Content != "newest" {
		t.Errorf("final message is %q, want the most recent one", last.Content)
	}

	for _, msg := range fitted {
		if strings.HasPrefix(msg.Content, "oldest") {
			t.Error("oversized oldest message should have been dropped")
		}
	}
}

func TestFitToWindow_StopsAtFirstOverflow(t *testing.T) {
	// The walk is newest-first and stops at the first message that overflows;
	// an older message that would individually fit is not reconsidered.
	messages := []core.Message{
		{Role: core.RoleUser, Content: "tiny"},
		{Role: core.RoleAssistant, Content: strings.Repeat("b", 12000)},
		{Role: core.RoleUser, Content: "recent"},
	}

	fitted := FitToWindow(messages, "gpt-3.5-turbo", 1500, 500)

	if len(fitted) != 1 {
		t.Fatalf("kept %d messages, want only the most recent", len(fitted))
	}

	if fitted[0].Content != "recent" {
		t.Errorf("kept %q, want %q", fitted[0].Content, "recent")
	}
}

func TestFitToWindow_NeverEmptyWithNonSystemInput(t *testing.T) {
	huge := core.Message{Role: core.RoleUser, Content: strings.Repeat("z", 50000)}

	fitted := FitToWindow([]core.Message{huge}, "gpt-3.5-turbo", 1500, 500)

	if len(fitted) != 1 {
		t.Fatalf("kept %d messages, want the forced most recent", len(fitted))
	}
}

func TestFitToWindow_NegativeBudgetKeepsSystemAndLast(t *testing.T) {
	// window 4096 - 4000 - 500 < 0. The fallback must still open with the
	// system message so role validation accepts the degraded sequence.
	messages := []core.Message{
		{Role: core.RoleSystem, Content: "sys"},
		{Role: core.RoleUser, Content: "first"},
		{Role: core.RoleUser, Content: "last"},
	}

	fitted := FitToWindow(messages, "gpt-3.5-turbo", 4000, 500)

	if len(fitted) != 2 {
		t.Fatalf("kept %d messages, want system + last", len(fitted))
	}
	if fitted[0].Role != core.RoleSystem {
		t.Errorf("first message role = %q, want system", fitted[0].Role)
	}
	if fitted[1].Content != "last" {
		t.Errorf("kept %q, want the most recent message", fitted[1].Content)
	}
}

func TestFitToWindow_NegativeBudgetWithoutSystem(t *testing.T) {
	messages := []core.Message{
		{Role: core.RoleUser, Content: "first"},
		{Role: core.RoleUser, Content: "last"},
	}

	fitted := FitToWindow(messages, "gpt-3.5-turbo", 4000, 500)

	if len(fitted) != 1 || fitted[0].Content != "last" {
		t.Errorf("negative budget should keep exactly the last message, got %v", fitted)
	}
}

func TestFitToWindow_SystemOnly(t *testing.T) {
	messages := []core.Message{{Role: core.RoleSystem, Content: "sys"}}

	fitted := FitToWindow(messages, "gpt-3.5-turbo", 1000, 500)

	if len(fitted) != 1 || fitted[0].Role != core.RoleSystem {
		t.Errorf("system-only input should come back unchanged, got %v", fitted)
	}
}

func TestFitToWindow_PreservesChronologicalOrder(t *testing.T) {
	messages := []core.Message{
		{Role: core.RoleSystem, Content: "sys"},
		{Role: core.RoleUser, Content: "q1"},
		{Role: core.RoleAssistant, Content: "a1"},
		{Role: core.RoleUser, Content: "q2"},
	}

	fitted := FitToWindow(messages, "gpt-4o", 1000, 500)

	want := []string{"sys", "q1", "a1", "q2"}
	if len(fitted) != len(want) {
		t.Fatalf("kept %d messages, want %d", len(fitted), len(want))
	}

	for i, content := range want {
		if fitted[i].Content != content {
			t.Errorf("position %d: got %q, want %q", i, fitted[i].Content, content)
		}
	}
}

func TestPlan_ReportsEstimatedCost(t *testing.T) {
	messages := []core.Message{
		{Role: core.RoleSystem, Content: "sys"},
		{Role: core.RoleUser, Content: "hola"},
	}

	plan := Plan(messages, "gpt-4o", 1500, 500)

	if len(plan.Messages) != 2 {
		t.Fatalf("kept %d messages, want 2", len(plan.Messages))
	}

	want := EstimateMessages(messages)
	if plan.EstimatedTokens != want {
		t.Errorf("estimated tokens = %d, want %d", plan.EstimatedTokens, want)
	}
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name      string
		model     string
		maxTokens int
		history   []core.Message
		wantErr   string
	}{
		{name: "valid", model: "gpt-3.5-turbo", maxTokens: 1000},
		{name: "unknown model", model: "gpt-9", maxTokens: 1000, wantErr: "not supported"},
		{name: "zero response tokens", model: "gpt-4", maxTokens: 0, wantErr: "positive"},
		{name: "response exceeds window", model: "gpt-3.5-turbo", maxTokens: 5000, wantErr: "exceeds the model window"},
		{
			name:      "history plus response exceeds window",
			model:     "gpt-3.5-turbo",
			maxTokens: 1000,
			history: []core.Message{
				{Role: core.RoleUser, Content: strings.Repeat("h", 20000)},
			},
			wantErr: "exceed the model window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.model, tt.maxTokens, tt.history)

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}
