// Package budget approximates token costs and fits message sequences into a
// model's context window. The estimate is deliberately crude — four
// characters per token plus a flat buffer — and is a stable contract of its
// own, not an attempt at tokenizer parity.
package budget

import (
	"github.com/viajeia/viajeia/internal/core"
)

// Total context-window sizes for the supported models. Unknown models fail
// the pre-flight validator; FitToWindow falls back to the smallest window.
var modelWindows = map[string]int{
	"gpt-3.5-turbo":       4096,
	"gpt-3.5-turbo-16k":   16385,
	"gpt-4":               8192,
	"gpt-4-turbo":         128000,
	"gpt-4-turbo-preview": 128000,
	"gpt-4-32k":           32768,
	"gpt-4o":              128000,
	"gpt-4o-mini":         128000,
}

const (
	charsPerToken      = 4
	textTokenBuffer    = 10
	perMessageOverhead = 10
	fallbackWindow     = 4096

	// DefaultReservedOverhead is the slack kept for the system message and
	// request framing when no explicit reservation is given.
	DefaultReservedOverhead = 500
)

// WindowSize returns the context-window size for a known model.
func WindowSize(model string) (int, bool) {
	size, ok := modelWindows[model]
	return size, ok
}

// EstimateText estimates the token count of a text: ceil(len/4) plus a flat
// buffer, and zero for empty text.
func EstimateText(text string) int {
	if text == "" {
		return 0
	}

	return (len(text)+charsPerToken-1)/charsPerToken + textTokenBuffer
}

// EstimateMessages estimates the total token count of a message sequence,
// charging a fixed per-message overhead for role and structure.
func EstimateMessages(messages []core.Message) int {
	total := 0
	for _, msg := range messages {
		total += perMessageOverhead
		total += EstimateText(msg.Content)
	}

	return total
}

// FitToWindow bounds messages so that history, the reserved overhead, and the
// response all fit in the model's window. The system message is always kept,
// even when the budget is already negative: downstream role validation
// requires the sequence to open with it. Remaining messages are walked newest
// to oldest, stopping at the first one that would overflow; accepted messages
// come back in chronological order. If nothing fits, the single most recent
// non-system message is kept anyway — a degraded request beats an empty one.
func FitToWindow(messages []core.Message, model string, maxResponseTokens, reservedOverhead int) []core.Message {
	if len(messages) == 0 {
		return nil
	}

	window, ok := modelWindows[model]
	if !ok {
		window = fallbackWindow
	}

	var system *core.Message
	var rest []core.Message

	for i := range messages {
		if messages[i].Role == core.RoleSystem && system == nil {
			system = &messages[i]
		} else {
			rest = append(rest, messages[i])
		}
	}

	if len(rest) == 0 {
		if system != nil {
			return []core.Message{*system}
		}
		return nil
	}

	available := window - maxResponseTokens - reservedOverhead

	var kept []core.Message
	used := 0

	if system != nil {
		used = EstimateMessages([]core.Message{*system})
	}

	if available >= 0 {
		for i := len(rest) - 1; i >= 0; i-- {
			cost := perMessageOverhead + EstimateText(rest[i].Content)

			if used+cost > available {
				break
			}

			kept = append([]core.Message{rest[i]}, kept...)
			used += cost
		}
	}

	if len(kept) == 0 {
		kept = []core.Message{rest[len(rest)-1]}
	}

	if system != nil {
		return append([]core.Message{*system}, kept...)
	}

	return kept
}

// Plan runs FitToWindow and reports the estimated cost of the result.
func Plan(messages []core.Message, model string, maxResponseTokens, reservedOverhead int) core.BudgetPlan {
	fitted := FitToWindow(messages, model, maxResponseTokens, reservedOverhead)

	return core.BudgetPlan{
		Messages:        fitted,
		EstimatedTokens: EstimateMessages(fitted),
	}
}
