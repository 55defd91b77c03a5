package budget

import (
	"fmt"

	"github.com/viajeia/viajeia/internal/core"
)

// ValidateRequest rejects model/budget combinations that cannot work: an
// unknown model name, a non-positive or over-window response budget, and
// optionally a history that cannot fit. Startup configuration checks run it
// so these surface as fatal errors; FitToWindow never invokes it and
// degrades instead of failing.
func ValidateRequest(model string, maxResponseTokens int, history []core.Message) error {
	window, ok := modelWindows[model]
	if !ok {
		return fmt.Errorf("model %q is not supported", model)
	}

	if maxResponseTokens <= 0 {
		return fmt.Errorf("max response tokens must be positive, got %d", maxResponseTokens)
	}

	if maxResponseTokens > window {
		return fmt.Errorf("max response tokens (%d) exceeds the model window (%d)", maxResponseTokens, window)
	}

	if len(history) > 0 {
		historyTokens := EstimateMessages(history)
		total := historyTokens + maxResponseTokens

		if total > window {
			return fmt.Errorf(
				"history and response exceed the model window: history ~%d tokens, response %d, total ~%d, window %d",
				historyTokens, maxResponseTokens, total, window)
		}
	}

	return nil
}
