package providers

import (
	"fmt"

	"github.com/viajeia/viajeia/internal/core"
)

type ValidationError struct {
	Index        int
	CurrentRole  core.Role
	PreviousRole core.Role
	Message      string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// validateRoleAlternation rejects sequences the chat API would refuse
// anyway: a non-system leading message or two consecutive messages with the
// same role.
func validateRoleAlternation(messages []core.Message) error {
	if len(messages) == 0 {
		return nil
	}

	if messages[0].Role != core.RoleSystem {
		return &ValidationError{
			Index:   0,
			Message: fmt.Sprintf("first message must be system role, got: %s", messages[0].Role),
		}
	}

	var prevRole core.Role

	for i := 1; i < len(messages); i++ {
		currentRole := messages[i].Role

		if currentRole == core.RoleSystem {
			return &ValidationError{
				Index:       i,
				CurrentRole: currentRole,
				Message:     fmt.Sprintf("system message at index %d is not first", i),
			}
		}

		if currentRole == prevRole {
			return &ValidationError{
				Index:        i,
				CurrentRole:  currentRole,
				PreviousRole: prevRole,
				Message:      fmt.Sprintf("consecutive %s messages at index %d and %d", currentRole, i-1, i),
			}
		}

		prevRole = currentRole
	}

	return nil
}
