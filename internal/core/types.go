package core

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the sequence sent to the chat completion service.
// Built fresh per request, never persisted.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Turn is one completed question/answer exchange. Turns are immutable once
// appended to a session.
type Turn struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp"`
}

// TripContext is the optional structured form a traveler can submit alongside
// the free-form question.
type TripContext struct {
	Destination string `json:"destino,omitempty"`
	Date        string `json:"fecha,omitempty"`
	Budget      string `json:"presupuesto,omitempty"`
	Preference  string `json:"preferencia,omitempty"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ChatResponse struct {
	Content string
	Usage   *Usage
}

// BudgetPlan is the outcome of fitting a message sequence into a model's
// context window.
type BudgetPlan struct {
	Messages        []Message
	EstimatedTokens int
}
