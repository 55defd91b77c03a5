package safety

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Hard limits independent of the configurable question bounds.
const (
	maxPromptLength  = 2000
	codeLineLimit    = 5
	codePunctuation  = "{}[]();=<>"
	codeSpecialShare = 0.10
)

// Result is the outcome of validating a prompt. Sanitized is only set when
// Valid is true; UnsafePhrases is only set when the unsafe-phrase scan hit.
type Result struct {
	Valid         bool
	Reason        string
	Sanitized     string
	UnsafePhrases []string
}

// Gate validates and sanitizes raw user input before anything downstream
// sees it. It is stateless and safe for concurrent use.
type Gate struct {
	minLength int
}

func NewGate(minLength int) *Gate {
	if minLength <= 0 {
		minLength = 10
	}
	return &Gate{minLength: minLength}
}

// Validate runs the checks in a fixed order: length, topic, unsafe phrases,
// hard cap, code heuristic. Topic deliberately precedes the unsafe scan so a
// short off-topic prompt reports "off topic" rather than "unsafe".
func (g *Gate) Validate(question string) Result {
	trimmed := strings.TrimSpace(question)

	if utf8.RuneCountInString(trimmed) < g.minLength {
		return Result{Reason: "La pregunta es muy corta. Por favor, proporciona más detalles."}
	}

	if onTopic, reason := isTravelTopic(question); !onTopic {
		return Result{Reason: reason}
	}

	if phrases := DetectUnsafePhrases(question); len(phrases) > 0 {
		return Result{
			Reason: "Lo siento, tu pregunta contiene instrucciones que no puedo procesar. " +
				"Por favor, haz una pregunta relacionada con planificación de viajes, " +
				"destinos, recomendaciones turísticas, o información sobre viajes.",
			UnsafePhrases: phrases,
		}
	}

	if utf8.RuneCountInString(question) > maxPromptLength {
		return Result{Reason: "La pregunta es demasiado larga. Por favor, sé más conciso (máximo 2000 caracteres)."}
	}

	if looksLikeCode(question) {
		return Result{Reason: "Por favor, haz una pregunta sobre viajes, no código de programación."}
	}

	return Result{Valid: true, Sanitized: Sanitize(question)}
}

// isTravelTopic applies the substring heuristic: one travel keyword is
// enough to pass. With zero travel keywords, a matched off-domain indicator
// names the offending topic; otherwise the generic redirect is returned.
func isTravelTopic(text string) (bool, string) {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < 10 {
		return false, "El texto es muy corto para determinar el tema"
	}

	normalized := Normalize(text)

	for _, keyword := range travelKeywords {
		if strings.Contains(normalized, keyword) {
			return true, ""
		}
	}

	for _, indicator := range offDomainKeywords {
		if strings.Contains(normalized, indicator) {
			return false, fmt.Sprintf("Esta pregunta parece ser sobre '%s', no sobre viajes", indicator)
		}
	}

	return false, "Por favor, haz una pregunta relacionada con viajes y planificación de viajes"
}

// looksLikeCode flags prompts with many lines and a high share of
// programming punctuation.
func looksLikeCode(text string) bool {
	if strings.Count(text, "\n") <= codeLineLimit {
		return false
	}

	special := 0
	total := 0
	for _, r := range text {
		total++
		if strings.ContainsRune(codePunctuation, r) {
			special++
		}
	}

	return float64(special) > float64(total)*codeSpecialShare
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Sanitize strips control characters, collapses whitespace, escapes HTML,
// and caps the result. The output is what gets sent downstream and stored.
func Sanitize(question string) string {
	if question == "" {
		return ""
	}

	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || (r >= 0x7f && r <= 0x9f) {
			return -1
		}
		return r
	}, question)

	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	cleaned = html.EscapeString(strings.TrimSpace(cleaned))

	if runes := []rune(cleaned); len(runes) > maxPromptLength {
		cleaned = string(runes[:maxPromptLength])
	}

	return cleaned
}
