package safety

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const maxBudget = 1_000_000

var (
	destinationPattern = regexp.MustCompile(`^[\p{L}\s'-]+$`)
	hasTextPattern     = regexp.MustCompile(`[\p{L}\p{N}]`)
	budgetSymbols      = strings.NewReplacer(",", "", "$", "", "€", "", " ", "")
)

// ValidateDestination checks an optional destination name. Empty input is
// valid and returns empty output.
func ValidateDestination(destination string) (string, error) {
	if destination == "" {
		return "", nil
	}

	trimmed := strings.TrimSpace(destination)
	length := utf8.RuneCountInString(trimmed)

	if length < 2 {
		return "", errors.New("El destino debe tener al menos 2 caracteres")
	}

	if length > 100 {
		return "", errors.New("El destino no puede exceder 100 caracteres")
	}

	if !destinationPattern.MatchString(trimmed) {
		return "", errors.New("El destino contiene caracteres no permitidos")
	}

	return trimmed, nil
}

// ValidateBudget parses an optional budget after stripping currency symbols
// and thousands separators. The boolean reports whether a value was present.
func ValidateBudget(budget string) (float64, bool, error) {
	if strings.TrimSpace(budget) == "" {
		return 0, false, nil
	}

	cleaned := budgetSymbols.Replace(strings.TrimSpace(budget))

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false, errors.New("El presupuesto debe ser un número válido")
	}

	if value < 0 {
		return 0, false, errors.New("El presupuesto no puede ser negativo")
	}

	if value > maxBudget {
		return 0, false, errors.New("El presupuesto excede el límite máximo permitido")
	}

	return value, true, nil
}

// ValidateQuestion bounds a question to [minLength, maxLength]. Questions
// over the maximum are truncated, not rejected, once the minimum check has
// passed. The returned text is sanitized.
func ValidateQuestion(question string, minLength, maxLength int) (string, error) {
	if question == "" {
		return "", errors.New("La pregunta es obligatoria")
	}

	trimmed := strings.TrimSpace(question)

	if utf8.RuneCountInString(trimmed) < minLength {
		return "", fmt.Errorf("La pregunta debe tener al menos %d caracteres", minLength)
	}

	if runes := []rune(trimmed); len(runes) > maxLength {
		trimmed = string(runes[:maxLength])
	}

	if !hasTextPattern.MatchString(trimmed) {
		return "", errors.New("La pregunta debe contener texto válido")
	}

	sanitized := Sanitize(trimmed)
	if runes := []rune(sanitized); len(runes) > maxLength {
		sanitized = string(runes[:maxLength])
	}

	return sanitized, nil
}
