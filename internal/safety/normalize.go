package safety

import "strings"

var accentReplacer = strings.NewReplacer(
	"á", "a",
	"é", "e",
	"í", "i",
	"ó", "o",
	"ú", "u",
	"ñ", "n",
	"ü", "u",
)

// Normalize lowercases, trims, and strips the basic Spanish diacritics so
// keyword matching treats "clima" and "Clíma" alike. The replacement set is
// deliberately small; it is part of the matching contract.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	return accentReplacer.Replace(strings.TrimSpace(strings.ToLower(text)))
}
