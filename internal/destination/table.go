package destination

import (
	_ "embed"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed tables.toml
var tablesTOML []byte

type entry struct {
	Name     string   `toml:"name"`
	Aliases  []string `toml:"aliases"`
	Currency string   `toml:"currency"`
}

type tables struct {
	Destinations []entry `toml:"destinations"`
}

var knownDestinations = loadTables()

func loadTables() []entry {
	var t tables
	if err := toml.Unmarshal(tablesTOML, &t); err != nil {
		panic("destination: embedded tables.toml is invalid: " + err.Error())
	}
	return t.Destinations
}

// FromText scans free text for a known destination. Matching is a
// case-insensitive substring check in table order; the first alias that hits
// decides, returning the canonical name.
func FromText(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	lowered := strings.ToLower(text)

	for _, dest := range knownDestinations {
		for _, alias := range dest.Aliases {
			if strings.Contains(lowered, alias) {
				return dest.Name, true
			}
		}
	}

	return "", false
}

// CurrencyFor returns the local currency code for a place, matching the
// canonical name first and falling back to the alias scan.
func CurrencyFor(place string) (string, bool) {
	if place == "" {
		return "", false
	}

	lowered := strings.ToLower(place)

	for _, dest := range knownDestinations {
		if strings.ToLower(dest.Name) == lowered {
			return dest.Currency, true
		}
	}

	for _, dest := range knownDestinations {
		for _, alias := range dest.Aliases {
			if strings.Contains(lowered, alias) {
				return dest.Currency, true
			}
		}
	}

	return "", false
}
