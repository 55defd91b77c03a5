package safety

import "regexp"

// unsafePhrases are jailbreak and manipulation markers. They are matched as
// whole words against normalized text; a match rejects the prompt outright.
var unsafePhrases = []string{
	// jailbreak / instruction override
	"ignora las instrucciones anteriores",
	"forget all previous",
	"act as if",
	"pretend to be",
	"you are now",
	"from now on",
	"disregard",
	"ignore",
	"bypass",
	"override",
	"hack",
	"exploit",
	"vulnerability",
	"security flaw",

	// system commands
	"elimina mi historial",
	"delete my history",
	"clear cache",
	"reset system",
	"shutdown",
	"restart",
	"format",
	"erase",
	"destroy",

	// persona hijacking
	"act as",
	"you are",
	"pretend you are",
	"roleplay as",
	"simulate",
	"imitate",
	"celebrity",
	"famous person",
	"famous actor",
	"famous singer",

	// inappropriate content
	"inappropriate",
	"offensive",
	"illegal",
	"harmful",
	"dangerous",

	// system information probing
	"show me your",
	"what is your",
	"tell me your",
	"reveal your",
	"system prompt",
	"instructions",
	"configuration",
	"settings",
	"api key",
	"password",
	"credentials",

	// code execution
	"execute",
	"run code",
	"run command",
	"system(",
	"eval(",
	"exec(",
	"import os",
	"subprocess",

	// known jailbreak modes
	"jailbreak",
	"dan mode",
	"developer mode",
	"god mode",
	"unrestricted",
	"unlimited",
}

// travelKeywords is the low bar for staying on topic: a single substring
// match anywhere in the normalized text is enough.
var travelKeywords = []string{
	"viaje", "travel", "trip", "vacation", "vacaciones",
	"destino", "destination", "lugar", "place", "ciudad", "city",
	"hotel", "alojamiento", "accommodation", "hostal", "hostel",
	"vuelo", "flight", "avion", "plane", "aeropuerto", "airport",
	"itinerario", "itinerary", "plan", "planificar", "planning",
	"recomendacion", "recommendation", "sugerencia", "suggestion",
	"presupuesto", "budget", "gasto", "cost", "precio", "price",
	"restaurante", "restaurant", "comida", "food", "gastronomia",
	"atraccion", "attraction", "turismo", "tourism", "turista",
	"playa", "beach", "montana", "mountain", "museo", "museum",
	"cultura", "culture", "aventura", "adventure", "relajacion",
	"visitar", "visit", "conocer", "know", "explorar", "explore",
	"pais", "country", "continente", "continent",
	"clima", "weather", "moneda", "currency",
}

// offDomainKeywords name topics the assistant explicitly refuses, so the
// rejection can say what the question seems to be about.
var offDomainKeywords = []string{
	"programming", "codigo", "code", "software", "aplicacion",
	"matematicas", "mathematics", "fisica", "physics",
	"historia del mundo", "world history", "politica", "politics",
	"medicina", "medicine", "salud", "health", "enfermedad",
}

var unsafePatterns = compileUnsafePatterns()

func compileUnsafePatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(unsafePhrases))
	for _, phrase := range unsafePhrases {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(phrase)+`\b`))
	}
	return patterns
}

// DetectUnsafePhrases returns every unsafe phrase present in the text as a
// whole word, after normalization. The result is for logging, never echoed
// back to the user.
func DetectUnsafePhrases(text string) []string {
	normalized := Normalize(text)

	var found []string
	for i, pattern := range unsafePatterns {
		if pattern.MatchString(normalized) {
			found = append(found, unsafePhrases[i])
		}
	}

	return found
}
