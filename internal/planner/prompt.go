package planner

import (
	"fmt"
	"strings"

	"github.com/viajeia/viajeia/internal/core"
	"github.com/viajeia/viajeia/internal/enrich"
)

// systemPersona defines the assistant and the mandatory answer template.
// The section marker glyphs are a contract with the frontend; the model is
// told never to alter them, and this backend never does either.
const systemPersona = `Eres ViajeIA, un asistente virtual experto en viajes con más de 15 años de experiencia
ayudando a viajeros a crear experiencias inolvidables. Tienes una personalidad entusiasta, amigable y
apasionada por los viajes.

CARACTERÍSTICAS DE TU PERSONALIDAD:
- Eres entusiasta y positivo sobre los viajes
- Haces preguntas inteligentes para entender mejor las necesidades del viajero
- Compartes consejos prácticos basados en experiencia real
- Usas un tono conversacional pero profesional
- Te emocionas cuando alguien planea un viaje especial

ESPECIALIZACIÓN:
- Planificación de itinerarios detallados día por día
- Recomendaciones de destinos según presupuesto, intereses y temporada
- Consejos para encontrar vuelos, hoteles y transporte
- Tips de viajero experimentado (qué llevar, qué evitar, cómo ahorrar)
- Recomendaciones gastronómicas y culturales
- Planificación de presupuestos realistas

FORMATO DE RESPUESTA (OBLIGATORIO):
SIEMPRE debes responder usando EXACTAMENTE esta estructura con estos símbolos:

» ALOJAMIENTO: [recomendaciones de hoteles, hostales, o alojamientos según el presupuesto]

Þ COMIDA LOCAL: [recomendaciones de restaurantes, platos típicos, y experiencias gastronómicas]

LUGARES IMPERDIBLES: [lugares que definitivamente debe visitar el viajero]

ä CONSEJOS LOCALES: [tips especiales, qué evitar, costumbres locales, secretos del destino]

ø ESTIMACIÓN DE COSTOS: [desglose aproximado de gastos por categoría basado en el presupuesto]

REGLAS IMPORTANTES:
- NUNCA cambies estos símbolos (», Þ, , ä, ø)
- SIEMPRE incluye las 5 secciones en este orden exacto
- Si falta información, usa la información del contexto del formulario o haz suposiciones razonables
- Mantén un tono entusiasta pero informativo
- Personaliza cada sección según el destino, presupuesto y preferencias del usuario
- Responde siempre en español
- Si hay información del clima actual, inclúyela naturalmente en tus respuestas, especialmente en los consejos locales`

const (
	summaryTurns   = 5
	answerTruncate = 200
)

// buildSystemContent assembles the persona plus the conditional context
// blocks for one request.
func buildSystemContent(form *core.TripContext, weather *enrich.Weather, history []core.Turn, resolvedDestination string) string {
	var b strings.Builder
	b.WriteString(systemPersona)

	if form != nil {
		b.WriteString("\n\nINFORMACIÓN DEL VIAJERO:")
		if form.Destination != "" {
			fmt.Fprintf(&b, "\n- Destino: %s", form.Destination)
		}
		if form.Date != "" {
			fmt.Fprintf(&b, "\n- Fecha del viaje: %s", form.Date)
		}
		if form.Budget != "" {
			fmt.Fprintf(&b, "\n- Presupuesto: %s", form.Budget)
		}
		if form.Preference != "" {
			fmt.Fprintf(&b, "\n- Preferencia de viaje: %s", form.Preference)
		}
		b.WriteString("\n\nIMPORTANTE: Usa esta información en todas tus respuestas para personalizar las recomendaciones.")
	}

	if weather != nil {
		fmt.Fprintf(&b, "\n\nCLIMA ACTUAL EN %s:", strings.ToUpper(weather.Place))
		fmt.Fprintf(&b, "\n- Temperatura: %.1f°C (sensación de %.1f°C)", weather.Temperature, weather.FeelsLike)
		if weather.Condition != "" {
			fmt.Fprintf(&b, "\n- Condición: %s", weather.Condition)
		}
		fmt.Fprintf(&b, "\n- Humedad: %d%%", weather.Humidity)
		fmt.Fprintf(&b, "\n- Viento: %.1f m/s", weather.WindSpeed)
	}

	if len(history) > 0 {
		b.WriteString("\n\nRESUMEN DE LA CONVERSACIÓN PREVIA:")

		start := len(history) - summaryTurns
		if start < 0 {
			start = 0
		}

		for _, turn := range history[start:] {
			answer := turn.Answer
			if runes := []rune(answer); len(runes) > answerTruncate {
				answer = string(runes[:answerTruncate]) + "..."
			}
			fmt.Fprintf(&b, "\n- Viajero: %s\n  Tú: %s", turn.Question, answer)
		}

		b.WriteString("\n\nCuando el viajero use frases como \"allí\", \"ese lugar\" o \"esa ciudad\", " +
			"se refiere al último destino mencionado en la conversación.")
	}

	if resolvedDestination != "" {
		formDestination := ""
		if form != nil {
			formDestination = form.Destination
		}

		if resolvedDestination != formDestination {
			fmt.Fprintf(&b, "\n\nDESTINO ACTUAL DE LA CONVERSACIÓN: %s", resolvedDestination)
		}
	}

	return b.String()
}
