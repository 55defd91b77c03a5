package app

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/viajeia/viajeia/internal/config"
	"github.com/viajeia/viajeia/internal/core"
	"github.com/viajeia/viajeia/internal/destination"
	"github.com/viajeia/viajeia/internal/enrich"
	"github.com/viajeia/viajeia/internal/planner"
	"github.com/viajeia/viajeia/internal/safety"
)

const (
	maxRequestBody   = 64 * 1024
	historyInReply   = 10
	rateLimitReply   = "Demasiadas solicitudes. Por favor, espera un momento antes de intentar de nuevo."
	badBodyReply     = "Cuerpo de la solicitud inválido"
	methodNotAllowed = "método no permitido"
)

type planRequest struct {
	Question  string            `json:"pregunta"`
	Context   *core.TripContext `json:"contexto,omitempty"`
	SessionID string            `json:"session_id,omitempty"`
	UserID    string            `json:"usuario_id,omitempty"`
}

type weatherInfo struct {
	Temperature float64 `json:"temperatura"`
	FeelsLike   float64 `json:"sensacion"`
	Condition   string  `json:"condicion,omitempty"`
	Humidity    int     `json:"humedad"`
	WindSpeed   float64 `json:"viento"`
}

type destinationInfo struct {
	Name       string       `json:"nombre"`
	Currency   string       `json:"moneda,omitempty"`
	RatePerUSD float64      `json:"tasa_usd,omitempty"`
	Weather    *weatherInfo `json:"clima,omitempty"`
}

type planResponse struct {
	Answer      string           `json:"respuesta"`
	SessionID   string           `json:"session_id"`
	Destination *destinationInfo `json:"destino,omitempty"`
	Photos      []string         `json:"fotos,omitempty"`
	History     []core.Turn      `json:"historial,omitempty"`
}

type errorResponse struct {
	Error         string   `json:"error"`
	UnsafePhrases []string `json:"frases_detectadas,omitempty"`
}

// Handler is the HTTP surface over the wired services.
type Handler struct {
	cfg      config.Config
	services Services
	logger   *slog.Logger
}

func NewHandler(cfg config.Config, services Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{cfg: cfg, services: services, logger: logger}
}

func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handleRoot)
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/api/plan", h.handlePlan)
	mux.HandleFunc("/api/stats", h.handleStats)
	return mux
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "ViajeIA API está funcionando"})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: methodNotAllowed})
		return
	}

	if !h.services.PlanLimiter.Allow(clientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: rateLimitReply})
		return
	}

	var req planRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: badBodyReply})
		return
	}

	if result := h.services.Gate.Validate(req.Question); !result.Valid {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:         result.Reason,
			UnsafePhrases: result.UnsafePhrases,
		})
		return
	}

	question, err := safety.ValidateQuestion(
		req.Question,
		h.cfg.Validation.MinQuestionLength,
		h.cfg.Validation.MaxQuestionLength,
	)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	form, err := validateForm(req.Context)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	sessionKey := req.SessionID
	if sessionKey == "" {
		sessionKey = string(core.NewSessionID())
	}

	formDestination := ""
	if form != nil {
		formDestination = form.Destination
	}

	resolved, source := h.services.Resolver.Resolve(formDestination, sessionKey, question)

	outbound := question
	if source == destination.SourceMemory && destination.HasReference(question) {
		outbound = destination.RewriteQuestion(question, resolved)
	}

	info, weather, photos := h.enrichDestination(r, resolved)
	history := h.services.Store.Get(sessionKey)

	reply := h.services.Orchestrator.BuildReply(r.Context(), planner.Request{
		Question:            outbound,
		Form:                form,
		Weather:             weather,
		History:             history,
		ResolvedDestination: resolved,
	})

	turn := core.Turn{
		Question:  question,
		Answer:    reply.Answer,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	h.services.Store.Append(sessionKey, turn)

	go h.services.Stats.Record(req.UserID, resolved, question)

	history = append(history, turn)
	if len(history) > historyInReply {
		history = history[len(history)-historyInReply:]
	}

	writeJSON(w, http.StatusOK, planResponse{
		Answer:      reply.Answer,
		SessionID:   sessionKey,
		Destination: info,
		Photos:      photos,
		History:     history,
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: methodNotAllowed})
		return
	}

	if !h.services.StatsLimiter.Allow(clientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: rateLimitReply})
		return
	}

	writeJSON(w, http.StatusOK, h.services.Stats.Summarize())
}

// enrichDestination gathers weather, currency, and photos for the resolved
// place in parallel. Every lookup is optional: failures are logged at debug
// and leave their field empty.
func (h *Handler) enrichDestination(r *http.Request, place string) (*destinationInfo, *enrich.Weather, []string) {
	if place == "" {
		return nil, nil, nil
	}

	ctx := r.Context()
	info := &destinationInfo{Name: place}

	var (
		wg      sync.WaitGroup
		weather *enrich.Weather
		photos  []string
		rate    float64
		rateOK  bool
	)

	currency, hasCurrency := destination.CurrencyFor(place)

	wg.Add(1)
	go func() {
		defer wg.Done()

		current, err := h.services.Weather.Current(ctx, place)
		if err != nil {
			h.logDegraded("weather", place, err)
			return
		}
		weather = current
	}()

	if hasCurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			value, err := h.services.Exchange.RatePerUSD(ctx, currency)
			if err != nil {
				h.logDegraded("exchange", place, err)
				return
			}
			rate, rateOK = value, true
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		urls, err := h.services.Photos.Search(ctx, place, h.cfg.Photos.MaxPhotos)
		if err != nil {
			h.logDegraded("photos", place, err)
			return
		}
		photos = urls
	}()

	wg.Wait()

	info.Currency = currency
	if rateOK {
		info.RatePerUSD = rate
	}

	if weather != nil {
		info.Weather = &weatherInfo{
			Temperature: weather.Temperature,
			FeelsLike:   weather.FeelsLike,
			Condition:   weather.Condition,
			Humidity:    weather.Humidity,
			WindSpeed:   weather.WindSpeed,
		}
	}

	return info, weather, photos
}

func (h *Handler) logDegraded(lookup, place string, err error) {
	if errors.Is(err, enrich.ErrUnavailable) {
		return
	}

	h.logger.Debug("enrichment lookup failed", "lookup", lookup, "place", place, "error", err)
}

func validateForm(form *core.TripContext) (*core.TripContext, error) {
	if form == nil {
		return nil, nil
	}

	cleanDestination, err := safety.ValidateDestination(form.Destination)
	if err != nil {
		return nil, err
	}

	if _, _, err := safety.ValidateBudget(form.Budget); err != nil {
		return nil, err
	}

	validated := *form
	validated.Destination = cleanDestination
	return &validated, nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Debug("failed to encode response", "error", err)
	}
}
