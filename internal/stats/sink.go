// Package stats records usage counters for the planning endpoint and keeps
// them in a JSON file so they survive restarts. Recording is best-effort: a
// persistence failure is logged and never fails the request that triggered it.
package stats

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/viajeia/viajeia/internal/core"
	"github.com/viajeia/viajeia/internal/destination"
)

const (
	topDestinations = 10
	recentDays      = 30
)

const dayFormat = "2006-01-02"

// counters is the persisted shape. Field names match the stats file the
// frontend dashboard already reads.
type counters struct {
	TotalQueries  int            `json:"total_consultas"`
	Users         map[string]int `json:"usuarios"`
	QueriesPerDay map[string]int `json:"consultas_por_dia"`
	Destinations  map[string]int `json:"destinos_consultados"`
}

func newCounters() counters {
	return counters{
		Users:         make(map[string]int),
		QueriesPerDay: make(map[string]int),
		Destinations:  make(map[string]int),
	}
}

// DestinationCount is one entry of the top-destinations ranking.
type DestinationCount struct {
	Name  string `json:"destino"`
	Count int    `json:"consultas"`
}

// DayCount is one day of the recent-queries series.
type DayCount struct {
	Date  string `json:"fecha"`
	Count int    `json:"consultas"`
}

// Summary is the aggregated view served by the stats endpoint.
type Summary struct {
	TotalUsers      int                `json:"total_usuarios"`
	TotalQueries    int                `json:"total_consultas"`
	QueriesToday    int                `json:"consultas_hoy"`
	TopDestinations []DestinationCount `json:"destinos_mas_consultados"`
	QueriesPerDay   []DayCount         `json:"consultas_por_dia"`
}

// Sink accumulates counters in memory and mirrors them to a JSON file.
type Sink struct {
	mu     sync.Mutex
	path   string
	data   counters
	logger *slog.Logger
	now    func() time.Time
}

// NewSink loads existing counters from path, starting fresh if the file is
// missing. A corrupt file is an error: silently zeroing history would lose
// real data.
func NewSink(path string, logger *slog.Logger) (*Sink, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Sink{
		path:   path,
		data:   newCounters(),
		logger: logger,
		now:    time.Now,
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read stats file: %w", err)
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse stats file %s: %w", path, err)
	}

	if s.data.Users == nil {
		s.data.Users = make(map[string]int)
	}
	if s.data.QueriesPerDay == nil {
		s.data.QueriesPerDay = make(map[string]int)
	}
	if s.data.Destinations == nil {
		s.data.Destinations = make(map[string]int)
	}

	return s, nil
}

// Record counts one planning query. An empty userID gets an anonymous one so
// unique-user counts stay meaningful; the (possibly generated) ID is returned.
// When no destination is given, the question is scanned for a known place.
func (s *Sink) Record(userID, destinationName, question string) string {
	if userID == "" {
		userID = core.NewUserID()
	}

	if destinationName == "" {
		destinationName, _ = destination.FromText(question)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.TotalQueries++
	s.data.Users[userID]++
	s.data.QueriesPerDay[s.now().UTC().Format(dayFormat)]++

	if destinationName != "" {
		s.data.Destinations[destinationName]++
	}

	if err := s.persist(); err != nil {
		s.logger.Warn("failed to persist stats", "path", s.path, "error", err)
	}

	return userID
}

// Summarize builds the aggregate view from the current counters: top
// destinations by query count and the non-zero days of the last 30, newest
// first.
func (s *Sink) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	today := now.Format(dayFormat)

	var recent []DayCount
	for i := 0; i < recentDays; i++ {
		day := now.AddDate(0, 0, -i).Format(dayFormat)
		if count := s.data.QueriesPerDay[day]; count > 0 {
			recent = append(recent, DayCount{Date: day, Count: count})
		}
	}

	top := make([]DestinationCount, 0, len(s.data.Destinations))
	for name, count := range s.data.Destinations {
		top = append(top, DestinationCount{Name: name, Count: count})
	}

	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Name < top[j].Name
	})

	if len(top) > topDestinations {
		top = top[:topDestinations]
	}

	return Summary{
		TotalUsers:      len(s.data.Users),
		TotalQueries:    s.data.TotalQueries,
		QueriesToday:    s.data.QueriesPerDay[today],
		TopDestinations: top,
		QueriesPerDay:   recent,
	}
}

func (s *Sink) persist() error {
	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create stats directory: %w", err)
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write stats file: %w", err)
	}

	return nil
}
