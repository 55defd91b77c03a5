// Package session keeps per-session conversation state in memory: the
// ordered turn history and the last destination the traveler mentioned.
// State lives for the process lifetime with no eviction; bounding growth is
// left to the deployment.
package session

import (
	"sync"

	"github.com/viajeia/viajeia/internal/core"
)

// Store is the per-session state contract. Implementations must serialize
// read-modify-append per session key without letting distinct keys block
// each other.
type Store interface {
	Get(sessionKey string) []core.Turn
	Append(sessionKey string, turn core.Turn)
	LastDestination(sessionKey string) (string, bool)
	SetLastDestination(sessionKey, destination string)
}

// MemoryStore implements Store with one lock per session under a map-level
// lock. The map lock is held only to look up or create the session entry;
// all mutation happens under the session's own lock, and no lock is ever
// held across an external call.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionState
}

type sessionState struct {
	mu              sync.Mutex
	turns           []core.Turn
	lastDestination string
	hasDestination  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*sessionState)}
}

// Get returns a copy of the session's turns in chronological order, empty
// for an unknown key. Callers can truncate or reorder the copy freely
// without touching stored history.
func (store *MemoryStore) Get(sessionKey string) []core.Turn {
	state := store.lookup(sessionKey)
	if state == nil {
		return nil
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	turns := make([]core.Turn, len(state.turns))
	copy(turns, state.turns)

	return turns
}

func (store *MemoryStore) Append(sessionKey string, turn core.Turn) {
	state := store.ensure(sessionKey)

	state.mu.Lock()
	defer state.mu.Unlock()

	state.turns = append(state.turns, turn)
}

func (store *MemoryStore) LastDestination(sessionKey string) (string, bool) {
	state := store.lookup(sessionKey)
	if state == nil {
		return "", false
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	return state.lastDestination, state.hasDestination
}

// SetLastDestination overwrites the remembered destination. There is no way
// to clear it short of a new destination; that matches the carry-over
// semantics of the conversation.
func (store *MemoryStore) SetLastDestination(sessionKey, destination string) {
	if destination == "" {
		return
	}

	state := store.ensure(sessionKey)

	state.mu.Lock()
	defer state.mu.Unlock()

	state.lastDestination = destination
	state.hasDestination = true
}

func (store *MemoryStore) lookup(sessionKey string) *sessionState {
	store.mu.Lock()
	defer store.mu.Unlock()

	return store.sessions[sessionKey]
}

func (store *MemoryStore) ensure(sessionKey string) *sessionState {
	store.mu.Lock()
	defer store.mu.Unlock()

	state, ok := store.sessions[sessionKey]
	if !ok {
		state = &sessionState{}
		store.sessions[sessionKey] = state
	}

	return state
}
