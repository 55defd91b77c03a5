package providers

import (
	"context"
	"sync"

	"github.com/viajeia/viajeia/internal/core"
)

// ChatRequest is one call to the chat completion collaborator.
type ChatRequest struct {
	Messages    []core.Message
	Model       string
	MaxTokens   int
	Temperature float64
}

type Provider interface {
	GenerateChat(ctx context.Context, req ChatRequest) (core.ChatResponse, error)
	ConcurrencyLimit() int
}

// SingleProviderRouter fronts one provider and enforces its concurrency
// limit with a semaphore, so a burst of sessions queues at the provider
// boundary instead of overwhelming it.
type SingleProviderRouter struct {
	Provider Provider
	once     sync.Once
	limiter  *semaphore
}

func (r *SingleProviderRouter) GenerateChat(ctx context.Context, req ChatRequest) (core.ChatResponse, error) {
	if r.Provider == nil {
		return core.ChatResponse{}, nil
	}

	if concurrencyLimiter := r.getLimiter(); concurrencyLimiter != nil {
		concurrencyLimiter.acquire()
		defer concurrencyLimiter.release()
	}

	return r.Provider.GenerateChat(ctx, req)
}

func (r *SingleProviderRouter) ConcurrencyLimit() int {
	if r.Provider == nil {
		return 0
	}

	return r.Provider.ConcurrencyLimit()
}

func (r *SingleProviderRouter) getLimiter() *semaphore {
	r.once.Do(func() {
		concurrencyLimit := r.ConcurrencyLimit()

		if concurrencyLimit > 0 {
			r.limiter = newSemaphore(concurrencyLimit)
		}
	})
	return r.limiter
}

type semaphore struct {
	ch chan struct{}
}

func newSemaphore(limit int) *semaphore {
	return &semaphore{ch: make(chan struct{}, limit)}
}

func (s *semaphore) acquire() {
	s.ch <- struct{}{}
}

func (s *semaphore) release() {
	<-s.ch
}
