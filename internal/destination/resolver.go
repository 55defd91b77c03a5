// Package destination infers which place a conversation is about and keeps
// that inference in session state so follow-up questions can refer to it
// obliquely ("¿y el clima allí?").
package destination

import (
	"fmt"
	"regexp"

	"github.com/viajeia/viajeia/internal/safety"
	"github.com/viajeia/viajeia/internal/session"
)

// Source says where a resolved destination came from. Only resolutions out
// of session memory trigger the anaphora rewrite; an explicit form value or
// a name already present in the question needs no restating.
type Source int

const (
	SourceNone Source = iota
	SourceExplicit
	SourceMemory
	SourceText
)

var referencePattern = regexp.MustCompile(
	`\b(there|that place|that city|alli|alla|ahi|ese lugar|esa ciudad|aquel lugar)\b`)

type Resolver struct {
	store session.Store
}

func NewResolver(store session.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve determines the active destination, highest precedence first: the
// explicit form context, then the session's remembered destination, then a
// free-text scan of the question. Explicit and scanned destinations are
// written back as the session's new last-known destination.
func (r *Resolver) Resolve(explicit, sessionKey, question string) (string, Source) {
	if explicit != "" {
		r.store.SetLastDestination(sessionKey, explicit)
		return explicit, SourceExplicit
	}

	if remembered, ok := r.store.LastDestination(sessionKey); ok {
		return remembered, SourceMemory
	}

	if inferred, ok := FromText(question); ok {
		r.store.SetLastDestination(sessionKey, inferred)
		return inferred, SourceText
	}

	return "", SourceNone
}

// HasReference reports whether the question leans on a referential phrase
// instead of naming the destination.
func HasReference(question string) bool {
	return referencePattern.MatchString(safety.Normalize(question))
}

// RewriteQuestion prefixes the question with the resolved destination so the
// model sees it spelled out. The rewritten form is only ever sent outbound;
// stored history keeps the traveler's original words.
func RewriteQuestion(question, destination string) string {
	return fmt.Sprintf("(Hablando de %s) %s", destination, question)
}
