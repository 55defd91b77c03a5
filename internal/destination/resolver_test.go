package destination

import (
	"strings"
	"testing"

	"github.com/viajeia/viajeia/internal/session"
)

func TestFromText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "canonical spanish spelling", in: "quiero ir a París en abril", want: "París", ok: true},
		{name: "english alias", in: "flights to new york", want: "Nueva York", ok: true},
		{name: "case insensitive", in: "HOTELES EN TOKYO", want: "Tokio", ok: true},
		{name: "first table match wins", in: "de París a Roma en tren", want: "París", ok: true},
		{name: "no destination", in: "quiero unas vacaciones baratas", ok: false},
		{name: "empty", in: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromText(tt.in)

			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCurrencyFor(t *testing.T) {
	tests := []struct {
		place string
		want  string
		ok    bool
	}{
		{place: "París", want: "EUR", ok: true},
		{place: "paris", want: "EUR", ok: true},
		{place: "Bangkok", want: "THB", ok: true},
		{place: "Narnia", ok: false},
		{place: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := CurrencyFor(tt.place)
		if ok != tt.ok || got != tt.want {
			t.Errorf("CurrencyFor(%q) = (%q, %v), want (%q, %v)", tt.place, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolver_ExplicitContextWins(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetLastDestination("s1", "Roma")
	resolver := NewResolver(store)

	dest, source := resolver.Resolve("Lisboa", "s1", "¿qué hago allí?")

	if dest != "Lisboa" || source != SourceExplicit {
		t.Fatalf("got (%q, %v), want (Lisboa, explicit)", dest, source)
	}

	// Write-back: explicit context becomes the new remembered destination.
	if remembered, _ := store.LastDestination("s1"); remembered != "Lisboa" {
		t.Errorf("remembered destination is %q, want Lisboa", remembered)
	}
}

func TestResolver_SessionMemoryCarryOver(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetLastDestination("s1", "Paris")
	resolver := NewResolver(store)

	question := "what's the weather there?"
	dest, source := resolver.Resolve("", "s1", question)

	if dest != "Paris" || source != SourceMemory {
		t.Fatalf("got (%q, %v), want (Paris, memory)", dest, source)
	}

	if !HasReference(question) {
		t.Fatal("question should be detected as referential")
	}

	rewritten := RewriteQuestion(question, dest)
	if !strings.Contains(rewritten, "Paris") {
		t.Errorf("rewritten question %q does not mention Paris", rewritten)
	}
	if !strings.Contains(rewritten, question) {
		t.Errorf("rewritten question %q lost the original text", rewritten)
	}
}

func TestResolver_FreeTextInferenceWithWriteBack(t *testing.T) {
	store := session.NewMemoryStore()
	resolver := NewResolver(store)

	dest, source := resolver.Resolve("", "s1", "busco hoteles baratos en bangkok")

	if dest != "Bangkok" || source != SourceText {
		t.Fatalf("got (%q, %v), want (Bangkok, text)", dest, source)
	}

	if remembered, ok := store.LastDestination("s1"); !ok || remembered != "Bangkok" {
		t.Errorf("inferred destination was not written back: (%q, %v)", remembered, ok)
	}
}

func TestResolver_NothingToResolve(t *testing.T) {
	store := session.NewMemoryStore()
	resolver := NewResolver(store)

	dest, source := resolver.Resolve("", "s1", "necesito ideas para vacaciones")

	if dest != "" || source != SourceNone {
		t.Errorf("got (%q, %v), want empty resolution", dest, source)
	}
}

func TestHasReference(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"what's the weather there?", true},
		{"¿qué tiempo hace allí?", true},
		{"quiero volver a ese lugar pronto", true},
		{"me encanta esa ciudad", true},
		{"therefore I want a beach holiday", false},
		{"quiero ir a Roma", false},
	}

	for _, tt := range tests {
		if got := HasReference(tt.in); got != tt.want {
			t.Errorf("HasReference(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
