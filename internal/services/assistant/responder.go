// File: internal/services/assistant/responder.go
package assistant

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// ModelName tags replies produced by the built-in responder.
const ModelName = "simple_ai_builtin"

// UltimateFallbackText is appended instead of a reply when the responder
// itself misbehaves. The conversational path must never surface an error.
const UltimateFallbackText = "Hello! I'm VoxAI, your SQL assistant. I can help you generate SQL queries by starting your message with 'generate sql:' followed by your question. What would you like to know?"

// ContextMessage is the slice of a transcript entry the responder looks at.
type ContextMessage struct {
	Text   string
	Sender string
}

// Reply is a canned conversational answer.
type Reply struct {
	Text     string
	Model    string
	Category Category
}

// Responder pattern-matches free text into an intent category and answers
// with a canned, randomized reply. It is stateless across calls and never
// performs I/O.
type Responder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewResponder creates a responder seeded from the clock.
func NewResponder() *Responder {
	return NewResponderWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewResponderWithSource creates a responder with an injected random source
// so tests can pin reply selection.
func NewResponderWithSource(src rand.Source) *Responder {
	return &Responder{rng: rand.New(src)}
}

// Classify resolves the intent category for a message. Classification is
// deterministic; only the reply text selection is random.
func Classify(text string) Category {
	for _, entry := range categoryPatterns {
		for _, pattern := range entry.patterns {
			if pattern.MatchString(text) {
				return entry.category
			}
		}
	}
	return CategoryFallback
}

// Respond produces a reply for the message. recentContext holds the last few
// transcript entries (capped by the caller) with the message being answered
// as the final one; when classification falls back and that final entry
// mentions SQL or databases, the reply is promoted to the sqlHelp category.
func (r *Responder) Respond(text string, recentContext []ContextMessage) Reply {
	category := Classify(text)

	if category == CategoryFallback && len(recentContext) > 0 {
		last := strings.ToLower(recentContext[len(recentContext)-1].Text)
		if strings.Contains(last, "sql") || strings.Contains(last, "database") {
			category = CategorySQLHelp
		}
	}

	candidates, ok := responses[category]
	if !ok {
		candidates = responses[CategoryFallback]
	}

	return Reply{
		Text:     r.pick(candidates),
		Model:    ModelName,
		Category: category,
	}
}

func (r *Responder) pick(candidates []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return candidates[r.rng.Intn(len(candidates))]
}
