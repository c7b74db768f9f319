// File: internal/services/ai/interface.go
package ai

import "context"

// TitleProvider turns the first user message of a chat into a short title.
type TitleProvider interface {
	GenerateTitle(ctx context.Context, text string) (string, error)
}

// SQLTranslator turns a natural-language question plus schema text into a
// SQL string.
type SQLTranslator interface {
	TranslateToSQL(ctx context.Context, question, schema string) (string, error)
}

// Transcriber turns an uploaded audio recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Provider combines the three inference collaborators. Calls are synchronous
// with no retry; a failed call fails the enclosing request (except where the
// orchestrator explicitly swallows it, e.g. title generation).
type Provider interface {
	TitleProvider
	SQLTranslator
	Transcriber
}
