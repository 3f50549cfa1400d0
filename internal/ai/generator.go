// Package ai defines the text generation contract used by the model-backed
// phrasing and classification adapters.
package ai

import "context"

const ProviderGemini = "gemini"

// Generator produces text for a system instruction and a user message.
type Generator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}
