// Package intent classifies the purpose of a candidate message.
package intent

import (
	"context"
	"fmt"

	"github.com/spigell/hh-screener/internal/screening"
)

// Classifier maps free text to an intent. Implementations must be
// deterministic for identical input. Remote implementations may fail; the
// orchestrator then falls back to general inquiry.
type Classifier interface {
	Classify(ctx context.Context, text string, history []screening.Message) (screening.Intent, error)
}

// Func adapts a plain function to the Classifier interface.
type Func func(ctx context.Context, text string, history []screening.Message) (screening.Intent, error)

func (f Func) Classify(ctx context.Context, text string, history []screening.Message) (screening.Intent, error) {
	return f(ctx, text, history)
}

// Fallback consults Primary first and Secondary when Primary fails.
type Fallback struct {
	Primary   Classifier
	Secondary Classifier
}

func (f *Fallback) Classify(ctx context.Context, text string, history []screening.Message) (screening.Intent, error) {
	got, err := f.Primary.Classify(ctx, text, history)
	if err == nil {
		return got, nil
	}
	if f.Secondary == nil {
		return "", err
	}

	got, secondaryErr := f.Secondary.Classify(ctx, text, history)
	if secondaryErr != nil {
		return "", fmt.Errorf("primary: %v; secondary: %w", err, secondaryErr)
	}
	return got, nil
}
