// Package moderation screens item listings through an external text
// classifier before they reach the moderation queue.
package moderation

import (
	"context"
	"log/slog"
)

// Verdict is the outcome of classifying a listing.
type Verdict string

const (
	VerdictOK   Verdict = "OK"
	VerdictFlag Verdict = "FLAG"
)

// Classifier decides whether a listing's text is acceptable.
type Classifier interface {
	Classify(ctx context.Context, title, description string) (Verdict, error)
}

// Screen classifies a listing and reports whether it should be flagged for
// manual review. Classifier failures never block a listing: on error the
// verdict degrades to OK and the failure is logged.
func Screen(ctx context.Context, c Classifier, title, description string) bool {
	if c == nil {
		return false
	}
	verdict, err := c.Classify(ctx, title, description)
	if err != nil {
		slog.Warn("classifier unavailable, listing passes unscreened", "error", err)
		return false
	}
	return verdict == VerdictFlag
}
