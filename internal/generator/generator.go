// Package generator produces multiple-choice question banks, either
// from a free text-generation endpoint or from a built-in fallback
// bank when the endpoint misbehaves.
package generator

import (
	"context"

	"github.com/apexeduai/vault-backend/internal/models"
)

// Generation modes, reported so callers can label metrics.
const (
	ModeLive     = "live"
	ModeFallback = "fallback"
	ModeCache    = "cache"
)

type Request struct {
	Topic      string
	Context    string // extracted source material, may be empty
	Count      int
	Level      string
	ExamType   string
	Difficulty string
}

type Generator interface {
	Generate(ctx context.Context, req Request) (models.QuestionBank, string, error)
}
