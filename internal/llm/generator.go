package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-assistant/internal/types"
)

// ErrEmptyResponse is returned when the provider answers with no usable text.
var ErrEmptyResponse = errors.New("empty response from generator")

// GenerateRequest carries everything one generation turn needs.
// Previous is nil on the first turn of a session.
type GenerateRequest struct {
	JobDescription string                  `validate:"required"`
	Previous       *types.GeneratedContent `validate:"-"`
	Message        string                  `validate:"required"`
	MasterCV       string
	MasterLetter   string
	Language       types.Language `validate:"required,oneof=fr en"`
}

// IsInitial reports whether the request creates a new document.
func (r *GenerateRequest) IsInitial() bool {
	return r.Previous == nil
}

// Validate checks the request before it leaves the process.
func (r *GenerateRequest) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return fmt.Errorf("invalid generate request: %w", err)
	}
	return nil
}

// Generator produces or refines a GeneratedContent document. Implementations
// may block for a long time and must honour ctx cancellation.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*types.GeneratedContent, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req GenerateRequest) (*types.GeneratedContent, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req GenerateRequest) (*types.GeneratedContent, error) {
	return f(ctx, req)
}
