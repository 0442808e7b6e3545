package intel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/autofixer/workbench/internal/remote"
)

// Analyzer runs a server-side code analysis operation and returns its raw
// result payload.
type Analyzer interface {
	Analyze(ctx context.Context, op remote.IntelOp, code string) (json.RawMessage, error)
}

// Service exposes the code-intelligence operations. It validates input and
// delegates; the payload shape is owned by the server and passed through
// untouched.
type Service struct {
	analyzer Analyzer
	logger   *slog.Logger
}

// NewService creates an intel service.
func NewService(analyzer Analyzer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{analyzer: analyzer, logger: logger}
}

// DetectErrors reports problems found in the given code.
func (s *Service) DetectErrors(ctx context.Context, code string) (json.RawMessage, error) {
	return s.run(ctx, remote.IntelDetectErrors, code)
}

// Suggestions returns improvement suggestions for the given code.
func (s *Service) Suggestions(ctx context.Context, code string) (json.RawMessage, error) {
	return s.run(ctx, remote.IntelSuggestions, code)
}

// GenerateCode produces code from a natural-language prompt.
func (s *Service) GenerateCode(ctx context.Context, prompt string) (json.RawMessage, error) {
	return s.run(ctx, remote.IntelGenerateCode, prompt)
}

// ReviewCode returns a review of the given code.
func (s *Service) ReviewCode(ctx context.Context, code string) (json.RawMessage, error) {
	return s.run(ctx, remote.IntelReviewCode, code)
}

// FixCode returns a corrected version of the given code.
func (s *Service) FixCode(ctx context.Context, code string) (json.RawMessage, error) {
	return s.run(ctx, remote.IntelFixCode, code)
}

func (s *Service) run(ctx context.Context, op remote.IntelOp, code string) (json.RawMessage, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrEmptyInput
	}
	result, err := s.analyzer.Analyze(ctx, op, code)
	if err != nil {
		return nil, fmt.Errorf("analyzing code: %w", err)
	}
	s.logger.Debug("analysis completed", "op", string(op), "bytes", len(result))
	return result, nil
}
