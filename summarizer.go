package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	contentPlaceholder = "{{.Content}}"
	sourceSeparator    = "\n\n---\n\n"
)

var (
	ErrNoContent = errors.New("no content files to summarize")
	ErrNoChoices = errors.New("model returned no choices")
)

// EmptyResponseError means the model answered with no text
type EmptyResponseError struct {
	Model        string
	FinishReason string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("model %s returned an empty response (finish reason: %q)", e.Model, e.FinishReason)
}

// RefusalError carries the model's refusal text
type RefusalError struct {
	Refusal string
}

func (e *RefusalError) Error() string {
	return fmt.Sprintf("model refused the request: %s", e.Refusal)
}

// Summarizer turns the saved content files into one categorized digest
type Summarizer struct {
	provider    ChatProvider
	model       string
	capability  ModelCapability
	prompts     Prompts
	summaryFile string
	log         logrus.FieldLogger
}

// NewSummarizer validates the prompts and resolves the model capability once
func NewSummarizer(provider ChatProvider, model string, table *CapabilityTable, prompts Prompts, summaryFile string, log logrus.FieldLogger) (*Summarizer, error) {
	if !strings.Contains(prompts.User, contentPlaceholder) {
		return nil, fmt.Errorf("summarizer user prompt template must contain %s variable", contentPlaceholder)
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("summarizer model is required")
	}

	return &Summarizer{
		provider:    provider,
		model:       model,
		capability:  table.Lookup(model),
		prompts:     prompts,
		summaryFile: summaryFile,
		log:         log,
	}, nil
}

// Summarize reads the content files in dir and returns the model's summary unchanged
func (s *Summarizer) Summarize(ctx context.Context, dir string) (string, error) {
	files, err := ReadContentFiles(dir, s.log, filepath.Base(s.summaryFile))
	if err != nil {
		s.log.WithError(err).Error("Failed to read content files")
		return "", err
	}
	if len(files) == 0 {
		s.log.WithField("dir", dir).Error("No content files found")
		return "", ErrNoContent
	}

	userPrompt := strings.ReplaceAll(s.prompts.User, contentPlaceholder, buildPrompt(files))

	s.log.WithFields(logrus.Fields{
		"model": s.model,
		"files": len(files),
	}).Info("→ Summarizing...")

	resp, err := s.provider.Complete(ctx, ChatRequest{
		Model:      s.model,
		System:     s.prompts.System,
		User:       userPrompt,
		Capability: s.capability,
	})
	if err != nil {
		return "", fmt.Errorf("summarizing: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	choice := resp.Choices[0]
	if strings.TrimSpace(choice.Text) == "" {
		if choice.Refusal != "" {
			return "", &RefusalError{Refusal: choice.Refusal}
		}
		return "", &EmptyResponseError{Model: s.model, FinishReason: choice.FinishReason}
	}

	s.log.Info("✓ Summary generated")
	return choice.Text, nil
}

// buildPrompt concatenates the files, each under a "# Source:" heading
func buildPrompt(files []ContentFile) string {
	parts := make([]string, 0, len(files))
	for _, f := range files {
		parts = append(parts, fmt.Sprintf("# Source: %s\n\n%s", f.Filename, f.Content))
	}
	return strings.Join(parts, sourceSeparator)
}
