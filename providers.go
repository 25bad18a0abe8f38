package main

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// llmTimeout bounds a single summarization request
const llmTimeout = 5 * time.Minute

// ChatRequest is one system + user exchange with the model
type ChatRequest struct {
	Model      string
	System     string
	User       string
	Capability ModelCapability
}

// ChatChoice is one candidate answer
type ChatChoice struct {
	Text         string
	FinishReason string
	Refusal      string
}

// ChatResponse holds the candidates returned by the provider
type ChatResponse struct {
	Choices []ChatChoice
}

// ChatProvider sends a chat request to an LLM backend
type ChatProvider interface {
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// newChatProvider returns the provider named in the AI settings
func newChatProvider(settings AISettings, creds Credentials) (ChatProvider, error) {
	client := &http.Client{Timeout: llmTimeout}

	switch settings.Provider {
	case "openai":
		return NewOpenAIProvider(creds.APIKey, settings.BaseURL, client), nil
	case "anthropic":
		return NewAnthropicProvider(creds.APIKey), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", settings.Provider)
	}
}
