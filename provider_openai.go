package main

import (
	"context"
	"fmt"
	"math"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider talks to the chat completions API or a compatible gateway
type OpenAIProvider struct {
	client *openai.Client
}

func NewOpenAIProvider(apiKey, baseURL string, httpClient *http.Client) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg)}
}

func (p *OpenAIProvider) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	resp, err := p.client.CreateChatCompletion(ctx, buildOpenAIRequest(req))
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	out := &ChatResponse{Choices: make([]ChatChoice, 0, len(resp.Choices))}
	for _, choice := range resp.Choices {
		out.Choices = append(out.Choices, ChatChoice{
			Text:         choice.Message.Content,
			FinishReason: string(choice.FinishReason),
			Refusal:      choice.Message.Refusal,
		})
	}
	return out, nil
}

// buildOpenAIRequest applies the capability policy. Reasoning families reject
// max_tokens and custom temperatures.
func buildOpenAIRequest(req ChatRequest) openai.ChatCompletionRequest {
	r := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	}

	c := req.Capability
	if c.FixedTemperature {
		r.MaxCompletionTokens = c.MaxCompletionTokens
		return r
	}
	r.MaxTokens = c.MaxTokens
	if c.Temperature != nil {
		r.Temperature = openAITemperature(*c.Temperature)
	}
	return r
}

// openAITemperature keeps a configured zero on the wire. The request field is
// omitempty, so zero is sent as the smallest non-zero float32 instead.
func openAITemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}
