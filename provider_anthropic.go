package main

import (
	"context"
	"fmt"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

// AnthropicProvider sends prompts through llmkit
type AnthropicProvider struct {
	apiKey string
}

func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	return &AnthropicProvider{apiKey: apiKey}
}

// Complete maps each content block of the reply to a choice. llmkit takes no
// context, so cancellation is only checked before the call.
func (p *AnthropicProvider) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	settings := types.RequestSettings{
		Model:     req.Model,
		MaxTokens: anthropicMaxTokens(req.Capability),
	}
	if req.Capability.Temperature != nil {
		settings.Temperature = float64(*req.Capability.Temperature)
	}

	response, err := anthropic.PromptWithSettings(req.System, req.User, "", p.apiKey, settings)
	if err != nil {
		return nil, fmt.Errorf("anthropic prompt: %w", err)
	}

	return anthropicChatResponse(response), nil
}

// anthropicChatResponse turns each content block into a choice carrying the
// message stop reason
func anthropicChatResponse(response *types.AnthropicResponse) *ChatResponse {
	out := &ChatResponse{Choices: make([]ChatChoice, 0, len(response.Content))}
	for _, block := range response.Content {
		out.Choices = append(out.Choices, ChatChoice{
			Text:         block.Text,
			FinishReason: response.StopReason,
		})
	}
	return out
}

// anthropicMaxTokens takes whichever token limit the capability sets
func anthropicMaxTokens(c ModelCapability) int {
	if c.MaxCompletionTokens > 0 {
		return c.MaxCompletionTokens
	}
	return c.MaxTokens
}
