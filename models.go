package main

import "strings"

const (
	reasoningMaxCompletionTokens = 16000
	defaultMaxTokens             = 4000
	defaultTemperature           = float32(0.7)
)

// ModelCapability is the request parameter policy for a model family.
// Families with FixedTemperature take max_completion_tokens and no temperature;
// the rest take max_tokens and an explicit temperature.
type ModelCapability struct {
	Prefix              string   `yaml:"prefix"`
	MaxCompletionTokens int      `yaml:"max_completion_tokens"`
	MaxTokens           int      `yaml:"max_tokens"`
	Temperature         *float32 `yaml:"temperature"`
	FixedTemperature    bool     `yaml:"fixed_temperature"`
}

// normalized fills in the defaults for whichever branch the capability uses
func (c ModelCapability) normalized() ModelCapability {
	if c.FixedTemperature {
		if c.MaxCompletionTokens <= 0 {
			c.MaxCompletionTokens = reasoningMaxCompletionTokens
		}
		c.MaxTokens = 0
		c.Temperature = nil
		return c
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.Temperature == nil {
		t := defaultTemperature
		c.Temperature = &t
	}
	c.MaxCompletionTokens = 0
	return c
}

func reasoningFamily(prefix string) ModelCapability {
	return ModelCapability{Prefix: prefix, FixedTemperature: true}.normalized()
}

// builtinCapabilities is consulted after any configured entries
var builtinCapabilities = []ModelCapability{
	reasoningFamily("gpt-5"),
	reasoningFamily("o1"),
	reasoningFamily("o3"),
	reasoningFamily("o4"),
}

// CapabilityTable resolves a model name to its request parameter policy
type CapabilityTable struct {
	entries  []ModelCapability
	fallback ModelCapability
}

// NewCapabilityTable puts configured entries ahead of the built-in families
func NewCapabilityTable(configured []ModelCapability) *CapabilityTable {
	entries := make([]ModelCapability, 0, len(configured)+len(builtinCapabilities))
	for _, c := range configured {
		if strings.TrimSpace(c.Prefix) == "" {
			continue
		}
		entries = append(entries, c.normalized())
	}
	entries = append(entries, builtinCapabilities...)

	return &CapabilityTable{
		entries:  entries,
		fallback: ModelCapability{}.normalized(),
	}
}

// Lookup returns the first entry whose prefix matches model, or the default policy
func (t *CapabilityTable) Lookup(model string) ModelCapability {
	for _, c := range t.entries {
		if strings.HasPrefix(model, c.Prefix) {
			return c
		}
	}
	return t.fallback
}
