// Package services provides the narrative generation backends. Each
// provider wraps one LLM API behind the same Generate contract: a
// single prompt in, trimmed narrative text out, with the response
// budget picked by the elaborate flag. Scene requests get the larger
// budget; goals, verdicts and classifications get the smaller one.
package services

import (
	"context"

	"github.com/jwebster45206/zenquest/pkg/quest"
)

const (
	// DefaultTemperature is shared by all providers.
	DefaultTemperature = 0.7

	maxTokensElaborate = 300
	maxTokensBrief     = 150
)

// Generator is the provider contract: narrative generation plus a
// startup hook. InitModel runs once before the engine takes traffic;
// hosted APIs return nil, Ollama uses it to verify (and if necessary
// pull) the local model.
type Generator interface {
	quest.Generator
	InitModel(ctx context.Context) error
}

// maxTokensFor maps the elaborate flag to a response token budget.
func maxTokensFor(elaborate bool) int {
	if elaborate {
		return maxTokensElaborate
	}
	return maxTokensBrief
}
