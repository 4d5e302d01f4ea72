package quest

import "context"

// Generator produces narrative text from a prompt. Implementations wrap
// a text-generation backend; elaborate asks for a longer-form response
// where the backend distinguishes output budgets. Failures are returned
// as errors and handled at every call site, never surfaced raw to the
// participant.
type Generator interface {
	Generate(ctx context.Context, prompt string, elaborate bool) (string, error)
}
