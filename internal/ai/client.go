package ai

import "context"

// Generator produces answers grounded in a website's stored content.
// The implementation is picked once at startup: OpenAI when an API key
// is configured, Mock otherwise.
type Generator interface {
	// Answer generates a reply to the question using the supplied page
	// content as the only context.
	Answer(ctx context.Context, question, pageContext string) (string, error)
	// Probe issues a minimal completion to report provider health.
	Probe(ctx context.Context) Status
	// Name identifies the implementation for logs and metrics.
	Name() string
}

type Status struct {
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

const (
	StatusOK      = "OK"
	StatusWarning = "WARNING"
	StatusError   = "ERROR"
)
