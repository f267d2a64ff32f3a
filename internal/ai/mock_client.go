package ai

import "context"

// Mock stands in when no API key is configured. Questions still flow
// through the whole pipeline, they just never reach the network.
type Mock struct{}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Name() string {
	return "mock"
}

func (m *Mock) Answer(_ context.Context, _, _ string) (string, error) {
	return "", nil
}

func (m *Mock) Probe(_ context.Context) Status {
	return Status{
		Status:  StatusWarning,
		Details: "LLM API key not configured - using mock responses",
	}
}
