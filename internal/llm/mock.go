package llm

import "context"

// Mock is a canned Client for tests and local development.
type Mock struct {
	Reply string
	Err   error
	// Last history passed to Converse, for assertions.
	LastHistory []Message
}

func (m *Mock) Converse(_ context.Context, history []Message) (string, error) {
	m.LastHistory = history
	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply == "" {
		return "Tell me more about that.", nil
	}
	return m.Reply, nil
}
