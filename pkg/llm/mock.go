package llm

import (
	"context"
	"sync"

	"github.com/voicemd/voicemd/pkg/chat"
)

// Mock implements Completer for testing.
type Mock struct {
	// CompleteFunc is called when Complete is invoked.
	// If nil, returns "mock reply".
	CompleteFunc func(ctx context.Context, messages []chat.Message) (string, error)

	mu    sync.Mutex
	calls [][]chat.Message
}

// Complete calls CompleteFunc and records the message list.
func (m *Mock) Complete(ctx context.Context, messages []chat.Message) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, messages)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages)
	}
	return "mock reply", nil
}

// CallCount returns the number of Complete invocations.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastMessages returns the message list from the most recent call,
// or nil if Complete was never invoked.
func (m *Mock) LastMessages() []chat.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

// Verify Mock implements Completer at compile time.
var _ Completer = (*Mock)(nil)
