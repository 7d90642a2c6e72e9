package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/semanticguess/internal/model"
)

// MockEmbedder is a mock embedding provider for testing
type MockEmbedder struct {
	mu sync.Mutex

	// Vectors maps words to the embedding returned for them
	Vectors map[string]model.Embedding
	// Default is returned for words missing from Vectors (nil means zero vector of Dimensions)
	Default model.Embedding
	// Dimensions is the length of generated zero vectors
	Dimensions int
	// Err, when set, is returned from every call
	Err error

	calls map[string]int
}

// NewMockEmbedder creates a MockEmbedder that returns zero vectors of the given size
func NewMockEmbedder(dimensions int) *MockEmbedder {
	return &MockEmbedder{
		Vectors:    make(map[string]model.Embedding),
		Dimensions: dimensions,
		calls:      make(map[string]int),
	}
}

// Embed returns the configured vector for word and records the call. Like a
// real provider it fails once ctx is cancelled.
func (m *MockEmbedder) Embed(ctx context.Context, word string) (model.Embedding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[word]++

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if v, ok := m.Vectors[word]; ok {
		return append(model.Embedding(nil), v...), nil
	}
	if m.Default != nil {
		return append(model.Embedding(nil), m.Default...), nil
	}
	return make(model.Embedding, m.Dimensions), nil
}

// Set registers the vector returned for word
func (m *MockEmbedder) Set(word string, vector model.Embedding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Vectors == nil {
		m.Vectors = make(map[string]model.Embedding)
	}
	m.Vectors[word] = vector
}

// SetError makes every subsequent call fail with err (nil clears it)
func (m *MockEmbedder) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// Calls returns the total number of Embed calls
func (m *MockEmbedder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// CallsFor returns the number of Embed calls for a word
func (m *MockEmbedder) CallsFor(word string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[word]
}

// Reset clears recorded calls
func (m *MockEmbedder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make(map[string]int)
}
