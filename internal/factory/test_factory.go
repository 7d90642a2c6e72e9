package factory

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mcoot/semanticguess/internal/dependencies/mocks"
	"github.com/mcoot/semanticguess/internal/services/auth"
	"github.com/mcoot/semanticguess/internal/storage/memory"
)

// TestSigningKey signs every token issued by a TestApp
var TestSigningKey = []byte("semguess-test-signing-key-0123456789")

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock    *mocks.MockClock
	MockRandom   *mocks.MockRandom
	MockEmbedder *mocks.MockEmbedder
	Storage      *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The mock embedder is used directly, without a cache, so call counts are exact.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockEmbedder := mocks.NewMockEmbedder(2)

	authService, err := auth.New(mockClock, auth.Config{SigningKey: TestSigningKey})
	if err != nil {
		panic(err)
	}

	stores := Stores{Sessions: store, Embeddings: store, Words: store}
	app := newWithDependencies(stores, mockClock, mockRandom, mockEmbedder, authService, zerolog.Nop())

	return &TestApp{
		App:          app,
		MockClock:    mockClock,
		MockRandom:   mockRandom,
		MockEmbedder: mockEmbedder,
		Storage:      store,
	}
}

// TestWords is the word list loaded by LoadTestWords
var TestWords = []string{"apple", "banana", "cherry", "grape", "lemon"}

// LoadTestWords loads a small target word list
func (t *TestApp) LoadTestWords() error {
	return t.WordService.LoadWords(TestWords)
}
