package memory

import (
	"context"
	"sync"

	"github.com/mcoot/semanticguess/internal/model"
	"github.com/mcoot/semanticguess/internal/services/session"
	"github.com/mcoot/semanticguess/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	sessions   map[model.SessionID]*session.Session
	embeddings map[string]model.Embedding
	words      []string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions:   make(map[model.SessionID]*session.Session),
		embeddings: make(map[string]model.Embedding),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID()] = sess
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return sess, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Storage) CountSessions(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

// Embedding operations

func (s *Storage) GetEmbedding(ctx context.Context, word string) (model.Embedding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	embedding, ok := s.embeddings[word]
	if !ok {
		return nil, model.ErrEmbeddingNotCached
	}
	result := make(model.Embedding, len(embedding))
	copy(result, embedding)
	return result, nil
}

func (s *Storage) SaveEmbedding(ctx context.Context, word string, embedding model.Embedding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make(model.Embedding, len(embedding))
	copy(stored, embedding)
	s.embeddings[word] = stored
	return nil
}

// Word operations

func (s *Storage) GetWords(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.words == nil {
		return nil, model.ErrWordListEmpty
	}
	result := make([]string, len(s.words))
	copy(result, s.words)
	return result, nil
}

func (s *Storage) SaveWords(ctx context.Context, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = make([]string, len(words))
	copy(s.words, words)
	return nil
}
