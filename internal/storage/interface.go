package storage

import (
	"context"

	"github.com/mcoot/semanticguess/internal/model"
	"github.com/mcoot/semanticguess/internal/services/session"
)

// SessionStore holds live game sessions. It guards its own index; each
// session guards its own fields.
type SessionStore interface {
	SaveSession(ctx context.Context, s *session.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*session.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
	CountSessions(ctx context.Context) (int, error)
}

// EmbeddingCache stores word embeddings fetched from a provider
type EmbeddingCache interface {
	GetEmbedding(ctx context.Context, word string) (model.Embedding, error)
	SaveEmbedding(ctx context.Context, word string, embedding model.Embedding) error
}

// WordStore holds the candidate target words
type WordStore interface {
	GetWords(ctx context.Context) ([]string, error)
	SaveWords(ctx context.Context, words []string) error
}

// Storage is the full set of operations the in-memory backend provides
type Storage interface {
	SessionStore
	EmbeddingCache
	WordStore
}
