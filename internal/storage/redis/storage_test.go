package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/semanticguess/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.EmbeddingTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Connection tests

func (s *StorageSuite) TestNewConnects() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()

	store, err := New(cfg)
	s.Require().NoError(err)
	s.NoError(store.Close())
}

func (s *StorageSuite) TestNewRejectsBadURL() {
	cfg := DefaultConfig()
	cfg.URL = "not-a-url"

	_, err := New(cfg)
	s.Error(err)
}

// Embedding tests

func (s *StorageSuite) TestSaveAndGetEmbedding() {
	err := s.storage.SaveEmbedding(s.ctx, "apple", model.Embedding{0.5, -1.25, 3})
	s.Require().NoError(err)

	embedding, err := s.storage.GetEmbedding(s.ctx, "apple")
	s.Require().NoError(err)
	s.Equal(model.Embedding{0.5, -1.25, 3}, embedding)
}

func (s *StorageSuite) TestGetEmbeddingNotCached() {
	_, err := s.storage.GetEmbedding(s.ctx, "apple")
	s.ErrorIs(err, model.ErrEmbeddingNotCached)
}

func (s *StorageSuite) TestEmbeddingTTL() {
	_ = s.storage.SaveEmbedding(s.ctx, "apple", model.Embedding{1})

	ttl := s.mini.TTL(embeddingKey("apple"))
	s.Equal(time.Hour, ttl)

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetEmbedding(s.ctx, "apple")
	s.ErrorIs(err, model.ErrEmbeddingNotCached)
}

func (s *StorageSuite) TestEmbeddingWithoutTTL() {
	s.storage.cfg.EmbeddingTTL = 0
	_ = s.storage.SaveEmbedding(s.ctx, "apple", model.Embedding{1})

	s.Equal(time.Duration(0), s.mini.TTL(embeddingKey("apple")))
}

func (s *StorageSuite) TestGetEmbeddingCorruptData() {
	s.Require().NoError(s.mini.Set(embeddingKey("apple"), "not json"))

	_, err := s.storage.GetEmbedding(s.ctx, "apple")
	s.Error(err)
	s.NotErrorIs(err, model.ErrEmbeddingNotCached)
}

// Word tests

func (s *StorageSuite) TestGetWordsBeforeSave() {
	_, err := s.storage.GetWords(s.ctx)
	s.ErrorIs(err, model.ErrWordListEmpty)
}

func (s *StorageSuite) TestSaveAndGetWordsKeepsOrder() {
	words := []string{"cherry", "apple", "banana"}
	err := s.storage.SaveWords(s.ctx, words)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetWords(s.ctx)
	s.Require().NoError(err)
	s.Equal(words, retrieved)
}

func (s *StorageSuite) TestSaveWordsReplaces() {
	_ = s.storage.SaveWords(s.ctx, []string{"apple", "banana"})
	_ = s.storage.SaveWords(s.ctx, []string{"pear"})

	retrieved, err := s.storage.GetWords(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"pear"}, retrieved)
}

func (s *StorageSuite) TestSaveEmptyWordsClears() {
	_ = s.storage.SaveWords(s.ctx, []string{"apple"})
	_ = s.storage.SaveWords(s.ctx, nil)

	_, err := s.storage.GetWords(s.ctx)
	s.ErrorIs(err, model.ErrWordListEmpty)
}
