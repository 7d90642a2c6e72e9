package words

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/mcoot/semanticguess/internal/dependencies/random"
	"github.com/mcoot/semanticguess/internal/model"
	"github.com/mcoot/semanticguess/internal/storage"
)

//go:embed default_words.txt
var defaultWords string

// Service provides the candidate target words
type Service struct {
	storage storage.WordStore
	random  random.Random
	logger  zerolog.Logger

	mu     sync.RWMutex
	words  []string
	loaded bool
}

// New creates a new word service
func New(storage storage.WordStore, random random.Random, logger zerolog.Logger) *Service {
	return &Service{
		storage: storage,
		random:  random,
		logger:  logger.With().Str("component", "words").Logger(),
	}
}

// Load fills the word list from path if set, otherwise from storage, falling
// back to the embedded default list
func (s *Service) Load(ctx context.Context, path string) error {
	if path != "" {
		return s.LoadFromFile(ctx, path)
	}

	err := s.LoadFromStorage(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrWordListEmpty) {
		return err
	}

	return s.LoadDefault(ctx)
}

// LoadFromStorage loads words previously saved to storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	words, err := s.storage.GetWords(ctx)
	if err != nil {
		return err
	}
	if err := s.loadWords(words); err != nil {
		return err
	}

	s.logger.Info().Int("count", s.WordCount()).Msg("words loaded from storage")
	return nil
}

// LoadFromFile loads words from a file (one word per line) and saves them to storage
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	words, err := readWords(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := s.save(ctx, words); err != nil {
		return err
	}

	s.logger.Info().Str("path", path).Int("count", s.WordCount()).Msg("words loaded from file")
	return nil
}

// LoadDefault loads the built-in word list and saves it to storage
func (s *Service) LoadDefault(ctx context.Context) error {
	words, err := readWords(strings.NewReader(defaultWords))
	if err != nil {
		return err
	}
	if err := s.save(ctx, words); err != nil {
		return err
	}

	s.logger.Info().Int("count", s.WordCount()).Msg("default words loaded")
	return nil
}

// LoadWords directly loads a slice of words (useful for testing)
func (s *Service) LoadWords(words []string) error {
	return s.loadWords(words)
}

func (s *Service) save(ctx context.Context, words []string) error {
	if err := s.loadWords(words); err != nil {
		return err
	}

	// Save to storage for future use
	return s.storage.SaveWords(ctx, s.Words())
}

func (s *Service) loadWords(words []string) error {
	cleaned := normalize(words)
	if len(cleaned) == 0 {
		return model.ErrWordListEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.words = cleaned
	s.loaded = true
	return nil
}

// Pick returns a uniformly random word from the list
func (s *Service) Pick() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded || len(s.words) == 0 {
		return "", model.ErrWordListEmpty
	}
	return s.words[s.random.Intn(len(s.words))], nil
}

// Words returns a copy of the loaded word list
func (s *Service) Words() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]string, len(s.words))
	copy(result, s.words)
	return result
}

// IsLoaded returns whether a word list has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// WordCount returns the number of words in the list
func (s *Service) WordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// ServiceInterface is the set of word operations the rest of the app uses
type ServiceInterface interface {
	Load(ctx context.Context, path string) error
	LoadFromStorage(ctx context.Context) error
	LoadFromFile(ctx context.Context, path string) error
	LoadDefault(ctx context.Context) error
	LoadWords(words []string) error
	Pick() (string, error)
	Words() []string
	IsLoaded() bool
	WordCount() int
}

var _ ServiceInterface = (*Service)(nil)

// readWords reads one word per line, skipping blanks and # comments
func readWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// normalize trims words and drops blanks and duplicates, keeping first-seen order
func normalize(words []string) []string {
	trimmed := lo.FilterMap(words, func(w string, _ int) (string, bool) {
		w = strings.TrimSpace(w)
		return w, w != ""
	})
	return lo.Uniq(trimmed)
}
