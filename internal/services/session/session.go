package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mcoot/semanticguess/internal/model"
	"github.com/mcoot/semanticguess/internal/services/scoring"
)

// Embedder turns a word into its embedding
type Embedder interface {
	Embed(ctx context.Context, word string) (model.Embedding, error)
}

// Session owns one game's state. All methods are safe for concurrent use;
// each one holds the session lock for its full duration, including any
// embedding call it makes.
type Session struct {
	mu sync.Mutex

	id        model.SessionID
	capacity  int
	createdAt time.Time

	players     map[model.PlayerID]struct{}
	turnOrder   []model.PlayerID
	turnCounter int

	targetWord      string
	targetEmbedding model.Embedding

	isOver bool
	winner model.PlayerID

	embedder Embedder
}

// maxPreallocPlayers bounds the player storage reserved up front. Capacity is
// caller supplied, so larger sessions grow on join.
const maxPreallocPlayers = 16

// New creates a session waiting for capacity players
func New(id model.SessionID, capacity int, targetWord string, embedder Embedder, createdAt time.Time) (*Session, error) {
	if capacity < 1 {
		return nil, model.ErrInvalidCapacity
	}

	prealloc := min(capacity, maxPreallocPlayers)

	return &Session{
		id:         id,
		capacity:   capacity,
		createdAt:  createdAt,
		players:    make(map[model.PlayerID]struct{}, prealloc),
		turnOrder:  make([]model.PlayerID, 0, prealloc),
		targetWord: targetWord,
		embedder:   embedder,
	}, nil
}

// ID returns the session identifier
func (s *Session) ID() model.SessionID {
	return s.id
}

// Capacity returns the number of players required to start
func (s *Session) Capacity() int {
	return s.capacity
}

// CreatedAt returns when the session was created
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// AddPlayer appends a player to the turn order
func (s *Session) AddPlayer(playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.turnOrder) >= s.capacity {
		return model.ErrCapacityExceeded
	}

	s.players[playerID] = struct{}{}
	s.turnOrder = append(s.turnOrder, playerID)
	return nil
}

// ComputeTargetEmbedding fetches and stores the target word's embedding.
// Calling it again replaces the stored embedding.
func (s *Session) ComputeTargetEmbedding(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	embedding, err := s.embedder.Embed(ctx, s.targetWord)
	if err != nil {
		return fmt.Errorf("embed target word: %w", err)
	}

	s.targetEmbedding = embedding
	return nil
}

// State returns the session as seen by the given player. Unknown players
// never have the turn.
func (s *Session) State(playerID model.PlayerID) model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return model.SessionState{
		IsOver:        s.isOver,
		IsTurn:        s.isActiveLocked(playerID),
		IsWinner:      s.isOver && s.winner == playerID,
		PlayersJoined: len(s.turnOrder),
		Capacity:      s.capacity,
	}
}

// SubmitGuess scores a guess from the active player and advances the turn.
// An exact match wins the game without consulting the embedder.
func (s *Session) SubmitGuess(ctx context.Context, guess string, playerID model.PlayerID) (model.GuessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isOver {
		return model.GuessResult{}, model.ErrSessionOver
	}
	if !s.isActiveLocked(playerID) {
		return model.GuessResult{}, model.ErrNotPlayerTurn
	}

	s.turnCounter++

	if guess == s.targetWord {
		s.isOver = true
		s.winner = playerID
		return model.GuessResult{IsCorrect: true, Distance: 0}, nil
	}

	if s.targetEmbedding == nil {
		return model.GuessResult{}, model.ErrTargetNotEmbedded
	}

	// The turn is already spent, so a caller going away must not abort scoring
	embedding, err := s.embedder.Embed(context.WithoutCancel(ctx), guess)
	if err != nil {
		return model.GuessResult{}, fmt.Errorf("embed guess: %w", err)
	}

	distance, err := scoring.Euclidean(embedding, s.targetEmbedding)
	if err != nil {
		return model.GuessResult{}, err
	}

	return model.GuessResult{IsCorrect: false, Distance: distance}, nil
}

// Phase returns the current stage of the session
func (s *Session) Phase() model.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phaseLocked()
}

// TurnCounter returns the number of guesses processed so far
func (s *Session) TurnCounter() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turnCounter
}

// Players returns a copy of the turn order
func (s *Session) Players() []model.PlayerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	players := make([]model.PlayerID, len(s.turnOrder))
	copy(players, s.turnOrder)
	return players
}

// Winner returns the winning player, or empty if nobody has won yet
func (s *Session) Winner() model.PlayerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.winner
}

func (s *Session) phaseLocked() model.Phase {
	switch {
	case s.isOver:
		return model.PhaseWon
	case len(s.turnOrder) < s.capacity:
		return model.PhaseFilling
	default:
		return model.PhaseReady
	}
}

func (s *Session) isActiveLocked(playerID model.PlayerID) bool {
	if s.phaseLocked() != model.PhaseReady {
		return false
	}
	return s.turnOrder[s.turnCounter%s.capacity] == playerID
}
