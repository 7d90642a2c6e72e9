package model

// SessionID uniquely identifies a game session
type SessionID string

// Phase represents the current stage of a session
type Phase string

const (
	PhaseFilling Phase = "filling" // Waiting for players to join
	PhaseReady   Phase = "ready"   // All players joined, turns proceed
	PhaseWon     Phase = "won"     // A player guessed the target word
)

// Embedding is the numeric vector representation of a word
type Embedding []float64

// SessionState is a player's view of a session
type SessionState struct {
	IsOver        bool
	IsTurn        bool
	IsWinner      bool
	PlayersJoined int
	Capacity      int
}

// GuessResult is the outcome of a single guess
type GuessResult struct {
	IsCorrect bool
	Distance  float64
}

// Credentials identify a player within a session
type Credentials struct {
	SessionID SessionID
	PlayerID  PlayerID
	Token     string
}
