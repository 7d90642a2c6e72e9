package response

import (
	"github.com/mcoot/semanticguess/internal/model"
)

// Health is the response for the health endpoint
type Health struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// Credentials is the response for creating or joining a session
type Credentials struct {
	SessionID string `json:"session_id"`
	PlayerID  string `json:"player_id"`
	Token     string `json:"token"`
}

// CredentialsFromModel converts model.Credentials
func CredentialsFromModel(c *model.Credentials) Credentials {
	return Credentials{
		SessionID: string(c.SessionID),
		PlayerID:  string(c.PlayerID),
		Token:     c.Token,
	}
}

// State is the response for the state endpoint
type State struct {
	IsGameOver    bool `json:"is_game_over"`
	IsTurn        bool `json:"is_turn"`
	IsWinner      bool `json:"is_winner"`
	PlayersJoined int  `json:"players_joined"`
	Capacity      int  `json:"capacity"`
}

// StateFromModel converts model.SessionState
func StateFromModel(s *model.SessionState) State {
	return State{
		IsGameOver:    s.IsOver,
		IsTurn:        s.IsTurn,
		IsWinner:      s.IsWinner,
		PlayersJoined: s.PlayersJoined,
		Capacity:      s.Capacity,
	}
}

// Guess is the response for a submitted guess
type Guess struct {
	IsCorrect bool    `json:"is_correct"`
	Distance  float64 `json:"distance"`
}

// GuessFromModel converts model.GuessResult
func GuessFromModel(g *model.GuessResult) Guess {
	return Guess{
		IsCorrect: g.IsCorrect,
		Distance:  g.Distance,
	}
}

// CreateGame is the legacy /create_game response
type CreateGame struct {
	GameID    string `json:"game_id"`
	AuthToken string `json:"auth_token"`
}

// JoinGame is the legacy /join_game response
type JoinGame struct {
	AuthToken string `json:"auth_token"`
}

// LegacyState is the legacy /get_state response
type LegacyState struct {
	IsGameOver bool `json:"is_game_over"`
	IsTurn     bool `json:"is_turn"`
}
