package request

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	Capacity int `json:"capacity"`
}

// GuessRequest is the request body for submitting a guess
type GuessRequest struct {
	Guess string `json:"guess"`
}

// Legacy request bodies carry the token in the body

// CreateGameRequest is the legacy body for /create_game
type CreateGameRequest struct {
	NumPlayers int `json:"num_players"`
}

// JoinGameRequest is the legacy body for /join_game
type JoinGameRequest struct {
	GameID string `json:"game_id"`
}

// GetStateRequest is the legacy body for /get_state
type GetStateRequest struct {
	AuthToken string `json:"auth_token"`
}

// MakeGuessRequest is the legacy body for /make_guess
type MakeGuessRequest struct {
	Guess     string `json:"guess"`
	AuthToken string `json:"auth_token"`
}
