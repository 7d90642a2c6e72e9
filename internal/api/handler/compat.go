package handler

import (
	"net/http"

	"github.com/mcoot/semanticguess/internal/api/request"
	"github.com/mcoot/semanticguess/internal/api/response"
	"github.com/mcoot/semanticguess/internal/services/game"
)

// CompatHandler serves the legacy route set, where tokens travel in the
// request body and every success is a 200
type CompatHandler struct {
	controller game.ControllerInterface
}

// NewCompatHandler creates a new legacy route handler
func NewCompatHandler(controller game.ControllerInterface) *CompatHandler {
	return &CompatHandler{controller: controller}
}

// CreateGame handles POST /create_game
func (h *CompatHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	creds, err := h.controller.CreateSession(r.Context(), req.NumPlayers)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CreateGame{
		GameID:    string(creds.SessionID),
		AuthToken: creds.Token,
	})
}

// JoinGame handles POST /join_game
func (h *CompatHandler) JoinGame(w http.ResponseWriter, r *http.Request) {
	var req request.JoinGameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	creds, err := h.controller.JoinSession(r.Context(), req.GameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.JoinGame{AuthToken: creds.Token})
}

// GetState handles POST /get_state
func (h *CompatHandler) GetState(w http.ResponseWriter, r *http.Request) {
	var req request.GetStateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	state, err := h.controller.GetState(r.Context(), req.AuthToken)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LegacyState{
		IsGameOver: state.IsOver,
		IsTurn:     state.IsTurn,
	})
}

// MakeGuess handles POST /make_guess
func (h *CompatHandler) MakeGuess(w http.ResponseWriter, r *http.Request) {
	var req request.MakeGuessRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.controller.SubmitGuess(r.Context(), req.AuthToken, req.Guess)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GuessFromModel(result))
}
