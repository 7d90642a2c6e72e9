package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/semanticguess/internal/api/middleware"
	"github.com/mcoot/semanticguess/internal/api/request"
	"github.com/mcoot/semanticguess/internal/api/response"
	"github.com/mcoot/semanticguess/internal/services/game"
)

// SessionHandler handles session and gameplay endpoints
type SessionHandler struct {
	controller game.ControllerInterface
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller game.ControllerInterface) *SessionHandler {
	return &SessionHandler{controller: controller}
}

// Health handles GET /api/v1/health
func (h *SessionHandler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.controller.SessionCount(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Health{Status: "ok", Sessions: count})
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	creds, err := h.controller.CreateSession(r.Context(), req.Capacity)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CredentialsFromModel(creds))
}

// Join handles POST /api/v1/sessions/{id}/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	creds, err := h.controller.JoinSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CredentialsFromModel(creds))
}

// State handles GET /api/v1/game/state
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	state, err := h.controller.GetState(r.Context(), middleware.GetToken(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StateFromModel(state))
}

// Guess handles POST /api/v1/game/guess
func (h *SessionHandler) Guess(w http.ResponseWriter, r *http.Request) {
	var req request.GuessRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.controller.SubmitGuess(r.Context(), middleware.GetToken(r.Context()), req.Guess)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GuessFromModel(result))
}
