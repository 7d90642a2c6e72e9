package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mcoot/semanticguess/internal/dependencies/clock"
	"github.com/mcoot/semanticguess/internal/model"
	"github.com/mcoot/semanticguess/internal/services/auth"
	"github.com/mcoot/semanticguess/internal/services/session"
	"github.com/mcoot/semanticguess/internal/services/words"
	"github.com/mcoot/semanticguess/internal/storage"
)

// Controller is the session registry. It creates and joins sessions and
// routes token-authenticated requests to the session the token names.
type Controller struct {
	sessions storage.SessionStore
	tokens   *auth.Service
	words    words.ServiceInterface
	embedder session.Embedder
	clock    clock.Clock
	logger   zerolog.Logger
}

// NewController creates a new session registry
func NewController(
	sessions storage.SessionStore,
	tokens *auth.Service,
	words words.ServiceInterface,
	embedder session.Embedder,
	clock clock.Clock,
	logger zerolog.Logger,
) *Controller {
	return &Controller{
		sessions: sessions,
		tokens:   tokens,
		words:    words,
		embedder: embedder,
		clock:    clock,
		logger:   logger.With().Str("component", "game").Logger(),
	}
}

// CreateSession starts a session for capacity players and joins the caller
// as its first player
func (c *Controller) CreateSession(ctx context.Context, capacity int) (*model.Credentials, error) {
	if capacity < 1 {
		return nil, model.ErrInvalidCapacity
	}

	creds, err := c.createSession(ctx, capacity)
	if err != nil {
		c.logFailure(err, "failed to create session", "", "")
		return nil, err
	}

	c.logger.Info().
		Str("session_id", string(creds.SessionID)).
		Str("player_id", string(creds.PlayerID)).
		Int("capacity", capacity).
		Msg("session created")

	return creds, nil
}

func (c *Controller) createSession(ctx context.Context, capacity int) (*model.Credentials, error) {
	target, err := c.words.Pick()
	if err != nil {
		return nil, fmt.Errorf("%w: pick target word: %w", model.ErrInternal, err)
	}

	id := model.SessionID(uuid.NewString())
	sess, err := session.New(id, capacity, target, c.embedder, c.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInternal, err)
	}

	if err := c.sessions.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("%w: save session: %w", model.ErrInternal, err)
	}

	creds, err := c.setupSession(ctx, sess)
	if err != nil {
		if delErr := c.sessions.DeleteSession(ctx, id); delErr != nil {
			c.logger.Warn().Err(delErr).Str("session_id", string(id)).Msg("failed to discard session")
		}
		return nil, internal(err)
	}
	return creds, nil
}

func (c *Controller) setupSession(ctx context.Context, sess *session.Session) (*model.Credentials, error) {
	playerID := model.PlayerID(uuid.NewString())
	if err := sess.AddPlayer(playerID); err != nil {
		return nil, err
	}

	if err := sess.ComputeTargetEmbedding(ctx); err != nil {
		return nil, err
	}

	return c.issue(sess.ID(), playerID)
}

// JoinSession adds a new player to an existing session
func (c *Controller) JoinSession(ctx context.Context, rawID string) (*model.Credentials, error) {
	parsed, err := uuid.Parse(rawID)
	if err != nil {
		return nil, model.ErrInvalidSessionID
	}
	sessionID := model.SessionID(parsed.String())

	sess, err := c.sessions.GetSession(ctx, sessionID)
	if err != nil {
		c.logFailure(err, "failed to join session", sessionID, "")
		return nil, err
	}

	playerID := model.PlayerID(uuid.NewString())
	if err := sess.AddPlayer(playerID); err != nil {
		c.logFailure(err, "failed to join session", sessionID, playerID)
		return nil, err
	}

	creds, err := c.issue(sessionID, playerID)
	if err != nil {
		c.logFailure(err, "failed to issue token", sessionID, playerID)
		return nil, err
	}

	c.logger.Info().
		Str("session_id", string(sessionID)).
		Str("player_id", string(playerID)).
		Msg("player joined")

	return creds, nil
}

// GetState returns the session state as seen by the token's player
func (c *Controller) GetState(ctx context.Context, token string) (*model.SessionState, error) {
	claims, sess, err := c.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	state := sess.State(claims.PlayerID)
	return &state, nil
}

// SubmitGuess submits a guess on behalf of the token's player
func (c *Controller) SubmitGuess(ctx context.Context, token string, guess string) (*model.GuessResult, error) {
	if guess == "" {
		return nil, model.ErrEmptyGuess
	}

	claims, sess, err := c.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	result, err := sess.SubmitGuess(ctx, guess, claims.PlayerID)
	if err != nil {
		c.logFailure(err, "guess rejected", claims.SessionID, claims.PlayerID)
		return nil, err
	}

	event := c.logger.Debug()
	if result.IsCorrect {
		event = c.logger.Info()
	}
	event.
		Str("session_id", string(claims.SessionID)).
		Str("player_id", string(claims.PlayerID)).
		Bool("correct", result.IsCorrect).
		Float64("distance", result.Distance).
		Msg("guess submitted")

	return &result, nil
}

// SessionCount returns the number of live sessions
func (c *Controller) SessionCount(ctx context.Context) (int, error) {
	return c.sessions.CountSessions(ctx)
}

func (c *Controller) resolve(ctx context.Context, token string) (*auth.Claims, *session.Session, error) {
	claims, err := c.tokens.Verify(token)
	if err != nil {
		c.logger.Debug().Err(err).Msg("token rejected")
		return nil, nil, err
	}

	sess, err := c.sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		c.logFailure(err, "token references missing session", claims.SessionID, claims.PlayerID)
		return nil, nil, err
	}
	return claims, sess, nil
}

func (c *Controller) issue(sessionID model.SessionID, playerID model.PlayerID) (*model.Credentials, error) {
	token, err := c.tokens.Issue(sessionID, playerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInternal, err)
	}
	return &model.Credentials{
		SessionID: sessionID,
		PlayerID:  playerID,
		Token:     token,
	}, nil
}

// logFailure logs client errors at warn and everything else at error
func (c *Controller) logFailure(err error, msg string, sessionID model.SessionID, playerID model.PlayerID) {
	kind := model.KindOf(err)

	event := c.logger.Error()
	if kind.IsClientError() {
		event = c.logger.Warn()
	}
	if sessionID != "" {
		event = event.Str("session_id", string(sessionID))
	}
	if playerID != "" {
		event = event.Str("player_id", string(playerID))
	}
	event.Err(err).Str("kind", string(kind)).Msg(msg)
}

// internal marks an error as an internal failure unless it already is one
func internal(err error) error {
	if model.KindOf(err) == model.KindInternalFailure {
		return err
	}
	return fmt.Errorf("%w: %w", model.ErrInternal, err)
}

// ControllerInterface is the set of registry operations the API layer uses
type ControllerInterface interface {
	CreateSession(ctx context.Context, capacity int) (*model.Credentials, error)
	JoinSession(ctx context.Context, rawID string) (*model.Credentials, error)
	GetState(ctx context.Context, token string) (*model.SessionState, error)
	SubmitGuess(ctx context.Context, token string, guess string) (*model.GuessResult, error)
	SessionCount(ctx context.Context) (int, error)
}

var _ ControllerInterface = (*Controller)(nil)
