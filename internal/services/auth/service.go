package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"

	"github.com/mcoot/semanticguess/internal/dependencies/clock"
	"github.com/mcoot/semanticguess/internal/model"
)

// Errors
var (
	ErrInvalidToken = fmt.Errorf("%w: invalid token", model.ErrUnauthorized)
)

const (
	// generatedKeySize matches a 128-byte hex secret
	generatedKeySize = 128
	derivedKeySize   = 64
	hkdfInfo         = "semguess token signing"
)

// Claims are the contents of a player's bearer token
type Claims struct {
	SessionID model.SessionID `json:"game_id"`
	PlayerID  model.PlayerID  `json:"player_id"`
	jwt.RegisteredClaims
}

// Service issues and verifies signed player tokens. Tokens are not stored;
// a token is valid as long as its signature checks out.
type Service struct {
	clock  clock.Clock
	key    []byte
	issuer string
	ttl    time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	// SigningKey is used as-is when set
	SigningKey []byte
	// Secret derives the signing key when SigningKey is empty. If both are
	// empty a random key is generated, valid for the process lifetime.
	Secret string
	// Issuer is written to and required on every token
	Issuer string
	// TokenTTL adds an expiry to tokens (0 means tokens never expire)
	TokenTTL time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		Issuer: "semguess",
	}
}

// New creates a new auth service
func New(clock clock.Clock, cfg Config) (*Service, error) {
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultConfig().Issuer
	}

	key, err := signingKey(cfg)
	if err != nil {
		return nil, err
	}

	return &Service{
		clock:  clock,
		key:    key,
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTL,
	}, nil
}

// Issue creates a token for a player in a session
func (s *Service) Issue(sessionID model.SessionID, playerID model.PlayerID) (string, error) {
	now := s.clock.Now()

	claims := Claims{
		SessionID: sessionID,
		PlayerID:  playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks a token's signature and structure and returns its claims
func (s *Service) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if claims.SessionID == "" || claims.PlayerID == "" {
		return nil, fmt.Errorf("%w: missing session or player", ErrInvalidToken)
	}

	return claims, nil
}

func signingKey(cfg Config) ([]byte, error) {
	switch {
	case len(cfg.SigningKey) > 0:
		return cfg.SigningKey, nil
	case cfg.Secret != "":
		key := make([]byte, derivedKeySize)
		if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(cfg.Secret), nil, []byte(hkdfInfo)), key); err != nil {
			return nil, fmt.Errorf("derive signing key: %w", err)
		}
		return key, nil
	default:
		key := make([]byte, generatedKeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
		return key, nil
	}
}
