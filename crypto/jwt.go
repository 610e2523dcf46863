package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eladsnd/cardsAgainstSoogShell/domain"
)

// sessionClaims binds a session token to one seat in one room.
// Fields must be exported for JSON serialization.
type sessionClaims struct {
	Room string `json:"room"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies the tokens clients present when
// reconnecting, proving they own a player name in a room.
type SessionManager struct {
	secretKey []byte
	maxAge    time.Duration
}

func NewSessionManager(secretKey string, maxAge time.Duration) *SessionManager {
	return &SessionManager{
		secretKey: []byte(secretKey),
		maxAge:    maxAge,
	}
}

func (m *SessionManager) Generate(roomCode, playerName string, now time.Time) (string, error) {
	claims := sessionClaims{
		Room: roomCode,
		Name: playerName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.UnexpectedTokenGenerationError, err)
	}

	return signedToken, nil
}

// Verify returns the room code and player name baked into a token.
func (m *SessionManager) Verify(tokenString string) (string, string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidSigningAlg
		}
		return m.secretKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSigningAlg):
			return "", "", domain.ErrInvalidSigningAlg
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", "", domain.ErrExpiredToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return "", "", domain.ErrInvalidTokenSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", "", domain.ErrCorruptedToken
		default:
			return "", "", fmt.Errorf("%w: %w", domain.UnexpectedTokenVerificationError, err)
		}
	}

	if claims, ok := token.Claims.(*sessionClaims); ok && token.Valid {
		return claims.Room, claims.Name, nil
	}

	return "", "", domain.ErrCorruptedToken
}
