package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eladsnd/cardsAgainstSoogShell/domain"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	t.Parallel()
	m := NewSessionManager("test-key", time.Hour)

	token, err := m.Generate("ABCD", "Alice", time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	room, name, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ABCD", room)
	assert.Equal(t, "Alice", name)
}

func TestSessionToken_Expired(t *testing.T) {
	t.Parallel()
	m := NewSessionManager("test-key", time.Hour)

	token, err := m.Generate("ABCD", "Alice", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, _, err = m.Verify(token)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)
}

func TestSessionToken_WrongKey(t *testing.T) {
	t.Parallel()
	issuer := NewSessionManager("key-one", time.Hour)
	verifier := NewSessionManager("key-two", time.Hour)

	token, err := issuer.Generate("ABCD", "Alice", time.Now())
	require.NoError(t, err)

	_, _, err = verifier.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidTokenSignature)
}

func TestSessionToken_Garbage(t *testing.T) {
	t.Parallel()
	m := NewSessionManager("test-key", time.Hour)

	_, _, err := m.Verify("not.a.token")
	assert.ErrorIs(t, err, domain.ErrCorruptedToken)
}

func TestSessionToken_RejectsWrongSigningAlg(t *testing.T) {
	t.Parallel()
	m := NewSessionManager("test-key", time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"room": "ABCD",
		"name": "Alice",
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = m.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidSigningAlg)
}
