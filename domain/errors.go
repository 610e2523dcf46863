package domain

import "errors"

var (
	UnexpectedDatabaseError = errors.New("database-error")
	ErrDeckNotFound         = errors.New("deck-not-found")
	ErrRoomNotFound         = errors.New("room-not-found")
)

var (
	UnexpectedTokenGenerationError   = errors.New("token-generation-error")
	UnexpectedTokenVerificationError = errors.New("token-verification-error")
	ErrInvalidSigningAlg             = errors.New("invalid-signing-alg")
	ErrExpiredToken                  = errors.New("expired-token")
	ErrInvalidTokenSignature         = errors.New("invalid-token-signature")
	ErrCorruptedToken                = errors.New("corrupted-token")
)
