package jwtx

import "errors"

var (
	ErrMissingToken = errors.New("jwtx: missing token")
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrAlgMismatch  = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")

	ErrFingerprintMissing  = errors.New("jwtx: fingerprint or fingerprint hash missing")
	ErrFingerprintMismatch = errors.New("jwtx: fingerprint mismatch")

	ErrUnknownTokenType = errors.New("jwtx: unknown token type")

	ErrWeakSecret      = errors.New("jwtx: secret must be at least 64 bytes")
	ErrMissingIssuer   = errors.New("jwtx: issuer must not be blank")
	ErrInvalidDuration = errors.New("jwtx: token duration must be a positive whole number of seconds")
)
