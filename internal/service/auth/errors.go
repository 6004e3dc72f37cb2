package auth

import "errors"

// Token and credential errors.
var (
	// ErrInvalidToken means the access token is malformed or its signature does not match.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken means the access token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid means the token's issue time lies in the future.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken means no bearer token was sent.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrWrongTokenType means a refresh token was used as an access token or the reverse.
	ErrWrongTokenType = errors.New("wrong token type")

	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrInvalidCredentials means the email is unknown or the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
