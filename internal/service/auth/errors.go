package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrWrongTokenType indicates an access token was used where a refresh
	// token was expected, or the reverse.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrInvalidRefreshToken indicates the refresh token is malformed or unsigned.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrExpiredRefreshToken indicates the refresh token has expired.
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrRevokedToken indicates the refresh token was signed out or already rotated.
	ErrRevokedToken = errors.New("refresh token has been revoked")

	// ErrInvalidState indicates the OAuth state is missing, forged or stale.
	ErrInvalidState = errors.New("invalid sign-in state")

	// ErrProviderFailure indicates the identity provider rejected the code
	// or could not be reached.
	ErrProviderFailure = errors.New("identity provider request failed")
)
