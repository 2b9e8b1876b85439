// Package shared holds sentinel errors used across the bot's packages.
package shared

import "errors"

var (
	// common errors
	ErrorNotFound = errors.New("not found")

	// moderation-specific errors
	ErrorAlreadyResolved = errors.New("already resolved")

	// profile-specific errors
	ErrorNotConfigured = errors.New("classification not set")

	// input errors, resolved locally by re-prompting
	ErrorValidation = errors.New("validation error")

	// web-panel auth errors
	ErrorInvalidToken = errors.New("invalid token")
)
