package domain

import "errors"

// ErrSessionNotFound is returned when a user has no session yet.
var ErrSessionNotFound = errors.New("session not found")

// ErrExchangeFailed is the single failure condition of a conversation exchange.
// The underlying cause (network, quota, malformed response) is kept in the wrap chain for logs only.
var ErrExchangeFailed = errors.New("exchange failed")

// ErrAssetNotFound is returned when a prompt, message or image key has no backing asset.
// It is a configuration error, never shown to the user.
var ErrAssetNotFound = errors.New("asset not found")

// ErrGateway wraps failures of the messaging gateway (send, edit, menu calls).
var ErrGateway = errors.New("gateway error")
