package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrNoContent indicates the remote call succeeded but carried no text.
var ErrNoContent = errors.New("ai returned no content")

// ErrMissingAPIKey indicates the adapter was constructed without a credential.
var ErrMissingAPIKey = errors.New("ai api key is not configured")
