package domain

import "errors"

var (
	// ErrArtworkNotFound signals a missing artwork.
	ErrArtworkNotFound = errors.New("artwork not found")
	// ErrProfileNotFound signals a missing taste profile.
	ErrProfileNotFound = errors.New("taste profile not found")
	// ErrInvalidFilter signals a malformed query filter.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidEntity signals a malformed catalog entity on ingest.
	ErrInvalidEntity = errors.New("invalid entity")
	// ErrInvalidInteraction signals a malformed interaction event.
	ErrInvalidInteraction = errors.New("invalid interaction")
	// ErrInvalidImage signals undecodable or unsupported image bytes.
	ErrInvalidImage = errors.New("invalid image")
	// ErrStoreUnavailable signals that the backing store rejected a write.
	ErrStoreUnavailable = errors.New("store unavailable")
)
