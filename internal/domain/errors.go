package domain

import "errors"

var (
	// ErrSessionNotFound signals an unknown or expired session handle.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidInput signals a request the transport could not accept.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyCatalog signals that the catalog provider returned no items.
	ErrEmptyCatalog = errors.New("catalog is empty")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrPrototypeMissing signals a use case without a prototype vector.
	ErrPrototypeMissing = errors.New("use case prototype missing")
	// ErrDimensionMismatch signals vectors of different lengths.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
