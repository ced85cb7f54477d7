// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Rendering constants
const (
	// DefaultConcurrency is the default number of parallel page-pair renders per book
	DefaultConcurrency = 4
)

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for job event channels
	EventChannelBuffer = 100
)
