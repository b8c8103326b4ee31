package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyContent is returned when the LLM responds without any text.
	ErrEmptyContent = errors.New("LLM returned empty content")

	// ErrMalformedOutput is returned when the LLM output has no hashtag section.
	ErrMalformedOutput = errors.New("LLM output is missing the hashtag section")
)

// ConfigurationError means required settings are missing. It is raised before
// any network call is made.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: missing %s", strings.Join(e.Missing, ", "))
}

// GenerationError wraps any failure to produce a Draft.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// PublishError wraps a failed LinkedIn post. StatusCode is 0 when the request
// never got a response.
type PublishError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *PublishError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("publish failed with status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("publish failed: %v", e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// RejectedByReview is a normal terminal outcome, not a failure.
type RejectedByReview struct {
	Reason string
	Review ReviewResult
}

func (e *RejectedByReview) Error() string {
	return "rejected by review: " + e.Reason
}
