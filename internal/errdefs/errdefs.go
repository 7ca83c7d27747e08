// Package errdefs defines the error taxonomy shared across the pipeline.
// Every failure surfaced to a user wraps exactly one of these sentinels.
package errdefs

import (
	"context"
	"errors"
	"fmt"
	"net"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// Document processing errors.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrCorruptFile       = errors.New("corrupt or unreadable file")
	ErrEmptyDocument     = errors.New("document produced no chunks")

	// Provider errors.
	ErrQuotaExceeded = errors.New("provider quota exceeded")
	ErrAuthFailed    = errors.New("provider authentication failed")
	ErrNetwork       = errors.New("provider network error")

	// Conversation errors.
	ErrGenerationFailed = errors.New("generation failed")
)

// Classify maps a provider error onto the taxonomy. It understands
// go-openai API errors and transport-level failures; anything else is
// returned wrapped as a network error since callers only ever see provider
// errors through the hosted APIs.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	// Already classified.
	for _, sentinel := range []error{ErrQuotaExceeded, ErrAuthFailed, ErrNetwork, ErrGenerationFailed} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

// ClassifyStatus maps an HTTP status code from a provider response onto
// the taxonomy. Used by providers that speak raw HTTP (Ollama).
func ClassifyStatus(statusCode int, err error) error {
	return classifyStatus(statusCode, err)
}

func classifyStatus(statusCode int, err error) error {
	switch {
	case statusCode == 401 || statusCode == 403:
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	case statusCode == 429:
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	default:
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
}

// IsQuota reports whether err is a quota exhaustion error, the trigger for
// the embedder fallback switch.
func IsQuota(err error) bool { return errors.Is(err, ErrQuotaExceeded) }
