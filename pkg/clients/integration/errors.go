// Package integration holds the error vocabulary shared by the third-party API clients
package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrNotConfigured means credentials or a base URL are missing
	ErrNotConfigured = errors.New("integration not configured")
	// ErrUnauthorized means the remote API rejected the credentials
	ErrUnauthorized = errors.New("integration rejected credentials")
)

// Class is the recovery category of an integration error
type Class string

const (
	ClassTransient     Class = "transient"
	ClassConfiguration Class = "configuration"
	ClassPermanent     Class = "permanent"
)

// TransientError is a failure worth retrying later: 5xx, 429 or a network error
type TransientError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: temporary failure (status %d): %v", e.Service, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: temporary failure: %v", e.Service, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// StatusError is a non-retryable HTTP error response
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: request failed with status %d: %s", e.Service, e.StatusCode, e.Body)
}

// Classify reports how a caller should recover from err
func Classify(err error) Class {
	var transient *TransientError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured), errors.Is(err, ErrUnauthorized):
		return ClassConfiguration
	case errors.As(err, &transient):
		return ClassTransient
	default:
		return ClassPermanent
	}
}

// CheckResponse turns an error status into the matching integration error.
// It returns nil for 2xx responses and leaves the body unread.
func CheckResponse(service string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	text := strings.TrimSpace(string(body))

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w (status %d)", service, ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return &TransientError{Service: service, StatusCode: resp.StatusCode, Err: errors.New(text)}
	default:
		return &StatusError{Service: service, StatusCode: resp.StatusCode, Body: text}
	}
}

// WrapTransportError marks network failures as transient; cancellations stay as they are
func WrapTransportError(service string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &TransientError{Service: service, Err: err}
}
