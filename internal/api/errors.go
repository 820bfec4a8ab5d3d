package api

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the backend refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeAuth indicates the session is not logged in or the login was rejected
	ErrTypeAuth
	// ErrTypeHTTP indicates an unexpected HTTP status code
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed response body
	ErrTypeParse
	// ErrTypeApplication indicates the backend answered {"success": false}
	ErrTypeApplication
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeApplication:
		return "Server Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned by every Client method that fails.
type Error struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	Path       string    // API path of the failed request
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether the request may be repeated
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Classify analyzes a transport error and returns a more specific Error
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &Error{Type: ErrTypeTimeout, Message: "request timed out", Err: err, Retryable: true}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{
			Type:    ErrTypeDNS,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:     err,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &Error{Type: ErrTypeConnectionRefused, Message: "backend refused connection", Err: err, Retryable: true}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return Classify(urlErr.Err)
	}

	return &Error{Type: ErrTypeNetwork, Message: "network error occurred", Err: err, Retryable: true}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *Error {
	classified := Classify(err)
	if classified == nil {
		return &Error{Type: ErrTypeNetwork, Message: message, Retryable: true}
	}
	classified.Message = message
	return classified
}

// NewAuthError creates an authentication error
func NewAuthError(statusCode int, message string) *Error {
	return &Error{Type: ErrTypeAuth, Message: message, StatusCode: statusCode}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, message string) *Error {
	return &Error{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *Error {
	return &Error{Type: ErrTypeParse, Message: message, Err: err}
}

// NewApplicationError wraps the error string of a {"success": false} reply
func NewApplicationError(message string) *Error {
	if message == "" {
		message = "request failed"
	}
	return &Error{Type: ErrTypeApplication, Message: message}
}

func asError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused, DNS)
func IsNetworkError(err error) bool {
	apiErr, ok := asError(err)
	if !ok {
		return false
	}
	switch apiErr.Type {
	case ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS:
		return true
	}
	return false
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	apiErr, ok := asError(err)
	return ok && apiErr.Type == ErrTypeAuth
}

// IsApplicationError checks if the backend rejected the request
func IsApplicationError(err error) bool {
	apiErr, ok := asError(err)
	return ok && apiErr.Type == ErrTypeApplication
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	apiErr, ok := asError(err)
	return ok && apiErr.Retryable
}

// Hint returns troubleshooting advice for an error
func Hint(err error) string {
	apiErr, ok := asError(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The pilight backend did not respond in time.",
			"Troubleshooting:",
			"  • Check that the backend web server is running",
			"  • Try increasing the timeout with --timeout",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The backend refused the connection.",
			"Troubleshooting:",
			"  • Verify the server URL and port",
			"  • Check that the backend web server is running",
			"  • Run 'pilightctl scan' to find backends on the network",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the backend hostname.",
			"Troubleshooting:",
			"  • Use the IP address instead of hostname",
			"  • Check your network DNS settings",
		}, "\n")

	case ErrTypeAuth:
		return strings.Join([]string{
			"The backend requires a logged in session.",
			"Troubleshooting:",
			"  • Run 'pilightctl login' with a backend user account",
			"  • Check that the account is active",
		}, "\n")

	case ErrTypeNetwork:
		return strings.Join([]string{
			"Network communication failed.",
			"Troubleshooting:",
			"  • Check your network connection",
			"  • Verify the backend is reachable from this machine",
		}, "\n")

	case ErrTypeHTTP:
		if apiErr.StatusCode >= 500 {
			return fmt.Sprintf("The backend failed with HTTP %d. Check the backend logs.", apiErr.StatusCode)
		}
		return fmt.Sprintf("The backend returned HTTP error %d. Check the request parameters.", apiErr.StatusCode)

	case ErrTypeParse:
		return "Failed to parse the backend's response. The backend version may be incompatible."

	case ErrTypeApplication:
		return "The backend rejected the request. Check the error message for details."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// ShortMessage returns a concise message suitable for the store's single
// error slot
func ShortMessage(err error) string {
	apiErr, ok := asError(err)
	if !ok {
		return err.Error()
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return "Backend not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Backend refused connection"
	case ErrTypeDNS:
		return "Cannot resolve backend hostname"
	case ErrTypeAuth:
		if apiErr.StatusCode == http.StatusForbidden {
			return "Permission denied - log in first"
		}
		return "Authentication failed - check credentials"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeHTTP:
		return fmt.Sprintf("Backend error (HTTP %d)", apiErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse backend response"
	default:
		return apiErr.Message
	}
}
