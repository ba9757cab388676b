package notion

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jomei/notionapi"
)

// ErrorType represents different categories of Notion API errors
type ErrorType string

const (
	ErrorTypeAuth       ErrorType = "authentication"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// NotionError represents a structured error from Notion operations
type NotionError struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Cause     error     `json:"-"`
	Resource  string    `json:"resource,omitempty"`
	Code      string    `json:"code,omitempty"`
	Retryable bool      `json:"retryable"`
}

// Error implements the error interface
func (e *NotionError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Resource, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *NotionError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether the error is transient
func (e *NotionError) IsRetryable() bool {
	return e.Retryable
}

// WrapNotionError wraps a Notion API error into our structured error type
func WrapNotionError(err error, resource string) *NotionError {
	if err == nil {
		return nil
	}

	var nErr *NotionError
	if errors.As(err, &nErr) {
		if nErr.Resource == "" {
			nErr.Resource = resource
		}
		return nErr
	}

	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		return parseAPIError(apiErr.Status, string(apiErr.Code), apiErr.Message, err, resource)
	}

	if isNetworkError(err) {
		return &NotionError{
			Type:      ErrorTypeNetwork,
			Message:   "Network error occurred. Please check your connection and try again",
			Cause:     err,
			Resource:  resource,
			Retryable: true,
		}
	}

	return &NotionError{
		Type:     ErrorTypeUnknown,
		Message:  err.Error(),
		Cause:    err,
		Resource: resource,
	}
}

// parseAPIError classifies a Notion error response by status and error code
func parseAPIError(status int, code, message string, cause error, resource string) *NotionError {
	baseErr := &NotionError{
		Resource: resource,
		Cause:    cause,
		Code:     code,
	}

	switch {
	case status == http.StatusUnauthorized || code == "unauthorized":
		baseErr.Type = ErrorTypeAuth
		baseErr.Message = "Authentication failed. Please check your NOTION_TOKEN integration token"

	case status == http.StatusForbidden || code == "restricted_resource":
		baseErr.Type = ErrorTypePermission
		baseErr.Message = "The integration does not have access to this resource"

	case status == http.StatusNotFound || code == "object_not_found":
		baseErr.Type = ErrorTypeNotFound
		baseErr.Message = "Object not found. Make sure the database exists and is shared with the integration"

	case status == http.StatusConflict || code == "conflict_error":
		baseErr.Type = ErrorTypeConflict
		baseErr.Message = "Conflicting write. The page was modified concurrently"

	case status == http.StatusTooManyRequests || code == "rate_limited":
		baseErr.Type = ErrorTypeRateLimit
		baseErr.Message = "Notion API rate limit exceeded. Please wait before retrying"
		baseErr.Retryable = true

	case status == http.StatusBadRequest || code == "validation_error":
		baseErr.Type = ErrorTypeValidation
		baseErr.Message = "Validation failed"
		if message != "" {
			baseErr.Message = fmt.Sprintf("Validation failed: %s", message)
		}

	case status >= 500:
		baseErr.Type = ErrorTypeNetwork
		baseErr.Message = "Notion API is temporarily unavailable. Please try again later"
		baseErr.Retryable = true

	default:
		baseErr.Type = ErrorTypeUnknown
		baseErr.Message = message
	}

	return baseErr
}

// isNetworkError checks if an error is a network-related error
func isNetworkError(err error) bool {
	errStr := strings.ToLower(err.Error())
	for _, keyword := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"timeout",
		"dial tcp",
	} {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}
