package types

import (
	"fmt"
	"net/http"
)

// ValidationError rejects a request before any backend interaction.
type ValidationError struct {
	// Field names the offending request field.
	Field string

	// Message describes the problem.
	Message string
}

// Error returns the error message for this validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func messageFieldError(index int, msg string) string {
	return fmt.Sprintf("messages[%d]: %s", index, msg)
}

// ErrorResponse is the OpenAI-compatible error envelope.
type ErrorResponse struct {
	// Error contains the error details.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error message and classification.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error.
	Type string `json:"type"`

	// Param names the offending parameter, when known.
	Param string `json:"param,omitempty"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`
}

// Error type constants matching the completions-style API.
const (
	// ErrorTypeInvalidRequest indicates a client-side error (400).
	ErrorTypeInvalidRequest = "invalid_request_error"

	// ErrorTypeNotFound indicates an unknown route or resource (404).
	ErrorTypeNotFound = "not_found"

	// ErrorTypeServerError indicates an internal failure (500).
	ErrorTypeServerError = "server_error"

	// ErrorTypeBadGateway indicates a backend failure (502).
	ErrorTypeBadGateway = "bad_gateway"

	// ErrorTypeGatewayTimeout indicates a backend timeout (504).
	ErrorTypeGatewayTimeout = "gateway_timeout"
)

// HTTPStatusCode maps the error type to its HTTP status.
func (d ErrorDetail) HTTPStatusCode() int {
	switch d.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeBadGateway:
		return http.StatusBadGateway
	case ErrorTypeGatewayTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// AnthropicErrorResponse is the messages-style error envelope.
type AnthropicErrorResponse struct {
	// Type is always "error".
	Type string `json:"type"`

	// Error contains the error details.
	Error AnthropicErrorDetail `json:"error"`
}

// AnthropicErrorDetail contains the messages-style error body.
type AnthropicErrorDetail struct {
	// Type categorizes the error ("invalid_request_error", "api_error").
	Type string `json:"type"`

	// Message is a human-readable error message.
	Message string `json:"message"`
}
