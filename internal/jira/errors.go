package jira

import (
	"errors"
	"fmt"
	"strings"
)

// AuthenticationError means Jira rejected the credentials (HTTP 401).
type AuthenticationError struct {
	Operation string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("jira authentication failed during %s", e.Operation)
}

// AuthorizationError means the account lacks permission (HTTP 403).
type AuthorizationError struct {
	Operation string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("jira access denied during %s: insufficient permissions", e.Operation)
}

// QuerySyntaxError means Jira rejected the JQL (HTTP 400). Messages holds the
// details reported by Jira.
type QuerySyntaxError struct {
	Messages []string
}

func (e *QuerySyntaxError) Error() string {
	return fmt.Sprintf("invalid JQL query: %s", strings.Join(e.Messages, ", "))
}

// TransportError means Jira could not be reached.
type TransportError struct {
	BaseURL string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("jira connection error (%s): %v", e.BaseURL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is any other non-successful Jira response.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("jira api error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("jira api error (status %d): %s", e.StatusCode, strings.Join(e.Messages, ", "))
}

// Hint returns advice for the operator about err, or "" when there is none.
func Hint(err error) string {
	var (
		authErr      *AuthenticationError
		forbiddenErr *AuthorizationError
		queryErr     *QuerySyntaxError
		transportErr *TransportError
	)
	switch {
	case errors.As(err, &authErr):
		return "check JIRA_EMAIL and JIRA_API_TOKEN"
	case errors.As(err, &forbiddenErr):
		return "the account cannot browse the requested projects"
	case errors.As(err, &queryErr):
		return "fix the JQL query and try again"
	case errors.As(err, &transportErr):
		return "check JIRA_BASE_URL and your network connection"
	}
	return ""
}

// IsRecoverable reports whether the operator can correct the input and retry
// in the same session.
func IsRecoverable(err error) bool {
	var queryErr *QuerySyntaxError
	return errors.As(err, &queryErr)
}
