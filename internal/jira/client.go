// Package jira provides the Jira search capability used by the extractor.
package jira

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	jira "github.com/andygrunwald/go-jira"
	"github.com/danielolaszy/jiralens/internal/config"
	"github.com/danielolaszy/jiralens/internal/logging"
	"github.com/danielolaszy/jiralens/pkg/models"
)

const searchEndpoint = "rest/api/2/search"

// Client handles interactions with the JIRA API.
type Client struct {
	client  *jira.Client
	baseURL string
}

// NewClient creates a JIRA client that authenticates with basic auth.
func NewClient(cfg config.JiraConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("jira base url is required")
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		// Corporate Jira instances often sit behind self-signed certificates.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	tp := jira.BasicAuthTransport{
		Username:  cfg.Email,
		Password:  cfg.APIToken,
		Transport: transport,
	}
	httpClient := &http.Client{
		Transport: &tp,
		Timeout:   cfg.Timeout,
	}

	client, err := jira.NewClient(httpClient, cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}

	logging.Debug("jira client configured",
		"base_url", cfg.BaseURL,
		"email", cfg.Email,
		"token", logging.MaskSensitive(cfg.APIToken),
		"insecure_skip_verify", cfg.InsecureSkipVerify,
		"timeout", cfg.Timeout)

	return &Client{
		client:  client,
		baseURL: cfg.BaseURL,
	}, nil
}

// ValidateConnection checks the credentials against the current user endpoint.
func (c *Client) ValidateConnection(ctx context.Context) (*jira.User, error) {
	user, resp, err := c.client.User.GetSelfWithContext(ctx)
	if err != nil {
		return nil, c.classify("connection check", resp, err)
	}
	if !user.Active {
		return nil, fmt.Errorf("jira user %s is not active", user.DisplayName)
	}

	logging.Info("jira connection successful",
		"user", user.DisplayName,
		"email", user.EmailAddress)
	return user, nil
}

// Search runs a JQL query and returns a single page of at most maxResults
// issues restricted to the given fields.
func (c *Client) Search(ctx context.Context, jql string, maxResults int, fields []string) (*models.SearchResult, error) {
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("startAt", "0")
	q.Set("maxResults", strconv.Itoa(maxResults))
	if len(fields) > 0 {
		q.Set("fields", strings.Join(fields, ","))
	}

	logging.Debug("executing jql",
		"jql", jql,
		"max_results", maxResults,
		"fields", fields)

	req, err := c.client.NewRequestWithContext(ctx, http.MethodGet, searchEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	var result models.SearchResult
	resp, err := c.client.Do(req, &result)
	if err != nil {
		return nil, c.classify("search", resp, err)
	}

	logging.Info("jql executed",
		"total", result.Total,
		"returned", len(result.Issues))
	return &result, nil
}

// classify turns a failed go-jira call into one of the package error types.
func (c *Client) classify(operation string, resp *jira.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return &TransportError{BaseURL: c.baseURL, Err: err}
	}
	if resp.StatusCode < http.StatusMultipleChoices {
		return fmt.Errorf("failed to decode jira %s response: %w", operation, err)
	}

	messages := readErrorMessages(resp.Body)
	resp.Body.Close()

	logging.Debug("jira request failed",
		"operation", operation,
		"status", resp.StatusCode,
		"messages", messages)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		if len(messages) == 0 {
			messages = []string{"Invalid JQL syntax"}
		}
		return &QuerySyntaxError{Messages: messages}
	case http.StatusUnauthorized:
		return &AuthenticationError{Operation: operation}
	case http.StatusForbidden:
		return &AuthorizationError{Operation: operation}
	default:
		return &APIError{StatusCode: resp.StatusCode, Messages: messages}
	}
}

// readErrorMessages extracts errorMessages and field errors from a Jira error
// body. Unreadable bodies yield no messages.
func readErrorMessages(body io.Reader) []string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return nil
	}

	var jerr jira.Error
	if err := json.Unmarshal(data, &jerr); err != nil {
		return nil
	}

	messages := append([]string(nil), jerr.ErrorMessages...)
	keys := make([]string, 0, len(jerr.Errors))
	for k := range jerr.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		messages = append(messages, fmt.Sprintf("%s: %s", k, jerr.Errors[k]))
	}
	return messages
}
