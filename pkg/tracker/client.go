// Package tracker provides a thin issue tracker JSON API client
// that only reads and writes the fields needed to price an issue.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

const DefaultBaseURL = "https://api.tracker.yandex.net/v2/"

type Config struct {
	BaseURL string
	Token   string
	// TokenType is the Authorization scheme, "OAuth" or "Bearer".
	TokenType string
	OrgID     string
	CloudOrg  bool
}

type Client struct {
	baseURL   string
	orgHeader string
	orgID     string
	http      *http.Client
}

func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	tokenType := cfg.TokenType
	if tokenType == "" {
		tokenType = "OAuth"
	}

	orgHeader := "X-Org-ID"
	if cfg.CloudOrg {
		orgHeader = "X-Cloud-Org-ID"
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.Token,
		TokenType:   tokenType,
	})

	return &Client{
		baseURL:   baseURL,
		orgHeader: orgHeader,
		orgID:     cfg.OrgID,
		http:      oauth2.NewClient(context.Background(), ts),
	}
}

var (
	ErrUnauthorized  = errors.New("The provided tracker token is invalid.")
	ErrForbidden     = errors.New("The tracker token has no access to this resource.")
	ErrIssueNotFound = errors.New("issue not found")
)

type errorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.orgID != "" {
		req.Header.Set(c.orgHeader, c.orgID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode > 299 {
		defer resp.Body.Close()
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, ErrUnauthorized
		case http.StatusForbidden:
			return nil, ErrForbidden
		case http.StatusNotFound:
			return nil, ErrIssueNotFound
		}

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("tracker request failed: %s: %s", resp.Status, errorMessage(bodyBytes))
	}

	return resp, nil
}

func errorMessage(body []byte) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return strings.TrimSpace(string(body))
	}

	messages := errResp.ErrorMessages
	for field, msg := range errResp.Errors {
		messages = append(messages, field+": "+msg)
	}
	if len(messages) == 0 {
		return strings.TrimSpace(string(body))
	}
	return strings.Join(messages, "; ")
}

type Issue struct {
	Key     string
	Summary string
	Fields  map[string]json.RawMessage
}

func (i *Issue) UnmarshalJSON(b []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	i.Fields = fields

	if raw, ok := fields["key"]; ok {
		if err := json.Unmarshal(raw, &i.Key); err != nil {
			return fmt.Errorf("issue key: %w", err)
		}
	}
	if raw, ok := fields["summary"]; ok {
		if err := json.Unmarshal(raw, &i.Summary); err != nil {
			return fmt.Errorf("issue summary: %w", err)
		}
	}
	return nil
}

// Field returns the scalar text of the named field. Strings are
// unquoted, numbers and booleans are returned literally, and null or
// absent fields yield "". Objects and arrays are returned as raw JSON.
func (i *Issue) Field(name string) string {
	raw, ok := i.Fields[name]
	if !ok {
		return ""
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// Calls GET {baseURL}/issues/{key}
func (c *Client) GetIssue(ctx context.Context, key string) (*Issue, error) {
	resp, err := c.do(ctx, http.MethodGet, "issues/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	issue := &Issue{}
	if err := json.NewDecoder(resp.Body).Decode(issue); err != nil {
		return nil, fmt.Errorf("decode issue %s: %w", key, err)
	}

	return issue, nil
}

// Calls PATCH {baseURL}/issues/{key}
func (c *Client) UpdateIssue(ctx context.Context, key string, fields map[string]any) error {
	resp, err := c.do(ctx, http.MethodPatch, "issues/"+url.PathEscape(key), fields)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
