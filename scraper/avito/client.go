package avito

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"avito-harvester/config"
	"avito-harvester/utils"
)

// FailureKind classifies why a single fetch failed.
type FailureKind int

const (
	KindNetwork FailureKind = iota + 1
	KindHTTPStatus
	KindAPI
	KindDecode
)

func (k FailureKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http-status"
	case KindAPI:
		return "api"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError is the typed failure returned by Client.Fetch.
type FetchError struct {
	Kind       FailureKind
	StatusCode int
	Messages   []string
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("http status %d", e.StatusCode)
	case KindAPI:
		return "graphql errors: " + strings.Join(e.Messages, "; ")
	default:
		return fmt.Sprintf("%s failure: %v", e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could plausibly succeed.
func (e *FetchError) Retryable() bool {
	return e.Kind == KindNetwork || (e.Kind == KindHTTPStatus && e.StatusCode >= 500)
}

type request struct {
	Query     string    `json:"query"`
	Variables Variables `json:"variables"`
}

// Response is a parsed GraphQL response body.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors *[]GraphQLError `json:"errors"`
}

type GraphQLError struct {
	Message string `json:"message"`
}

// Client posts GraphQL documents to the listing API. It has no notion of
// pagination and never retries.
type Client struct {
	url        string
	userAgent  string
	httpClient *http.Client
	logger     *utils.Logger
}

// NewClient creates a Client for the configured endpoint.
func NewClient(cfg *config.Config, logger *utils.Logger) *Client {
	return &Client{
		url:        cfg.APIURL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}
}

// Fetch sends one query. Failures come back as *FetchError and are logged
// once here.
func (c *Client) Fetch(ctx context.Context, query string, vars Variables) (*Response, error) {
	resp, err := c.fetch(ctx, query, vars)
	if err != nil {
		c.logger.Error("[avito] %v", err)
		return nil, err
	}
	return resp, nil
}

func (c *Client) fetch(ctx context.Context, query string, vars Variables) (*Response, error) {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return nil, &FetchError{Kind: KindDecode, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Kind: KindHTTPStatus, StatusCode: resp.StatusCode}
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &FetchError{Kind: KindDecode, StatusCode: resp.StatusCode, Err: err}
	}
	if out.Errors != nil {
		msgs := make([]string, 0, len(*out.Errors))
		for _, e := range *out.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, &FetchError{Kind: KindAPI, StatusCode: resp.StatusCode, Messages: msgs}
	}
	return &out, nil
}
