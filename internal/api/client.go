package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// TokenProvider supplies the bearer token for outgoing requests.
// An empty token with ok=false means no account is signed in.
type TokenProvider interface {
	Token() (string, bool)
}

// Params configures the API client
type Params struct {
	// Endpoint is an explicit base URL override. When empty the base URL
	// is derived from Host and Port.
	Endpoint string
	Host     string
	Port     int
	Debug    bool
}

// Client talks to the vault backend
type Client struct {
	restClient *resty.Client
	tokens     TokenProvider
}

// ErrNoToken is returned when a call requires auth but no token is available.
// The request is never sent in that case.
var ErrNoToken = fmt.Errorf("not signed in")

func NewClient(p Params, tokens TokenProvider) *Client {
	rc := resty.New().
		SetBaseURL(resolveBaseURL(p)).
		SetHeader("Accept", "application/json")
	if p.Debug {
		rc.SetDebug(true)
	}
	c := &Client{
		restClient: rc,
		tokens:     tokens,
	}
	rc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		token, ok := c.tokens.Token()
		if !ok {
			return ErrNoToken
		}
		req.SetHeader("Authorization", "Bearer "+token)
		return nil
	})
	return c
}

// resolveBaseURL prefers the configured override (trailing slash stripped),
// otherwise derives host:port.
func resolveBaseURL(p Params) string {
	if p.Endpoint != "" {
		return strings.TrimRight(p.Endpoint, "/")
	}
	host := p.Host
	if host == "" {
		host = "localhost"
	}
	port := p.Port
	if port == 0 {
		port = 8000
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// ApiError carries a non-success HTTP response
type ApiError struct {
	StatusCode int
	Message    string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// newApiError extracts the server-supplied detail string when present,
// falling back to the given generic message.
func newApiError(r *resty.Response, fallback string) *ApiError {
	msg := fallback
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(r.Body(), &body); err == nil && body.Detail != "" {
		msg = body.Detail
	}
	return &ApiError{
		StatusCode: r.StatusCode(),
		Message:    msg,
	}
}
