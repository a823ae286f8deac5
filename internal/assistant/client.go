// Package assistant proxies event planning prompts to a hosted text
// generation API and degrades to fixed answers when the upstream fails.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/imroc/req"
)

// Upstream failure kinds.
var (
	ErrTimeout           = errors.New("assistant: upstream timed out")
	ErrTransport         = errors.New("assistant: upstream unreachable")
	ErrUpstreamStatus    = errors.New("assistant: upstream returned an error status")
	ErrMalformedResponse = errors.New("assistant: malformed upstream response")
)

// Kind names the failure class of err for logging.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrUpstreamStatus):
		return "status"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	default:
		return "unknown"
	}
}

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Prompt is a single completion request.
type Prompt struct {
	System    string
	Messages  []Message
	MaxTokens int
}

// Completer produces a text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// ClientConfig configures the upstream client.
type ClientConfig struct {
	URL     string
	APIKey  string
	Model   string
	Version string
	Timeout time.Duration
}

// DefaultAPIVersion is sent as the anthropic-version header.
const DefaultAPIVersion = "2023-06-01"

// Client calls a Messages-style completion endpoint.
type Client struct {
	cfg ClientConfig
	r   *req.Req
}

// NewClient creates a client with a fixed request timeout.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Version == "" {
		cfg.Version = DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	r := req.New()
	r.SetClient(&http.Client{Timeout: cfg.Timeout})

	return &Client{cfg: cfg, r: r}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends one request and returns the text of the first content block.
func (c *Client) Complete(ctx context.Context, p Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	payload := messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: p.MaxTokens,
		System:    p.System,
		Messages:  p.Messages,
	}
	header := req.Header{
		"Content-Type":      "application/json",
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": c.cfg.Version,
	}

	resp, err := c.r.Post(c.cfg.URL, header, req.BodyJSON(&payload), ctx)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}

	status := resp.Response().StatusCode
	if status < 200 || status > 299 {
		return "", fmt.Errorf("%w: %d", ErrUpstreamStatus, status)
	}

	var out messagesResponse
	if err := resp.ToJSON(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(out.Content) == 0 || strings.TrimSpace(out.Content[0].Text) == "" {
		return "", fmt.Errorf("%w: empty content", ErrMalformedResponse)
	}
	return out.Content[0].Text, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Client.Timeout exceeded") || strings.Contains(msg, "deadline exceeded")
}
