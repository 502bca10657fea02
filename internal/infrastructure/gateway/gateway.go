// Package gateway issues every backend HTTP call for the portal client and
// normalises all failures into *domain.Error.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bizlink/partner-portal/internal/core/domain"
	"github.com/bizlink/partner-portal/internal/core/ports"
	"github.com/bizlink/partner-portal/internal/pkg/metrics"
)

const (
	DefaultBaseURL = "http://localhost:3001"
	DefaultTimeout = 10 * time.Second

	msgTimeout   = "Request timeout"
	msgCancelled = "Request cancelled"
	msgNetwork   = "Network error: unable to reach the server"
	msgParse     = "Invalid response from server"
)

// Config captures the settings of a gateway Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient defaults to a plain http.Client; the timeout is enforced
	// per request through the context, not through the client.
	HTTPClient *http.Client
}

// Client implements ports.Gateway.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	tokens  ports.TokenSource
	log     zerolog.Logger
}

// New builds a Client reading the bearer token from tokens on every call.
func New(cfg Config, tokens ports.TokenSource, log zerolog.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		http:    hc,
		tokens:  tokens,
		log:     log,
	}
}

// BaseURL returns the resolved backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends req and decodes a successful JSON body into out. out may be nil
// to discard the body.
func (c *Client) Do(ctx context.Context, req ports.Request, out any) (err error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	start := time.Now()
	status := 0
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = string(domain.KindOf(err))
		}
		elapsed := time.Since(start)
		metrics.GatewayRequestsTotal.WithLabelValues(method, outcome).Inc()
		metrics.GatewayRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
		c.log.Debug().
			Str("method", method).
			Str("path", req.Path).
			Int("status", status).
			Str("outcome", outcome).
			Dur("duration", elapsed).
			Msg("backend request")
	}()

	var body io.Reader
	if req.Body != nil {
		b, mErr := json.Marshal(req.Body)
		if mErr != nil {
			return domain.NewError(domain.KindValidation, "request body cannot be encoded", mErr)
		}
		body = bytes.NewReader(b)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, rErr := http.NewRequestWithContext(reqCtx, method, c.baseURL+req.Path, body)
	if rErr != nil {
		return domain.NewError(domain.KindValidation, "invalid request: "+req.Path, rErr)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if token, ok := c.tokens.Token(ctx); ok && token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	for key, values := range req.Header {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, dErr := c.http.Do(httpReq)
	if dErr != nil {
		return transportError(ctx, reqCtx, dErr)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	data, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return transportError(ctx, reqCtx, readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.NewHTTPError(resp.StatusCode, errorMessage(data))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if uErr := json.Unmarshal(data, out); uErr != nil {
		return domain.NewError(domain.KindParse, msgParse, uErr)
	}
	return nil
}

// transportError classifies a failure that happened before a complete
// response was read.
func transportError(parent, reqCtx context.Context, err error) error {
	switch {
	case errors.Is(reqCtx.Err(), context.DeadlineExceeded):
		return domain.NewError(domain.KindTimeout, msgTimeout, err)
	case parent.Err() != nil:
		return domain.NewError(domain.KindTransport, msgCancelled, err)
	default:
		return domain.NewError(domain.KindTransport, msgNetwork, err)
	}
}

// errorMessage extracts a human-readable message from an error body, or
// returns "" when there is none.
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if len(bytes.TrimSpace(data)) == 0 || json.Unmarshal(data, &body) != nil {
		return ""
	}
	if msg := strings.TrimSpace(body.Message); msg != "" {
		return msg
	}
	if s, ok := body.Error.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
