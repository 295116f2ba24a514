package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bakeshop-mx/storefront-client/pkg/config"
	pkgerrors "github.com/bakeshop-mx/storefront-client/pkg/errors"
	"github.com/bakeshop-mx/storefront-client/pkg/logger"
	"github.com/bakeshop-mx/storefront-client/pkg/metrics"
	"github.com/google/uuid"
)

// ClientParams names the dependencies of the HTTP gateway.
type ClientParams struct {
	Config  config.APIConfig
	Logger  *logger.Logger
	Metrics *metrics.RequestMetrics
	// HTTPClient overrides the default client; used by tests.
	HTTPClient *http.Client
}

// Client implements Gateway over net/http.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logg    *logger.Logger
	metrics *metrics.RequestMetrics
	auth    Authorizer
}

// NewClient builds the gateway from configuration.
func NewClient(params ClientParams) (*Client, error) {
	base, err := url.Parse(params.Config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", params.Config.BaseURL)
	}
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: params.Config.RequestTimeout}
	}
	return &Client{
		baseURL: base,
		http:    httpClient,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

// SetAuthorizer wires the session service in after construction. The session
// service itself performs requests through the gateway, so the two are
// connected in a second step.
func (c *Client) SetAuthorizer(auth Authorizer) {
	c.auth = auth
}

// Do performs the request and classifies any failure into a coded error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	endpoint := strings.Trim(req.Path, "/")

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnknown, err, "encoding request body")
		}
		body = bytes.NewReader(raw)
	}

	target := c.baseURL.JoinPath(endpoint)
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnknown, err, "building request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)

	var token string
	if c.auth != nil {
		token = c.auth.Token(ctx)
	}
	if ShouldAuthorize(endpoint, token) {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	if c.logg != nil {
		ctx = c.logg.WithRequestID(ctx, requestID)
		ctx = c.logg.WithEndpoint(ctx, req.Method, endpoint)
		c.logg.Debug(ctx, "dispatching request")
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	c.metrics.ObserveDuration(req.Method, endpoint, time.Since(start))
	if err != nil {
		c.metrics.IncFailure(req.Method, endpoint)
		if c.logg != nil {
			c.logg.Warn(ctx, "request never reached the server")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnreachable, err, "request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncFailure(req.Method, endpoint)
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnreachable, err, "reading response body")
	}
	c.metrics.IncRequest(req.Method, endpoint, resp.StatusCode)

	if resp.StatusCode >= http.StatusBadRequest {
		coded := pkgerrors.FromStatus(resp.StatusCode, extractDetail(raw))
		if c.logg != nil {
			c.logg.Warn(ctx, "request rejected: "+coded.Error())
		}
		var outErr error = coded
		if c.auth != nil {
			outErr = c.auth.HandleResponseError(ctx, coded, req.GuestTolerant)
		}
		return nil, outErr
	}

	return &Response{Status: resp.StatusCode, Body: raw}, nil
}

// extractDetail pulls the server's structured error message out of the body.
func extractDetail(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil {
			return detail
		}
		return string(payload.Detail)
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
