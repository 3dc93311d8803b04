// =============================================================================
// OTM Order Generator - Submission Client
// =============================================================================
//
// The client POSTs one XML document to an integration endpoint and turns the
// response into a status. It never retries and never returns an error: every
// failure is reported through the Outcome so a batch keeps going.
//
// =============================================================================

package submit

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"time"

	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout applies when the client is created with a zero timeout.
	DefaultTimeout = 60 * time.Second

	// ContentType is sent with every document.
	ContentType = "text/xml; charset=UTF-8"
)

// Outcome is the result of one POST.
type Outcome struct {
	Status   types.Status
	HTTPCode int
	Snippet  string
}

// Poster submits a single document. Client implements it.
type Poster interface {
	Post(ctx context.Context, ep Endpoint, doc []byte) Outcome
}

// Client posts documents over HTTP.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a client with the given per-request timeout.
//
// PARAMETERS:
//   - timeout: request timeout; zero or negative uses DefaultTimeout
//   - logger: zap logger; resty's own diagnostics are routed through it
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetLogger(logger.Sugar())

	return &Client{http: httpClient, logger: logger}
}

// Post sends doc to the endpoint using basic authentication.
//
// RETURNS:
//   - APP_ERROR when the body cannot be compressed
//   - NETWORK_ERROR when no response was received
//   - HTTP_ERROR for non-2xx responses, snippet "<code> <text> :: <body>"
//   - otherwise the classification of the acknowledgement body
func (c *Client) Post(ctx context.Context, ep Endpoint, doc []byte) Outcome {
	body := doc
	req := c.http.R().
		SetContext(ctx).
		SetBasicAuth(ep.Username, ep.Password).
		SetHeader("Content-Type", ContentType)

	if ep.Gzip {
		compressed, err := compress(doc)
		if err != nil {
			return Outcome{Status: types.StatusAppError, Snippet: err.Error()}
		}
		body = compressed
		req.SetHeader("Content-Encoding", "gzip")
	}

	req.SetBody(body)

	start := time.Now()
	resp, err := req.Post(ep.URL)
	if err != nil {
		c.logger.Warn("post failed", zap.String("url", ep.URL), zap.Error(err))
		return Outcome{
			Status:  types.StatusNetworkError,
			Snippet: types.Truncate(err.Error(), types.SnippetLimit),
		}
	}

	text := string(resp.Body())
	c.logger.Debug("post completed",
		zap.String("url", ep.URL),
		zap.Int("status_code", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)

	if !resp.IsSuccess() {
		return Outcome{
			Status:   types.StatusHTTPError,
			HTTPCode: resp.StatusCode(),
			Snippet: types.Truncate(
				fmt.Sprintf("%s :: %s", resp.Status(), types.Truncate(text, types.SnippetLimit)),
				types.SnippetLimit,
			),
		}
	}

	status, snippet := ClassifyAck(text)
	return Outcome{Status: status, HTTPCode: resp.StatusCode(), Snippet: snippet}
}

func compress(doc []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(doc); err != nil {
		return nil, fmt.Errorf("failed to compress document: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress document: %w", err)
	}
	return buf.Bytes(), nil
}
