package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/slovensko-digital/podanie-demo/internal/errors"
	"github.com/slovensko-digital/podanie-demo/internal/metrics"
)

const (
	userInfoPath = "/api/upvs/user/info.saml"
	submitPath   = "/api/sktalk/receive_and_save_to_outbox"

	maxResponseBytes = 1 << 20
)

// Client calls the slovensko.sk integration API. Both operations
// authenticate with a freshly minted delegated token in the Bearer header.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    metrics.BusinessMetrics
	logger     *slog.Logger
}

// NewClient creates a gateway client. timeout bounds each round trip.
func NewClient(baseURL string, timeout time.Duration, m metrics.BusinessMetrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
		logger:     logger,
	}
}

// Check validates a session against the who-am-I endpoint. Any error,
// transport or non-2xx alike, means the session is not valid.
func (c *Client) Check(ctx context.Context, bearerToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+userInfoPath, nil)
	if err != nil {
		return apperrors.Wrap(err, "building user info request")
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordOperation(ctx, "messaging", "user_info", "error")
		return apperrors.Wrap(err, "user info request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RecordOperation(ctx, "messaging", "user_info", "error")
		return apperrors.Wrap(apperrors.ErrUnauthorized,
			fmt.Sprintf("user info returned status %d", resp.StatusCode))
	}

	c.metrics.RecordOperation(ctx, "messaging", "user_info", "success")
	return nil
}

// SubmitMessage posts the envelope to the outbox endpoint. On a non-2xx
// response the upstream status and body are preserved verbatim so the
// caller can forward them. On success the upstream body is returned.
func (c *Client) SubmitMessage(ctx context.Context, bearerToken, envelope string) ([]byte, error) {
	start := time.Now()

	payload, err := json.Marshal(map[string]string{"message": envelope})
	if err != nil {
		return nil, apperrors.Wrap(err, "encoding submission payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+submitPath, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrap(err, "building submission request")
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordSubmit(ctx, start, "error")
		return nil, apperrors.Wrap(err, "message submission failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.recordSubmit(ctx, start, "error")
		return nil, apperrors.Wrap(err, "reading submission response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.recordSubmit(ctx, start, "error")
		c.logger.Warn("message submission rejected upstream",
			slog.Int("status", resp.StatusCode),
		)
		return nil, &apperrors.UpstreamError{StatusCode: resp.StatusCode, Body: body}
	}

	c.recordSubmit(ctx, start, "success")
	return body, nil
}

func (c *Client) recordSubmit(ctx context.Context, start time.Time, status string) {
	c.metrics.RecordOperation(ctx, "messaging", "submit_message", status)
	c.metrics.RecordDuration(ctx, "messaging", "submit_message", time.Since(start), status)
}
