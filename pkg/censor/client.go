package censor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/BotWall/CensorGate/pkg/infra/httpx"
	metrics "github.com/BotWall/CensorGate/pkg/infra/prometheus"
)

// highRiskLevel is the only risk classification that blocks content. Any
// other level, including an absent one, is allowed.
const highRiskLevel = "high"

const defaultRequestTimeout = 10 * time.Second

var ErrModerationCall = errors.New("moderation service call failed")

// moderationResponse is the success envelope returned by the moderation API.
// A 200 response without the Data object is treated as a failed check.
type moderationResponse struct {
	Data *moderationData `json:"Data"`
}

type moderationData struct {
	RiskLevel string `json:"RiskLevel"`
}

// Client issues one signed moderation request per text segment. Single
// attempt per segment; every failure path resolves to a blocked verdict.
type Client struct {
	client   httpx.Client
	breaker  httpx.CircuitBreaker
	logger   *logrus.Logger
	signer   *Signer
	endpoint string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client httpx.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithCircuitBreaker sets a custom circuit breaker.
func WithCircuitBreaker(breaker httpx.CircuitBreaker) ClientOption {
	return func(c *Client) {
		if breaker != nil {
			c.breaker = breaker
		}
	}
}

func NewClient(endpoint string, signer *Signer, logger *logrus.Logger, opts ...ClientOption) *Client {
	c := &Client{
		client:   &http.Client{Timeout: defaultRequestTimeout},
		breaker:  httpx.NewCircuitBreaker("moderation", 30*time.Second, 5),
		logger:   logger,
		signer:   signer,
		endpoint: endpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckSegment moderates one text segment. It returns true when the segment
// is allowed and false when it is flagged high risk or the check could not
// be completed; errors never escape, matching the fail-closed contract.
func (c *Client) CheckSegment(ctx context.Context, content string) bool {
	var allowed bool
	err := c.breaker.Execute(func() error {
		var execErr error
		allowed, execErr = c.checkOnce(ctx, content)
		return execErr
	})
	if err != nil {
		c.logger.WithError(err).Error("segment moderation failed")
		metrics.SegmentChecksTotal.WithLabelValues("error").Inc()
		return false
	}

	if allowed {
		metrics.SegmentChecksTotal.WithLabelValues("allowed").Inc()
	} else {
		metrics.SegmentChecksTotal.WithLabelValues("flagged").Inc()
	}
	return allowed
}

func (c *Client) checkOnce(ctx context.Context, content string) (bool, error) {
	params := c.signer.SignedParams(content, time.Now(), uuid.New().String())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create moderation request: %w", err)
	}
	req.URL.RawQuery = params.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to call moderation endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("moderation response read error: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"body":        string(body),
		}).Error("moderation endpoint returned non-200 status")
		return false, fmt.Errorf("%w: status %d", ErrModerationCall, resp.StatusCode)
	}

	var envelope moderationResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return false, fmt.Errorf("invalid moderation response: %w", err)
	}
	if envelope.Data == nil {
		c.logger.WithField("body", string(body)).Error("moderation response missing Data envelope")
		return false, fmt.Errorf("%w: missing Data envelope", ErrModerationCall)
	}

	return !strings.EqualFold(envelope.Data.RiskLevel, highRiskLevel), nil
}
