// Package spam wraps the external spam-heuristic gateway. The service treats
// the gateway as advisory: errors surface to the caller, who degrades to
// manual review rather than blocking the flag.
package spam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lawrns/community-platform-sub000/internal/domain"
	"github.com/lawrns/community-platform-sub000/internal/ports"
)

type HTTPChecker struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPChecker(baseURL string, timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPChecker{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type classifyRequest struct {
	Text       string `json:"text"`
	TargetType string `json:"target_type"`
}

type classifyResponse struct {
	IsSpam bool    `json:"is_spam"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

func (c *HTTPChecker) CheckForSpam(ctx context.Context, text, targetType string) (ports.SpamResult, error) {
	if c.baseURL == "" {
		return ports.SpamResult{}, domain.ErrDependencyUnavailable
	}

	body, err := json.Marshal(classifyRequest{Text: text, TargetType: targetType})
	if err != nil {
		return ports.SpamResult{}, fmt.Errorf("encode classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/classify", bytes.NewReader(body))
	if err != nil {
		return ports.SpamResult{}, fmt.Errorf("build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.SpamResult{}, fmt.Errorf("call spam gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return ports.SpamResult{}, fmt.Errorf("spam gateway status %d: %w", resp.StatusCode, domain.ErrDependencyUnavailable)
	}

	var parsed classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ports.SpamResult{}, fmt.Errorf("decode classify response: %w", err)
	}
	return ports.SpamResult{
		IsSpam: parsed.IsSpam,
		Score:  parsed.Score,
		Reason: parsed.Reason,
	}, nil
}

// DisabledChecker reports every text as clean. It backs deployments without a
// spam gateway so every flag lands in manual review.
type DisabledChecker struct{}

func (DisabledChecker) CheckForSpam(context.Context, string, string) (ports.SpamResult, error) {
	return ports.SpamResult{IsSpam: false, Score: 0, Reason: ""}, nil
}
