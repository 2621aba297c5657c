// Package catalog is the HTTP client for the internal data service that
// owns artwork/artist/user profiles. It implements the candidate loader
// contract of the recommendation service.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hyemin/artmate/internal/config"
	"github.com/hyemin/artmate/internal/domain"
	"github.com/hyemin/artmate/internal/logger"
)

// Client loads candidate sets from the data service over HTTP.
type Client struct {
	http   *resty.Client
	logger *logger.Logger
}

// NewClient creates a catalog client.
// Parameters:
//   - cfg: catalog endpoint configuration.
//   - log: logger instance.
// Returns:
//   - *Client: initialized client.
func NewClient(cfg *config.CatalogConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.GetDefault()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, logger: log}
}

// candidatesResponse is the data service's wire format.
type candidatesResponse struct {
	Candidates []domain.Candidate `json:"candidates"`
}

// LoadCandidates fetches the raw candidate set for a category and subject
// type. The request honors both the client timeout and the caller's
// context deadline; failures are returned to the caller, never retried
// here.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - category: candidate category, e.g. "artworks".
//   - subject: subject's APT code, used by the data service for coarse
//     pre-filtering.
// Returns:
//   - []domain.Candidate: decoded candidate set.
//   - error: non-nil on transport or non-2xx response.
func (c *Client) LoadCandidates(ctx context.Context, category, subject string) ([]domain.Candidate, error) {
	var out candidatesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"category": category,
			"subject":  subject,
		}).
		SetResult(&out).
		Get("/internal/v1/candidates")
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("catalog returned status %d for category %q", resp.StatusCode(), category)
	}

	logger.CtxDebug(ctx, "Loaded candidates: category=%s, subject=%s, count=%d",
		category, subject, len(out.Candidates))
	return out.Candidates, nil
}
