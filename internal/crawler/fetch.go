package crawler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Fetcher returns the body of a page, or an error when the page is
// unreachable. A non-200 status and a timeout both count as
// unreachable; callers never see a partial body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type restyFetcher struct {
	client *resty.Client
}

// NewFetcher builds the shared HTTP capability for one run: fixed
// user agent, fixed timeout, no retries.
func NewFetcher(cfg Config) Fetcher {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent)
	return &restyFetcher{client: client}
}

func (f *restyFetcher) Fetch(ctx context.Context, url string) (string, error) {
	res, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", url, err)
	}
	if res.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("get %s: status %d", url, res.StatusCode())
	}
	return string(res.Body()), nil
}
