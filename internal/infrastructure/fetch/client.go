package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/recipeclip/backend/internal/domain"
)

// maxBodyBytes bounds how much of a page we read; recipe markup lives well
// within the first few MB even on image-heavy food blogs.
const maxBodyBytes = 5 << 20

// Client fetches web pages with a desktop browser user-agent.
// Recipe sites routinely serve bot-detection pages to default Go user-agents.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new page fetch client
func NewClient(userAgent string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// FetchPage retrieves the raw HTML of a URL. Non-2xx responses and transport
// errors are both surfaced as domain.ErrPageFetch; there is no retry, a
// failed fetch is terminal for the extraction.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[FETCH] Request error for %s: %v", pageURL, err)
		return "", fmt.Errorf("%w: %v", domain.ErrPageFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[FETCH] Non-2xx status for %s: %d %s", pageURL, resp.StatusCode, resp.Status)
		return "", fmt.Errorf("%w: status %d %s", domain.ErrPageFetch, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", domain.ErrPageFetch, err)
	}

	log.Printf("[FETCH] Fetched %s (%d bytes)", pageURL, len(body))
	return string(body), nil
}
