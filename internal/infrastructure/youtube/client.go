package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/recipeclip/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Minimum usable description lengths. Shorts carry much sparser metadata
// than regular uploads, so they get a lower bar before we fall back to
// scraping the watch page.
const (
	minDescriptionLen      = 80
	minShortDescriptionLen = 25
)

// videoIDPattern captures the 11-character video ID from the four URL shapes
// we recognize: watch?v=, youtu.be/, /shorts/ and /embed/.
var videoIDPattern = regexp.MustCompile(
	`(?:youtube\.com/watch\?(?:[^#]*&)?v=|youtu\.be/|youtube\.com/shorts/|youtube\.com/embed/)([A-Za-z0-9_-]{11})`,
)

var shortsPattern = regexp.MustCompile(`youtube\.com/shorts/`)

// shortDescriptionPattern finds the inline "shortDescription" field embedded
// in watch-page player markup.
var shortDescriptionPattern = regexp.MustCompile(`"shortDescription"\s*:\s*"((?:[^"\\]|\\.)*)"`)

var (
	metaDescriptionPattern = regexp.MustCompile(`(?is)<meta[^>]+name=["']description["'][^>]*content=["']([^"']+)["'][^>]*>`)
	ogDescriptionPattern   = regexp.MustCompile(`(?is)<meta[^>]+property=["']og:description["'][^>]*content=["']([^"']+)["'][^>]*>`)
	titleTagPattern        = regexp.MustCompile(`(?is)<title>(.*?)</title>`)
	ldDescriptionPattern   = regexp.MustCompile(`"description"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// IsVideoURL reports whether the URL points at a hosted video we can resolve
func IsVideoURL(rawURL string) bool {
	return videoIDPattern.MatchString(rawURL)
}

// ExtractVideoID pulls the video identifier out of a recognized video URL
func ExtractVideoID(rawURL string) string {
	m := videoIDPattern.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// Client resolves YouTube video metadata. With an API key it uses the Data
// API; without one it chains oEmbed and a watch-page scrape. Every lookup is
// best-effort: callers treat any error as "no enrichment".
type Client struct {
	httpClient  *http.Client
	apiKey      string
	userAgent   string
	rateLimiter *rate.Limiter
}

// oembedResponse is the subset of the public oEmbed payload we read
type oembedResponse struct {
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// videosResponse mirrors the Data API videos.list snippet shape
type videosResponse struct {
	Items []struct {
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Thumbnails  struct {
				Default thumbnail `json:"default"`
				Medium  thumbnail `json:"medium"`
				High    thumbnail `json:"high"`
				Maxres  thumbnail `json:"maxres"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type thumbnail struct {
	URL string `json:"url"`
}

// NewClient creates a new YouTube metadata client. apiKey may be empty.
func NewClient(apiKey, userAgent string) *Client {
	limiter := rate.NewLimiter(rate.Limit(5), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		apiKey:      apiKey,
		userAgent:   userAgent,
		rateLimiter: limiter,
	}
}

// Lookup resolves best-effort text content for a video URL.
// Preference order: Data API (if keyed) for title+description+thumbnail,
// then oEmbed for title, then the watch page for a description whenever the
// one on hand is below the minimum usable length.
func (c *Client) Lookup(ctx context.Context, videoURL string) (*domain.VideoMetadata, error) {
	videoID := ExtractVideoID(videoURL)
	if videoID == "" {
		return nil, domain.ErrNoVideoMetadata
	}

	meta := &domain.VideoMetadata{
		VideoID: videoID,
		IsShort: shortsPattern.MatchString(videoURL),
	}

	if c.apiKey != "" {
		if err := c.lookupDataAPI(ctx, meta); err != nil {
			log.Printf("[YOUTUBE] Data API lookup failed for %s: %v", videoID, err)
		}
	}

	if meta.Title == "" {
		if err := c.lookupOEmbed(ctx, meta); err != nil {
			log.Printf("[YOUTUBE] oEmbed lookup failed for %s: %v", videoID, err)
		}
	}

	minLen := minDescriptionLen
	if meta.IsShort {
		minLen = minShortDescriptionLen
	}
	if len(meta.Description) < minLen {
		if err := c.scrapeWatchPage(ctx, meta); err != nil {
			log.Printf("[YOUTUBE] Watch page scrape failed for %s: %v", videoID, err)
		}
	}

	if meta.Title == "" && meta.Description == "" {
		return nil, domain.ErrNoVideoMetadata
	}

	log.Printf("[YOUTUBE] Resolved %s: title=%d chars, description=%d chars", videoID, len(meta.Title), len(meta.Description))
	return meta, nil
}

// lookupDataAPI fills title, description and the best available thumbnail
func (c *Client) lookupDataAPI(ctx context.Context, meta *domain.VideoMetadata) error {
	params := url.Values{}
	params.Add("id", meta.VideoID)
	params.Add("part", "snippet")
	params.Add("key", c.apiKey)

	body, err := c.get(ctx, "https://www.googleapis.com/youtube/v3/videos?"+params.Encode())
	if err != nil {
		return err
	}

	var parsed videosResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Items) == 0 {
		return domain.ErrNoVideoMetadata
	}

	snippet := parsed.Items[0].Snippet
	meta.Title = snippet.Title
	meta.Description = snippet.Description

	// Thumbnail preference: max resolution first
	for _, t := range []thumbnail{
		snippet.Thumbnails.Maxres,
		snippet.Thumbnails.High,
		snippet.Thumbnails.Medium,
		snippet.Thumbnails.Default,
	} {
		if t.URL != "" {
			meta.Thumbnail = t.URL
			break
		}
	}
	return nil
}

// lookupOEmbed fills title and thumbnail from the keyless public endpoint
func (c *Client) lookupOEmbed(ctx context.Context, meta *domain.VideoMetadata) error {
	params := url.Values{}
	params.Add("url", "https://www.youtube.com/watch?v="+meta.VideoID)
	params.Add("format", "json")

	body, err := c.get(ctx, "https://www.youtube.com/oembed?"+params.Encode())
	if err != nil {
		return err
	}

	var parsed oembedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	meta.Title = parsed.Title
	if meta.Thumbnail == "" {
		meta.Thumbnail = parsed.ThumbnailURL
	}
	return nil
}

// scrapeWatchPage extracts a description from the canonical video page,
// preferring the meta description, then og:description, then the inline
// player "shortDescription" field, then any JSON-LD description, and keeps
// the page title as a last-resort title.
func (c *Client) scrapeWatchPage(ctx context.Context, meta *domain.VideoMetadata) error {
	body, err := c.get(ctx, "https://www.youtube.com/watch?v="+meta.VideoID)
	if err != nil {
		return err
	}
	page := string(body)

	if m := metaDescriptionPattern.FindStringSubmatch(page); len(m) > 1 {
		meta.Description = strings.TrimSpace(m[1])
	}
	if meta.Description == "" {
		if m := ogDescriptionPattern.FindStringSubmatch(page); len(m) > 1 {
			meta.Description = strings.TrimSpace(m[1])
		}
	}
	if meta.Description == "" {
		if m := shortDescriptionPattern.FindStringSubmatch(page); len(m) > 1 {
			meta.Description = unescapeJSONString(m[1])
		}
	}
	if meta.Description == "" {
		if m := ldDescriptionPattern.FindStringSubmatch(page); len(m) > 1 {
			meta.Description = unescapeJSONString(m[1])
		}
	}

	if meta.Title == "" {
		if m := titleTagPattern.FindStringSubmatch(page); len(m) > 1 {
			meta.Title = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(m[1]), "- YouTube"))
		}
	}
	return nil
}

// unescapeJSONString decodes a raw JSON string body captured by regex
func unescapeJSONString(raw string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &out); err != nil {
		return raw
	}
	return out
}

// get executes a rate-limited GET and returns the body for 200 responses
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoVideoMetadata, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrNoVideoMetadata, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
