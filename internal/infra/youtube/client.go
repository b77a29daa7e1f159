// Package youtube provides a client for the YouTube Data API v3,
// the track search provider.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrQuotaExceeded indicates the daily API quota is spent. Surfaced
// distinctly so clients can show a specific message.
var ErrQuotaExceeded = errors.New("youtube api quota exceeded")

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Result represents a single search candidate.
type Result struct {
	ID        string `json:"id"`        // Video ID
	Title     string `json:"title"`     // Video title
	Artist    string `json:"artist"`    // Channel title
	Duration  string `json:"duration"`  // Display duration ("3:45")
	Thumbnail string `json:"thumbnail"` // Medium thumbnail URL
}

// Config represents YouTube client configuration.
type Config struct {
	APIKey string
}

// Client is a YouTube Data API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

// New creates a new YouTube client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("youtube api key is required")
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxRetries: 2,
		retryDelay: time.Second,
	}, nil
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// Search searches for videos and attaches their durations.
// Results keep the API's ranking order.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("search query is required")
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	if maxResults > 50 {
		maxResults = 50
	}

	params := url.Values{
		"part":       {"snippet"},
		"type":       {"video"},
		"q":          {query},
		"maxResults": {fmt.Sprint(maxResults)},
	}

	var sr searchResponse
	if err := c.get(ctx, "/search", params, &sr); err != nil {
		return nil, errors.Wrap(err, "search request failed")
	}
	if len(sr.Items) == 0 {
		return []Result{}, nil
	}

	results := make([]Result, 0, len(sr.Items))
	ids := make([]string, 0, len(sr.Items))
	for _, item := range sr.Items {
		if item.ID.VideoID == "" {
			continue
		}
		thumb := item.Snippet.Thumbnails.Medium.URL
		if thumb == "" {
			thumb = item.Snippet.Thumbnails.Default.URL
		}
		results = append(results, Result{
			ID:        item.ID.VideoID,
			Title:     item.Snippet.Title,
			Artist:    item.Snippet.ChannelTitle,
			Thumbnail: thumb,
		})
		ids = append(ids, item.ID.VideoID)
	}

	// Durations come from a second call; the search endpoint does not
	// return contentDetails.
	durations, err := c.durations(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "video details request failed")
	}
	for i := range results {
		results[i].Duration = durations[results[i].ID]
	}

	return results, nil
}

// durations fetches display durations keyed by video ID.
func (c *Client) durations(ctx context.Context, ids []string) (map[string]string, error) {
	params := url.Values{
		"part": {"contentDetails"},
		"id":   {strings.Join(ids, ",")},
	}

	var vr videosResponse
	if err := c.get(ctx, "/videos", params, &vr); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(vr.Items))
	for _, item := range vr.Items {
		out[item.ID] = FormatISODuration(item.ContentDetails.Duration)
	}
	return out, nil
}

// get performs a GET request with retries on transient failures.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	u := c.baseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
		}

		err := c.doOnce(ctx, u, out)
		if err == nil {
			return nil
		}
		// Quota errors never resolve by retrying.
		if errors.Is(err, ErrQuotaExceeded) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		var ae apiError
		_ = json.Unmarshal(body, &ae)
		for _, e := range ae.Error.Errors {
			if e.Reason == "quotaExceeded" || e.Reason == "rateLimitExceeded" {
				return ErrQuotaExceeded
			}
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return ErrQuotaExceeded
		}
		return errors.Newf("unexpected status %d: %s", resp.StatusCode, ae.Error.Message)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// FormatISODuration converts an ISO-8601 duration ("PT3M45S") into the
// display form used everywhere else ("3:45"). Unparseable input yields "0:00".
func FormatISODuration(iso string) string {
	m := isoDurationPattern.FindStringSubmatch(iso)
	if m == nil {
		return "0:00"
	}

	h := atoi(m[1])
	min := atoi(m[2])
	sec := atoi(m[3])

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, min, sec)
	}
	return fmt.Sprintf("%d:%02d", min, sec)
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
