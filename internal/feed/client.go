// Package feed consumes the external acquisition collaborator: a JSON feed
// of job posting records. Scraping, deduplication and locale filtering all
// happen upstream; this package only fetches and decodes.
package feed

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ekshubina/ai-job-agent/internal/job"
)

const (
	defaultUserAgent = "ekshubina/ai-job-agent"
	contentType      = "application/json"
	contentEncoding  = "gzip, deflate, br"
)

// pagedResponse is the envelope used by paged feeds. Plain array bodies are
// also accepted.
type pagedResponse struct {
	Items   []map[string]any `json:"items"`
	Found   int              `json:"found"`
	Pages   int              `json:"pages"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

// Client fetches posting records over HTTP.
type Client struct {
	token  string
	logger *zap.Logger

	HTTPClient *http.Client
	UserAgent  string
	URL        string
}

func NewClient(feedURL, token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:  token,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		UserAgent: defaultUserAgent,
		URL:       feedURL,
	}
}

// Fetch retrieves every posting record from the feed, following pages when
// the feed is paged. Unknown record fields are preserved.
func (c *Client) Fetch(ctx context.Context) (*job.Postings, error) {
	records, err := c.getRecords(ctx)
	if err != nil {
		return nil, err
	}

	postings, err := job.FromRecords(records)
	if err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}

	c.logger.Debug("fetched postings from feed",
		zap.String("url", c.URL),
		zap.Int("count", postings.Len()),
	)

	return postings, nil
}

func (c *Client) getRecords(ctx context.Context) ([]map[string]any, error) {
	body, err := c.get(ctx, nil)
	if err != nil {
		return nil, err
	}

	// Plain array feeds carry everything in one response.
	var records []map[string]any
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var response pagedResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}

	records = append(records, response.Items...)

	for response.Page < response.Pages-1 {
		q := url.Values{}
		q.Set("page", strconv.Itoa(response.Page+1))

		c.logger.Debug("requesting next feed page",
			zap.Int("page", response.Page+1),
			zap.Int("pages", response.Pages),
		)

		body, err = c.get(ctx, q)
		if err != nil {
			return nil, err
		}

		response = pagedResponse{}
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, fmt.Errorf("decode feed page: %w", err)
		}

		records = append(records, response.Items...)
	}

	return records, nil
}

func (c *Client) get(ctx context.Context, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	return data, nil
}
