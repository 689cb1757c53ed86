// Package photoprovider implements the external stock photo API client used
// to fetch new event images. It speaks an Unsplash-style JSON API: one
// endpoint returning a random photo for a query, plus plain byte downloads.
package photoprovider

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"runtime"
	"time"

	"github.com/antonholmquist/jason"
	"golang.org/x/time/rate"

	"github.com/aurinko-app/daycal/internal/conf"
	"github.com/aurinko-app/daycal/internal/errors"
	"github.com/aurinko-app/daycal/internal/logging"
)

const (
	providerName = "photoprovider"

	// maxImageBytes caps a single download. Provider full-size images stay
	// well under this.
	maxImageBytes = 32 << 20

	defaultTimeout             = 30 * time.Second
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

// ErrPhotoNotFound is returned when the provider has no photo for a query.
var ErrPhotoNotFound = errors.NewStd("photo not found")

// PhotoMetadata describes one photo returned by the provider. Fields map
// directly into an imagestore.ImageRecord.
type PhotoMetadata struct {
	SourceID            string
	FullURL             string
	ThumbnailURL        string
	Author              string
	AuthorURL           string
	DownloadTrackingURL string
	Tags                []string
}

// Client is a photo provider API client with connection pooling and rate
// limiting. Thread-safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	userAgent  string
	logger     *slog.Logger
}

// buildUserAgent constructs the client identification header.
// Format: <client name>/<version> <library>/<version>
func buildUserAgent() string {
	return fmt.Sprintf("daycal/1.0 Go-HTTP-Client/%s", runtime.Version())
}

// NewClient creates a provider client from settings. A zero rate limit
// disables limiting.
func NewClient(settings conf.ProviderSettings) *Client {
	timeout := settings.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		MaxIdleConns:        defaultMaxIdleConns,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	limit := rate.Inf
	if settings.RateLimit > 0 {
		limit = rate.Limit(settings.RateLimit)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		baseURL:   settings.BaseURL,
		apiKey:    settings.APIKey,
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: buildUserAgent(),
		logger:    logging.ForService(providerName),
	}
}

// FetchRandomPhoto asks the provider for a random photo matching the query.
// Returns ErrPhotoNotFound when the provider has nothing for the query.
func (c *Client) FetchRandomPhoto(ctx context.Context, query string) (*PhotoMetadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.New(err).
			Component(providerName).
			Category(errors.CategoryImageProvider).
			Context("query", query).
			Build()
	}

	endpoint := fmt.Sprintf("%s/photos/random?query=%s", c.baseURL, url.QueryEscape(query))
	c.logger.Debug("Fetching random photo", "query", query)

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrPhotoNotFound
	}
	if status != http.StatusOK {
		return nil, errors.Newf("provider returned status %d", status).
			Component(providerName).
			Category(errors.CategoryHTTP).
			Context("query", query).
			Build()
	}

	meta, err := parsePhoto(body)
	if err != nil {
		return nil, errors.Newf("failed to parse provider response: %w", err).
			Component(providerName).
			Category(errors.CategoryImageProvider).
			Context("query", query).
			Build()
	}

	c.logger.Debug("Photo found", "query", query, "source_id", meta.SourceID, "author", meta.Author)
	return meta, nil
}

// parsePhoto extracts the metadata fields from a provider photo document.
func parsePhoto(body []byte) (*PhotoMetadata, error) {
	doc, err := jason.NewObjectFromBytes(body)
	if err != nil {
		return nil, err
	}

	id, err := doc.GetString("id")
	if err != nil {
		return nil, fmt.Errorf("missing photo id: %w", err)
	}
	fullURL, err := doc.GetString("urls", "full")
	if err != nil {
		return nil, fmt.Errorf("missing full url: %w", err)
	}

	meta := &PhotoMetadata{
		SourceID: id,
		FullURL:  fullURL,
	}

	// Optional fields keep whatever the provider sent
	meta.ThumbnailURL, _ = doc.GetString("urls", "thumb")
	meta.Author, _ = doc.GetString("user", "name")
	meta.AuthorURL, _ = doc.GetString("user", "links", "html")
	meta.DownloadTrackingURL, _ = doc.GetString("links", "download_location")

	if tags, err := doc.GetObjectArray("tags"); err == nil {
		for _, tag := range tags {
			if title, err := tag.GetString("title"); err == nil && title != "" {
				meta.Tags = append(meta.Tags, title)
			}
		}
	}

	return meta, nil
}

// DownloadBytes fetches the raw image bytes at the given URL.
func (c *Client) DownloadBytes(ctx context.Context, imageURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.New(err).
			Component(providerName).
			Category(errors.CategoryImageFetch).
			Build()
	}

	body, status, err := c.get(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, errors.Newf("download returned status %d", status).
			Component(providerName).
			Category(errors.CategoryImageFetch).
			NetworkContext(imageURL, c.httpClient.Timeout).
			Build()
	}
	return body, nil
}

// get performs one GET request and returns the body and status code.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, 0, errors.Newf("failed to build request: %w", err).
			Component(providerName).
			Category(errors.CategoryNetwork).
			Build()
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Client-ID "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.Newf("request failed: %w", err).
			Component(providerName).
			Category(errors.CategoryNetwork).
			NetworkContext(rawURL, c.httpClient.Timeout).
			Build()
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, resp.StatusCode, errors.Newf("failed to read response body: %w", err).
			Component(providerName).
			Category(errors.CategoryNetwork).
			Build()
	}
	return body, resp.StatusCode, nil
}
