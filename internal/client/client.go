package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
	"github.com/Belphemur/MediaFinder/internal/cache"
	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/models"
)

// Client queries the media catalog provider.
type Client interface {
	// Search returns at most models.MaxSearchResults ranked matches. A search
	// with no matches fails with *apperrors.ErrNotFound.
	Search(ctx context.Context, kind models.MediaKind, name string, yearHint *int) ([]models.SearchResult, error)

	// FetchImageRefs lists posters and backdrops of a movie or series in
	// provider order. Backdrops are not filtered.
	FetchImageRefs(ctx context.Context, kind models.MediaKind, id int64) (*models.ImageRefs, error)

	// Close releases the response cache.
	Close() error
}

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 4 << 10

type client struct {
	httpClient   *http.Client
	baseURL      string
	imageBaseURL string
	apiKey       string
	language     string
	includeAdult bool
	userAgent    string

	store       cache.Store
	searchCache *cache.Typed[[]models.SearchResult]
	imageCache  *cache.Typed[models.ImageRefs]
}

// NewClient builds a catalog client from cfg. Responses are cached in the
// store described by cfg.Cache.
func NewClient(cfg *config.Config) Client {
	timeout := config.Duration(cfg.ClientTimeout, 30*time.Second, "client_timeout")
	httpClient := NewHTTPClient(timeout, cfg.ProxyConnectionString)

	store := cache.FromConfig(cfg, "catalog")

	return &client{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(cfg.Catalog.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.Catalog.ImageBaseURL, "/"),
		apiKey:       cfg.Catalog.APIKey,
		language:     cfg.Catalog.Language,
		includeAdult: cfg.Catalog.IncludeAdult,
		userAgent:    cfg.UserAgent,
		store:        store,
		searchCache:  cache.NewTyped[[]models.SearchResult](store, "search"),
		imageCache:   cache.NewTyped[models.ImageRefs](store, "images"),
	}
}

func (c *client) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// getJSON issues a GET against the catalog API and decodes a 2xx body into out.
func (c *client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &apperrors.ErrInternal{Op: "build catalog request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewProviderError(0, "catalog request failed", stripURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(path, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewProviderError(resp.StatusCode, "malformed catalog response", err)
	}
	return nil
}

func (c *client) statusError(path string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := strings.TrimSpace(string(body))
	var payload models.CatalogErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.StatusMessage != "" {
		message = payload.StatusMessage
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return &apperrors.ErrRateLimited{Source: "catalog"}
	case http.StatusNotFound:
		return apperrors.NewNotFoundError("catalog resource", path)
	default:
		return apperrors.NewProviderError(resp.StatusCode, message, nil)
	}
}

// stripURL drops the request URL from a *url.Error so the API key never
// reaches logs or user-facing messages.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
