package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
	"github.com/Belphemur/MediaFinder/internal/config"
)

// Downloader streams remote assets into local files.
type Downloader interface {
	// DownloadToFile writes the body of url to path and returns the byte count.
	// Transport errors, 429 and 5xx responses are retried.
	DownloadToFile(ctx context.Context, url, path string) (int64, error)
}

// DownloaderOptions tunes NewDownloader.
type DownloaderOptions struct {
	Retries   int
	Backoff   time.Duration
	UserAgent string
	Header    http.Header // extra request headers, e.g. a Referer for social CDNs
}

type downloader struct {
	httpClient *http.Client
	policy     retrypolicy.RetryPolicy[*http.Response]
	userAgent  string
	header     http.Header
}

// NewDownloader creates a Downloader on top of httpClient.
func NewDownloader(httpClient *http.Client, opts DownloaderOptions) Downloader {
	return &downloader{
		httpClient: httpClient,
		policy:     NewRetryPolicy(opts.Retries, opts.Backoff),
		userAgent:  opts.UserAgent,
		header:     opts.Header,
	}
}

// NewDownloaderFromConfig builds a Downloader with the download timeout,
// proxy, retry count and user agent from cfg.
func NewDownloaderFromConfig(cfg *config.Config) Downloader {
	timeout := config.Duration(cfg.DownloadTimeout, 60*time.Second, "download_timeout")
	return NewDownloader(NewHTTPClient(timeout, cfg.ProxyConnectionString), DownloaderOptions{
		Retries:   cfg.DownloadRetries,
		UserAgent: cfg.UserAgent,
	})
}

func (d *downloader) DownloadToFile(ctx context.Context, url, path string) (int64, error) {
	logger := config.GetLogger()

	resp, err := Do(ctx, d.httpClient, d.policy, func(ctx context.Context) (*http.Request, error) {
		return d.newRequest(ctx, url)
	})
	if err != nil {
		return 0, classifyDownloadError(url, err)
	}
	defer resp.Body.Close()

	f, err := os.Create(path)
	if err != nil {
		return 0, &apperrors.ErrInternal{Op: "create download target", Err: err}
	}
	n, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		return n, apperrors.NewProviderError(resp.StatusCode, "download interrupted", err)
	}

	logger.Debug().Str("url", url).Str("path", path).Int64("bytes", n).Msg("Downloaded asset")
	return n, nil
}

func (d *downloader) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range d.header {
		req.Header[k] = append([]string(nil), v...)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	return req, nil
}

func classifyDownloadError(url string, err error) error {
	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusTooManyRequests:
			return &apperrors.ErrRateLimited{Source: "download"}
		case se.StatusCode == http.StatusNotFound || se.StatusCode == http.StatusGone:
			return apperrors.NewNotFoundError("asset", url)
		default:
			return apperrors.NewProviderError(se.StatusCode, se.Error(), nil)
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.NewProviderError(0, "download failed", stripURL(err))
}
