package social

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
	"github.com/Belphemur/MediaFinder/internal/client"
	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/models"
	"github.com/Belphemur/MediaFinder/internal/parser"
	"github.com/Belphemur/MediaFinder/internal/scope"
)

// DefaultAllowedHosts are the source hosts accepted by the Extractor.
var DefaultAllowedHosts = []string{"instagram.com", "www.instagram.com", "m.instagram.com", "instagr.am", "www.instagr.am"}

// Options configures an Extractor.
type Options struct {
	// BaseURL is where pages and structured endpoints are fetched from,
	// whatever host the user's URL names.
	BaseURL      string
	AllowedHosts []string
	UserAgent    string
	HTTPClient   *http.Client
	Downloader   client.Downloader
	Retries      int
	// Structured overrides the structured access layer, mainly for tests.
	Structured StructuredClient
}

// Extractor resolves a social URL into one local artifact.
type Extractor struct {
	opts          Options
	httpClient    *http.Client
	downloader    client.Downloader
	structured    StructuredClient
	pageParser    parser.PageParser[models.PageMeta]
	profileParser parser.PageParser[models.ProfilePayload]
	chain         *Chain
}

// NewExtractor wires an Extractor from opts, filling in defaults.
func NewExtractor(opts Options) *Extractor {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if len(opts.AllowedHosts) == 0 {
		opts.AllowedHosts = DefaultAllowedHosts
	}
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultUserAgent
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = client.NewHTTPClient(30*time.Second, "")
	}
	if opts.Downloader == nil {
		opts.Downloader = client.NewDownloader(opts.HTTPClient, client.DownloaderOptions{
			Retries:   opts.Retries,
			UserAgent: opts.UserAgent,
			Header:    http.Header{"Referer": []string{opts.BaseURL + "/"}},
		})
	}

	e := &Extractor{
		opts:          opts,
		httpClient:    opts.HTTPClient,
		downloader:    opts.Downloader,
		structured:    opts.Structured,
		pageParser:    parser.NewPageMetaParser(),
		profileParser: parser.NewProfilePayloadParser(),
	}
	if e.structured == nil {
		e.structured = NewStructuredClient(opts.HTTPClient, opts.Downloader, opts.BaseURL, opts.UserAgent, opts.Retries)
	}
	e.chain = NewChain(
		Strategy{Name: StrategyPageMeta, Run: e.pageMetaStrategy},
		Strategy{Name: StrategyStructured, Run: e.structuredStrategy},
	)
	return e
}

// NewExtractorFromConfig builds an Extractor from cfg.
func NewExtractorFromConfig(cfg *config.Config) *Extractor {
	timeout := config.Duration(cfg.ClientTimeout, 30*time.Second, "client_timeout")
	httpClient := client.NewHTTPClient(timeout, cfg.ProxyConnectionString)
	base := cfg.Social.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	downloadTimeout := config.Duration(cfg.DownloadTimeout, 60*time.Second, "download_timeout")
	return NewExtractor(Options{
		BaseURL:      base,
		AllowedHosts: allowedHostsFor(base),
		UserAgent:    cfg.UserAgent,
		HTTPClient:   httpClient,
		Downloader: client.NewDownloader(client.NewHTTPClient(downloadTimeout, cfg.ProxyConnectionString), client.DownloaderOptions{
			Retries:   cfg.DownloadRetries,
			UserAgent: cfg.UserAgent,
			Header:    http.Header{"Referer": []string{strings.TrimRight(base, "/") + "/"}},
		}),
		Retries: cfg.DownloadRetries,
	})
}

func allowedHostsFor(base string) []string {
	hosts := slices.Clone(DefaultAllowedHosts)
	if t, err := Classify(strings.TrimRight(base, "/") + "/x"); err == nil && !slices.Contains(hosts, t.Host) {
		hosts = append(hosts, t.Host)
	}
	return hosts
}

// Extract normalises and classifies rawURL, then runs the strategy chain.
// The artifact lives in sc; the caller releases it after delivery.
func (e *Extractor) Extract(ctx context.Context, sc *scope.Scope, rawURL string) (*models.ExtractionResult, error) {
	logger := config.GetLogger()

	normalized, err := Normalize(rawURL)
	if err != nil {
		return nil, err
	}
	target, err := e.Resolve(normalized)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("scope", sc.ID()).
		Str("kind", target.Kind.String()).
		Str("url", target.URL).
		Msg("Extracting social media")

	return e.chain.Run(ctx, &Input{Target: target, Scope: sc})
}

// Resolve classifies a normalised URL and applies the host allowlist.
func (e *Extractor) Resolve(normalized string) (Target, error) {
	target, err := Classify(normalized)
	if err != nil {
		return Target{}, err
	}
	if !slices.Contains(e.opts.AllowedHosts, target.Host) {
		return Target{}, &apperrors.ErrInvalidURL{URL: normalized}
	}
	return target, nil
}
