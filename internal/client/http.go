package client

import (
	"net/http"
	"net/url"
	"time"

	"github.com/Belphemur/MediaFinder/internal/config"
)

// maxConnsPerHost bounds parallel connections to one catalog or CDN host.
const maxConnsPerHost = 16

// NewHTTPClient returns the client used for catalog calls, media downloads
// and page scraping. proxy is optional; an unparsable one is logged and
// ignored.
func NewHTTPClient(timeout time.Duration, proxy string) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = maxConnsPerHost
	transport.MaxConnsPerHost = maxConnsPerHost
	if proxyURL := parseProxy(proxy); proxyURL != nil {
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: newDecodingTransport(transport),
	}
}

func parseProxy(proxy string) *url.URL {
	if proxy == "" {
		return nil
	}
	proxyURL, err := url.Parse(proxy)
	if err != nil || proxyURL.Host == "" {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("proxy", proxy).Msg("Ignoring unusable proxy URL")
		return nil
	}
	return proxyURL
}
