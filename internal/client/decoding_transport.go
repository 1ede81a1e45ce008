package client

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// acceptedCodings is sent on every request that does not pick its own.
const acceptedCodings = "gzip, br, zstd"

// decoders builds a decoding reader for each supported content coding.
var decoders = map[string]func(io.Reader) (io.ReadCloser, error){
	"gzip": func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	},
	"br": func(r io.Reader) (io.ReadCloser, error) {
		return io.NopCloser(brotli.NewReader(r)), nil
	},
	"zstd": func(r io.Reader) (io.ReadCloser, error) {
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	},
}

// decodingTransport asks for compressed catalog answers and scraped pages,
// then hands callers the plain body. Media downloads usually come back
// uncompressed and pass through untouched.
type decodingTransport struct {
	next http.RoundTripper
}

func newDecodingTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &decodingTransport{next: next}
}

func (t *decodingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" {
		req = req.Clone(req.Context())
		if req.Header == nil {
			req.Header = make(http.Header)
		}
		req.Header.Set("Accept-Encoding", acceptedCodings)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.Body == nil || resp.Body == http.NoBody {
		return resp, err
	}

	coding := outermostCoding(resp.Header.Get("Content-Encoding"))
	decode, ok := decoders[coding]
	if !ok {
		return resp, nil
	}
	decoded, err := decode(resp.Body)
	if err != nil {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("decode %s body from %s: %w", coding, req.URL.Host, err)
	}

	resp.Body = &decodedBody{ReadCloser: decoded, wire: resp.Body}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return resp, nil
}

// decodedBody reads through the decoder and closes both layers.
type decodedBody struct {
	io.ReadCloser
	wire io.ReadCloser
}

func (b *decodedBody) Close() error {
	return errors.Join(b.ReadCloser.Close(), b.wire.Close())
}

// outermostCoding returns the last coding applied to a body, lowercased.
// "gzip, br" was gzipped first, so "br" has to be undone first.
func outermostCoding(contentEncoding string) string {
	codings := strings.Split(contentEncoding, ",")
	return strings.ToLower(strings.TrimSpace(codings[len(codings)-1]))
}
