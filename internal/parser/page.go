// Package parser turns scraped social-network pages into the values the
// extraction strategies work with.
package parser

import (
	"io"

	"golang.org/x/net/html/charset"
)

// MaxPageSize caps how many bytes of a page are handed to a parser.
const MaxPageSize = 4 << 20

// PageParser reads one scraped page and returns what it found on it.
type PageParser[T any] interface {
	Parse(page io.Reader) (T, error)
}

// NewUTF8Reader decodes at most MaxPageSize bytes of body to UTF-8. The
// charset comes from contentType when it names one, otherwise from a BOM, a
// <meta> tag or sniffing.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	return charset.NewReader(io.LimitReader(body, MaxPageSize), contentType)
}
