package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/models"
)

// PageMetaParser reads the Open Graph tags of a post or reel page.
type PageMetaParser struct{}

// NewPageMetaParser creates a new page meta parser instance
func NewPageMetaParser() PageParser[models.PageMeta] {
	return &PageMetaParser{}
}

// Parse extracts og:video, og:image, og:title and og:description. The
// secure_url variants are used when the plain property is missing.
func (p *PageMetaParser) Parse(body io.Reader) (models.PageMeta, error) {
	logger := config.GetLogger()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return models.PageMeta{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	meta := models.PageMeta{
		VideoURL:    firstMeta(doc, "og:video", "og:video:secure_url", "og:video:url"),
		ImageURL:    firstMeta(doc, "og:image", "og:image:secure_url", "og:image:url"),
		Title:       firstMeta(doc, "og:title"),
		Description: firstMeta(doc, "og:description"),
	}

	logger.Debug().
		Bool("video", meta.VideoURL != "").
		Bool("image", meta.ImageURL != "").
		Bool("title", meta.Title != "").
		Msg("Parsed page meta tags")
	return meta, nil
}

// firstMeta returns the content of the first non-empty <meta property=...> among names.
func firstMeta(doc *goquery.Document, names ...string) string {
	for _, name := range names {
		var value string
		doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			prop := s.AttrOr("property", s.AttrOr("name", ""))
			if !strings.EqualFold(prop, name) {
				return true
			}
			value = strings.TrimSpace(s.AttrOr("content", ""))
			return value == ""
		})
		if value != "" {
			return value
		}
	}
	return ""
}
