package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/metrics"
	"github.com/Belphemur/MediaFinder/internal/models"
)

// Search queries the provider's search endpoint for kind. When yearHint is set
// and the hinted search comes back empty, the search is repeated without it.
func (c *client) Search(ctx context.Context, kind models.MediaKind, name string, yearHint *int) ([]models.SearchResult, error) {
	logger := config.GetLogger()
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "must not be empty")
	}
	path, err := searchPath(kind)
	if err != nil {
		return nil, err
	}

	results, err := c.searchOnce(ctx, kind, path, name, yearHint)
	if err == nil && len(results) == 0 && yearHint != nil {
		logger.Debug().Str("query", name).Int("year", *yearHint).Msg("No matches with year hint, retrying without it")
		results, err = c.searchOnce(ctx, kind, path, name, nil)
	}
	if err != nil {
		metrics.CatalogSearchesTotal.WithLabelValues(kind.String(), "error").Inc()
		return nil, err
	}
	if len(results) == 0 {
		metrics.CatalogSearchesTotal.WithLabelValues(kind.String(), "empty").Inc()
		return nil, apperrors.NewNotFoundError("search results", name)
	}

	metrics.CatalogSearchesTotal.WithLabelValues(kind.String(), "success").Inc()
	logger.Info().Str("kind", kind.String()).Str("query", name).Int("count", len(results)).Msg("Catalog search completed")
	return results, nil
}

func searchPath(kind models.MediaKind) (string, error) {
	switch kind {
	case models.MediaKindMovie:
		return "/search/movie", nil
	case models.MediaKindTV:
		return "/search/tv", nil
	case models.MediaKindOther:
		return "/search/multi", nil
	default:
		return "", apperrors.NewValidationError("kind", fmt.Sprintf("unsupported media kind %q", kind))
	}
}

func (c *client) searchOnce(ctx context.Context, kind models.MediaKind, path, name string, yearHint *int) ([]models.SearchResult, error) {
	key := c.searchKey(kind, name, yearHint)
	return c.searchCache.Load(ctx, key, func(ctx context.Context) ([]models.SearchResult, error) {
		query := url.Values{}
		query.Set("query", name)
		query.Set("include_adult", strconv.FormatBool(c.includeAdult))
		query.Set("page", "1")
		if c.language != "" {
			query.Set("language", c.language)
		}
		if yearHint != nil {
			switch kind {
			case models.MediaKindMovie:
				query.Set("year", strconv.Itoa(*yearHint))
			case models.MediaKindTV:
				query.Set("first_air_date_year", strconv.Itoa(*yearHint))
			}
		}

		var payload models.CatalogSearchResponse
		if err := c.getJSON(ctx, path, query, &payload); err != nil {
			return nil, err
		}
		return normalizeResults(kind, payload.Results), nil
	})
}

func (c *client) searchKey(kind models.MediaKind, name string, yearHint *int) string {
	year := "-"
	if yearHint != nil {
		year = strconv.Itoa(*yearHint)
	}
	return strings.Join([]string{kind.String(), c.language, strconv.FormatBool(c.includeAdult), year, strings.ToLower(name)}, ":")
}

// normalizeResults keeps provider rank order, drops records without a title
// and, for multi-search, anything that is not a movie or a series.
func normalizeResults(kind models.MediaKind, records []models.CatalogSearchRecord) []models.SearchResult {
	results := make([]models.SearchResult, 0, min(len(records), models.MaxSearchResults))
	for _, record := range records {
		if len(results) == models.MaxSearchResults {
			break
		}

		resultKind := kind
		if kind == models.MediaKindOther {
			resultKind = models.ParseMediaKind(record.MediaType)
			if resultKind != models.MediaKindMovie && resultKind != models.MediaKindTV {
				continue
			}
		}

		title := strings.TrimSpace(record.Title)
		if title == "" {
			title = strings.TrimSpace(record.Name)
		}
		if title == "" {
			continue
		}

		results = append(results, models.SearchResult{
			ID:           record.ID,
			DisplayTitle: title,
			Year:         resolveYear(record),
			MediaKind:    resultKind,
		})
	}
	return results
}

func resolveYear(record models.CatalogSearchRecord) string {
	date := record.ReleaseDate
	if date == "" {
		date = record.FirstAirDate
	}
	if len(date) < 4 {
		return models.UnknownYear
	}
	return date[:4]
}
