package grpc

import (
	"context"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/models"
	"github.com/Belphemur/MediaFinder/internal/services"
)

// Catalog is what the service needs from the catalog client.
type Catalog interface {
	Search(ctx context.Context, kind models.MediaKind, name string, yearHint *int) ([]models.SearchResult, error)
	FetchImageRefs(ctx context.Context, kind models.MediaKind, id int64) (*models.ImageRefs, error)
}

// server implements CatalogServer
type server struct {
	catalog      Catalog
	previewCount int
	logger       zerolog.Logger
}

// NewServer creates the catalog service on top of catalog.
func NewServer(catalog Catalog, previewCount int) CatalogServer {
	return &server{
		catalog:      catalog,
		previewCount: previewCount,
		logger:       config.GetLogger(),
	}
}

// Search implements CatalogServer.Search
func (s *server) Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	kind, err := kindField(req)
	if err != nil {
		return nil, toStatus(err)
	}
	name := stringField(req, "name")
	if name == "" {
		return nil, toStatus(apperrors.NewValidationError("name", "a title is required"))
	}
	year, hasYear, err := intField(req, "year")
	if err != nil {
		return nil, toStatus(err)
	}
	var yearHint *int
	if hasYear && year > 0 {
		y := int(year)
		yearHint = &y
	}

	s.logger.Debug().Str("kind", kind.String()).Str("name", name).Msg("Search called")
	results, err := s.catalog.Search(ctx, kind, name, yearHint)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("Failed to search catalog")
		return nil, toStatus(err)
	}

	s.logger.Debug().Int("count", len(results)).Msg("Search completed")
	return searchResultsToStruct(results)
}

// ListImages implements CatalogServer.ListImages
func (s *server) ListImages(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	kind, err := kindField(req)
	if err != nil {
		return nil, toStatus(err)
	}
	id, ok, err := intField(req, "id")
	if err != nil {
		return nil, toStatus(err)
	}
	if !ok || id <= 0 {
		return nil, toStatus(apperrors.NewValidationError("id", "a positive id is required"))
	}

	policy := models.DeliveryPolicy{PosterLimit: models.PosterLimitPreview}
	if boolField(req, "all_posters") {
		policy.PosterLimit = models.PosterLimitAll
	}

	s.logger.Debug().Str("kind", kind.String()).Int64("id", id).Str("policy", policy.PosterLimit.String()).Msg("ListImages called")
	refs, err := s.catalog.FetchImageRefs(ctx, kind, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("Failed to list images")
		return nil, toStatus(err)
	}

	posters := refs.Posters[:policy.PosterCount(len(refs.Posters), s.previewCount)]
	backdrops := services.FilterLanguageBackdrops(refs.Backdrops)
	s.logger.Debug().Int("posters", len(posters)).Int("backdrops", len(backdrops)).Msg("ListImages completed")
	return imagesToStruct(posters, backdrops)
}
