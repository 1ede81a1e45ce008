package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/models"
)

// FetchImageRefs lists the posters and backdrops of a movie or series.
func (c *client) FetchImageRefs(ctx context.Context, kind models.MediaKind, id int64) (*models.ImageRefs, error) {
	if kind != models.MediaKindMovie && kind != models.MediaKindTV {
		return nil, apperrors.NewValidationError("kind", fmt.Sprintf("images are only listed for movies and series, got %q", kind))
	}

	key := kind.String() + ":" + strconv.FormatInt(id, 10)
	refs, err := c.imageCache.Load(ctx, key, func(ctx context.Context) (models.ImageRefs, error) {
		var payload models.CatalogImagesResponse
		path := "/" + kind.String() + "/" + strconv.FormatInt(id, 10) + "/images"
		if err := c.getJSON(ctx, path, url.Values{}, &payload); err != nil {
			return models.ImageRefs{}, err
		}
		return models.ImageRefs{
			Posters:   c.toAssets(payload.Posters, models.AssetKindPoster),
			Backdrops: c.toAssets(payload.Backdrops, models.AssetKindBackdrop),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	logger := config.GetLogger()
	logger.Debug().
		Str("kind", kind.String()).
		Int64("id", id).
		Int("posters", len(refs.Posters)).
		Int("backdrops", len(refs.Backdrops)).
		Msg("Fetched image references")
	return &refs, nil
}

func (c *client) toAssets(images []models.CatalogImage, kind models.AssetKind) []models.MediaAsset {
	assets := make([]models.MediaAsset, 0, len(images))
	for _, img := range images {
		if img.FilePath == "" {
			continue
		}
		assets = append(assets, models.MediaAsset{
			RemoteURL:   c.imageBaseURL + img.FilePath,
			Kind:        kind,
			LanguageTag: img.LanguageTag,
		})
	}
	return assets
}
