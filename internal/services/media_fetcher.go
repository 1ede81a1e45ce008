package services

import (
	"context"

	"github.com/Belphemur/MediaFinder/internal/models"
)

// ImageSource lists the images of a catalog entry.
type ImageSource interface {
	FetchImageRefs(ctx context.Context, kind models.MediaKind, id int64) (*models.ImageRefs, error)
}

// Presenter is the part of the rendering interface a delivery needs.
type Presenter interface {
	PresentText(ctx context.Context, text string) error
	PresentImage(ctx context.Context, path, caption string) error
}

// Summary counts what a delivery did.
type Summary struct {
	Posters   int // posters selected by the policy
	Backdrops int // language-tagged backdrops selected
	Delivered int
	Failed    int
}

// MediaFetcher downloads and delivers the images of a selected catalog entry
type MediaFetcher interface {
	// Deliver sends the posters allowed by policy and every language-tagged
	// backdrop of selection. Per-asset failures are counted in the Summary;
	// only a failed image listing is returned as an error.
	Deliver(ctx context.Context, selection models.SelectedItem, policy models.DeliveryPolicy, presenter Presenter) (Summary, error)
}
