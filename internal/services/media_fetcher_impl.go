package services

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/Belphemur/MediaFinder/internal/client"
	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/metrics"
	"github.com/Belphemur/MediaFinder/internal/models"
	"github.com/Belphemur/MediaFinder/internal/scope"
)

// DefaultMediaFetcher implements MediaFetcher on top of the catalog client
// and the asset downloader.
type DefaultMediaFetcher struct {
	images       ImageSource
	downloader   client.Downloader
	scratchDir   string
	previewCount int
}

// NewMediaFetcher creates a MediaFetcher. Scopes are created under scratchDir
// (the OS temp dir when empty); previewCount is the poster count of a preview
// delivery.
func NewMediaFetcher(images ImageSource, downloader client.Downloader, scratchDir string, previewCount int) MediaFetcher {
	if previewCount <= 0 {
		previewCount = models.DefaultPreviewPosterCount
	}
	return &DefaultMediaFetcher{
		images:       images,
		downloader:   downloader,
		scratchDir:   scratchDir,
		previewCount: previewCount,
	}
}

// Deliver implements MediaFetcher.
func (f *DefaultMediaFetcher) Deliver(ctx context.Context, selection models.SelectedItem, policy models.DeliveryPolicy, presenter Presenter) (Summary, error) {
	logger := config.GetLogger()
	var summary Summary

	refs, err := f.images.FetchImageRefs(ctx, selection.MediaKind, selection.ID)
	if err != nil {
		return summary, fmt.Errorf("failed to list images of %q: %w", selection.DisplayTitle, err)
	}

	posters := refs.Posters[:policy.PosterCount(len(refs.Posters), f.previewCount)]
	backdrops := FilterLanguageBackdrops(refs.Backdrops)
	summary.Posters = len(posters)
	summary.Backdrops = len(backdrops)

	logger.Info().
		Int64("id", selection.ID).
		Str("title", selection.DisplayTitle).
		Str("policy", policy.PosterLimit.String()).
		Int("posters", len(posters)).
		Int("backdrops", len(backdrops)).
		Msg("Delivering catalog images")

	err = scope.WithScope(ctx, f.scratchDir, func(sc *scope.Scope) error {
		if len(posters) > 0 {
			f.notify(ctx, presenter, fmt.Sprintf("📥 Downloading %d posters...", len(posters)))
			for i, asset := range posters {
				f.deliverAsset(ctx, sc, presenter, asset, i, posterCaption(selection.DisplayTitle), &summary)
			}
		}

		if len(backdrops) == 0 {
			f.notify(ctx, presenter, "ℹ️ No language-specific backdrops found.")
			return nil
		}
		f.notify(ctx, presenter, fmt.Sprintf("📥 Downloading %d language backdrops...", len(backdrops)))
		for i, asset := range backdrops {
			f.deliverAsset(ctx, sc, presenter, asset, i, backdropCaption(selection.DisplayTitle, *asset.LanguageTag), &summary)
		}
		return nil
	})
	if err != nil {
		return summary, err
	}

	if summary.Delivered == 0 {
		f.notify(ctx, presenter, fmt.Sprintf("😕 No images found for %s.", selection.DisplayTitle))
	} else {
		f.notify(ctx, presenter, fmt.Sprintf("✅ Sent %d images for %s.", summary.Delivered, selection.DisplayTitle))
	}

	logger.Info().
		Int64("id", selection.ID).
		Int("delivered", summary.Delivered).
		Int("failed", summary.Failed).
		Msg("Catalog delivery finished")
	return summary, nil
}

// deliverAsset downloads one asset into the scope, presents it and releases
// the file whatever the outcome. Failures are logged and counted.
func (f *DefaultMediaFetcher) deliverAsset(ctx context.Context, sc *scope.Scope, presenter Presenter, asset models.MediaAsset, index int, caption string, summary *Summary) {
	logger := config.GetLogger()
	kind := asset.Kind.String()

	filePath, err := sc.NewFile(fmt.Sprintf("%s_%d%s", kind, index+1, extensionOf(asset.RemoteURL)))
	if err != nil {
		f.recordFailure(summary, kind, err, asset, "Failed to reserve asset file")
		return
	}
	defer func() {
		if err := sc.Release(filePath); err != nil {
			logger.Warn().Err(err).Str("file", filePath).Msg("Failed to release asset file")
		}
	}()

	if _, err := f.downloader.DownloadToFile(ctx, asset.RemoteURL, filePath); err != nil {
		f.recordFailure(summary, kind, err, asset, "Failed to download asset")
		return
	}
	if err := presenter.PresentImage(ctx, filePath, caption); err != nil {
		f.recordFailure(summary, kind, err, asset, "Failed to deliver asset")
		return
	}

	summary.Delivered++
	metrics.AssetDeliveriesTotal.WithLabelValues(kind, "success").Inc()
	logger.Debug().Str("kind", kind).Str("url", asset.RemoteURL).Msg("Delivered asset")
}

func (f *DefaultMediaFetcher) recordFailure(summary *Summary, kind string, err error, asset models.MediaAsset, msg string) {
	logger := config.GetLogger()
	summary.Failed++
	metrics.AssetDeliveriesTotal.WithLabelValues(kind, "failed").Inc()
	logger.Warn().Err(err).Str("kind", kind).Str("url", asset.RemoteURL).Msg(msg)
}

func (f *DefaultMediaFetcher) notify(ctx context.Context, presenter Presenter, text string) {
	if err := presenter.PresentText(ctx, text); err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Msg("Failed to send notice")
	}
}

// FilterLanguageBackdrops keeps the backdrops that carry a language tag, in
// their original order. The input is not modified.
func FilterLanguageBackdrops(backdrops []models.MediaAsset) []models.MediaAsset {
	var out []models.MediaAsset
	for _, b := range backdrops {
		if b.HasLanguage() && strings.TrimSpace(*b.LanguageTag) != "" {
			out = append(out, b)
		}
	}
	return out
}

func posterCaption(title string) string {
	return "📸 " + title
}

func backdropCaption(title, tag string) string {
	return fmt.Sprintf("🏞 %s - Language: %s (%s)", title, strings.ToUpper(tag), languageName(tag))
}

// languageName renders an ISO 639-1 tag as an English language name.
func languageName(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return "Unknown"
	}
	if name := display.English.Languages().Name(t); name != "" {
		return name
	}
	return "Unknown"
}

func extensionOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".jpg"
	}
	switch ext := strings.ToLower(path.Ext(u.Path)); ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return ext
	default:
		return ".jpg"
	}
}
