package dialogue

import (
	"context"
	"fmt"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/models"
	"github.com/Belphemur/MediaFinder/internal/scope"
	"github.com/Belphemur/MediaFinder/internal/social"
)

func (m *Machine) onInstagramURL(ctx context.Context, sess *Session, ev Event, p Presenter) (step, error) {
	if ev.Kind != EventText {
		return stepStay, apperrors.NewValidationError("url", "a link is required")
	}
	if isCancelKeyword(ev.Payload) {
		m.say(ctx, p.PresentText(ctx, "❌ Cancelled."))
		return stepTerminate, nil
	}

	normalized, err := social.Normalize(ev.Payload)
	if err != nil {
		return stepStay, err
	}
	if _, err := m.deps.Extractor.Resolve(normalized); err != nil {
		return stepStay, err
	}

	m.say(ctx, p.PresentText(ctx, fmt.Sprintf("⏳ Processing %s ...", normalized)))

	err = scope.WithScope(ctx, m.deps.ScratchDir, func(sc *scope.Scope) error {
		result, err := m.deps.Extractor.Extract(ctx, sc, normalized)
		if err != nil {
			return err
		}
		defer func() { _ = sc.Release(result.LocalFilePath) }()

		for _, w := range result.Warnings {
			m.say(ctx, p.PresentText(ctx, w))
		}
		return m.deliverArtifact(ctx, result, p)
	})
	if err != nil {
		return stepTerminate, err
	}

	m.say(ctx, p.PresentText(ctx, "✅ Done!"))
	return stepTerminate, nil
}

// deliverArtifact presents the artifact by kind. A video the transport
// refuses is retried as a document.
func (m *Machine) deliverArtifact(ctx context.Context, result *models.ExtractionResult, p Presenter) error {
	logger := config.GetLogger()
	caption := result.Caption()

	if result.MimeKind == models.MimeKindImage {
		if err := p.PresentImage(ctx, result.LocalFilePath, caption); err != nil {
			return apperrors.NewProviderError(0, "failed to send the photo", err)
		}
		return nil
	}

	err := p.PresentVideo(ctx, result.LocalFilePath, caption)
	if err == nil {
		return nil
	}
	logger.Warn().Err(err).Str("strategy", result.Strategy).Msg("Video delivery failed, sending as document")
	if err := p.PresentDocument(ctx, result.LocalFilePath, caption+"\n(as document)"); err != nil {
		return apperrors.NewProviderError(0, "failed to send the video", err)
	}
	return nil
}
