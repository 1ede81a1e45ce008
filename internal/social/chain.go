package social

import (
	"context"
	"errors"
	"fmt"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/metrics"
	"github.com/Belphemur/MediaFinder/internal/models"
	"github.com/Belphemur/MediaFinder/internal/scope"
)

// Input is what every strategy receives.
type Input struct {
	Target Target
	Scope  *scope.Scope

	warnings      []string
	privateWarned bool
}

// Warn records a notice for the user. It does not stop the chain.
func (in *Input) Warn(msg string) {
	in.warnings = append(in.warnings, msg)
}

// WarnPrivate records the private-account notice once per run.
func (in *Input) WarnPrivate(msg string) {
	if in.privateWarned {
		return
	}
	in.privateWarned = true
	in.Warn(msg)
}

// StrategyFunc attempts one extraction. Returning (nil, nil) means the
// strategy found no usable reference.
type StrategyFunc func(ctx context.Context, in *Input) (*models.ExtractionResult, error)

// Strategy is a named StrategyFunc.
type Strategy struct {
	Name string
	Run  StrategyFunc
}

// Chain runs strategies in order and stops at the first success.
type Chain struct {
	strategies []Strategy
}

// NewChain creates a chain over strategies in the given order.
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Run returns either a result or an error, never both. A PrivateContent
// refusal stops the chain immediately. When every strategy comes up empty the
// most specific error seen is returned, else ErrExtractionFailed.
func (c *Chain) Run(ctx context.Context, in *Input) (*models.ExtractionResult, error) {
	logger := config.GetLogger()
	var named, last error

	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := c.runOne(ctx, s, in)
		switch {
		case err == nil && result != nil:
			metrics.ExtractionsTotal.WithLabelValues(s.Name, "success").Inc()
			result.Strategy = s.Name
			result.Warnings = append(in.warnings, result.Warnings...)
			logger.Info().
				Str("strategy", s.Name).
				Str("target", in.Target.Kind.String()).
				Str("mime", result.MimeKind.String()).
				Msg("Extraction succeeded")
			return result, nil
		case err == nil:
			metrics.ExtractionsTotal.WithLabelValues(s.Name, "empty").Inc()
			logger.Debug().Str("strategy", s.Name).Msg("Strategy found no usable reference")
			continue
		}

		metrics.ExtractionsTotal.WithLabelValues(s.Name, "error").Inc()
		logger.Warn().Err(err).Str("strategy", s.Name).Msg("Extraction strategy failed")
		last = err
		switch apperrors.KindOf(err) {
		case apperrors.KindPrivateContent:
			return nil, err
		case apperrors.KindNotFound, apperrors.KindRateLimited:
			named = err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
	}

	if named != nil {
		return nil, named
	}
	reason := "no media found"
	if in.Target.IsProfile() {
		reason = "no profile picture found"
	}
	return nil, &apperrors.ErrExtractionFailed{URL: in.Target.URL, Reason: reason, Err: last}
}

// runOne guards the never-both contract and converts panics into errors.
func (c *Chain) runOne(ctx context.Context, s Strategy, in *Input) (result *models.ExtractionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &apperrors.ErrInternal{Op: "strategy " + s.Name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	result, err = s.Run(ctx, in)
	if err != nil && result != nil {
		if result.LocalFilePath != "" {
			_ = in.Scope.Release(result.LocalFilePath)
		}
		result = nil
	}
	return result, err
}
