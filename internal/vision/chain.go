package vision

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Chain tries each identifier in order until one succeeds.
type Chain struct {
	identifiers []Identifier
	logger      *zap.Logger
}

// NewChain builds a chain; nil identifiers are skipped.
func NewChain(logger *zap.Logger, identifiers ...Identifier) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Chain{logger: logger.Named("vision")}
	for _, id := range identifiers {
		if id != nil {
			c.identifiers = append(c.identifiers, id)
		}
	}
	return c
}

// Providers lists the configured backend names in order.
func (c *Chain) Providers() []string {
	names := make([]string, 0, len(c.identifiers))
	for _, id := range c.identifiers {
		names = append(names, id.Name())
	}
	return names
}

// IdentifyFoods never fails because of a provider: when every backend errors
// the static fallback terms are returned. Only context cancellation is
// reported.
func (c *Chain) IdentifyFoods(ctx context.Context, img Image, hint string) (*Identification, error) {
	for _, id := range c.identifiers {
		out, err := id.IdentifyFoods(ctx, img, hint)
		if err == nil {
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Warn("identifier failed, trying next",
			zap.String("provider", id.Name()),
			zap.Error(err))
	}

	if len(c.identifiers) == 0 {
		return Fallback("AI analysis unavailable, using fallback search terms"), nil
	}
	return Fallback("AI analysis completed but response format was unexpected"), nil
}

// EstimateMeal returns the first successful estimate, or ErrUnavailable.
func (c *Chain) EstimateMeal(ctx context.Context, img Image, description string) (*MealEstimate, error) {
	var errs []error
	for _, id := range c.identifiers {
		out, err := id.EstimateMeal(ctx, img, description)
		if err == nil {
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, ErrUnsupported) {
			c.logger.Warn("meal estimate failed, trying next",
				zap.String("provider", id.Name()),
				zap.Error(err))
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, ErrUnavailable
	}
	return nil, fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
}

// Analysis bundles an identification with an optional meal estimate.
type Analysis struct {
	Identification *Identification `json:"identification"`
	Estimate       *MealEstimate   `json:"estimate,omitempty"`
}

// Analyze runs identification and estimation concurrently. A failed
// estimate leaves Estimate nil rather than failing the analysis.
func (c *Chain) Analyze(ctx context.Context, img Image, description string) (*Analysis, error) {
	var out Analysis

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		id, err := c.IdentifyFoods(egCtx, img, description)
		if err != nil {
			return err
		}
		out.Identification = id
		return nil
	})
	eg.Go(func() error {
		est, err := c.EstimateMeal(egCtx, img, description)
		if err != nil {
			if ctxErr := egCtx.Err(); ctxErr != nil {
				return ctxErr
			}
			c.logger.Info("meal estimate unavailable", zap.Error(err))
			return nil
		}
		out.Estimate = est
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
