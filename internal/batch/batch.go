// Package batch runs many independent presentations through one engine
// concurrently. The engine carries no mutable state, so the only coordination
// needed is the result slice indexing.
package batch

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/deckforge/deckforge/api/schemas"
	"github.com/deckforge/deckforge/internal/layout"
	"github.com/deckforge/deckforge/internal/observability"
)

// Normalizer fans presentations out over a bounded worker group.
type Normalizer struct {
	engine      *layout.Engine
	concurrency int
	log         *zap.Logger
}

// New builds a Normalizer. Concurrency values below one fall back to serial.
func New(engine *layout.Engine, concurrency int) *Normalizer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Normalizer{
		engine:      engine,
		concurrency: concurrency,
		log:         observability.GetLogger().Named("batch"),
	}
}

// NormalizeAll normalizes every deck and returns the results in input order.
// The first failure cancels the remaining work and fails the whole batch.
func (n *Normalizer) NormalizeAll(ctx context.Context, decks []*schemas.Presentation) ([]*schemas.NormalizedPresentation, error) {
	results := make([]*schemas.NormalizedPresentation, len(decks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(n.concurrency)
	for i, deck := range decks {
		i, deck := i, deck
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := n.engine.Normalize(deck)
			if err != nil {
				return fmt.Errorf("deck %d: %w", i, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n.log.Debug("batch normalized", zap.Int("decks", len(decks)), zap.Int("concurrency", n.concurrency))
	return results, nil
}
