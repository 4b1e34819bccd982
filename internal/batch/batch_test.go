package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/deckforge/deckforge/api/schemas"
	"github.com/deckforge/deckforge/internal/config"
	"github.com/deckforge/deckforge/internal/layout"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func deck(text string) *schemas.Presentation {
	return &schemas.Presentation{
		Layout: schemas.LayoutSpec{Name: schemas.Layout16x9},
		Children: []schemas.DeckChild{&schemas.Slide{
			Children: []schemas.SlideObject{
				&schemas.Text{Style: &schemas.TextStyle{}, Children: text},
			},
		}},
	}
}

func TestNormalizeAll_PreservesInputOrder(t *testing.T) {
	n := New(layout.New(config.EngineConfig{}), 4)

	decks := make([]*schemas.Presentation, 16)
	for i := range decks {
		decks[i] = deck(string(rune('a' + i)))
	}

	results, err := n.NormalizeAll(context.Background(), decks)
	require.NoError(t, err)
	require.Len(t, results, len(decks))

	for i, out := range results {
		require.NotNil(t, out, "deck %d", i)
		text := out.Slides[0].Objects[0].(*schemas.NormalizedText)
		assert.Equal(t, string(rune('a'+i)), text.Runs[0].Text)
	}
}

func TestNormalizeAll_FirstFailureFailsBatch(t *testing.T) {
	n := New(layout.New(config.EngineConfig{}), 2)

	bad := deck("x")
	bad.Children[0].(*schemas.Slide).Children[0].(*schemas.Text).Style = nil

	_, err := n.NormalizeAll(context.Background(), []*schemas.Presentation{deck("ok"), bad})
	var styleErr *schemas.MissingStyleError
	require.Error(t, err)
	assert.True(t, errors.As(err, &styleErr))
}

func TestNormalizeAll_CanceledContext(t *testing.T) {
	n := New(layout.New(config.EngineConfig{}), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := n.NormalizeAll(ctx, []*schemas.Presentation{deck("a"), deck("b")})
	assert.Error(t, err)
}

func TestNormalizeAll_Empty(t *testing.T) {
	n := New(layout.New(config.EngineConfig{}), 0)
	results, err := n.NormalizeAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
