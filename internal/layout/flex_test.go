package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckforge/deckforge/api/schemas"
)

func textChild(w, h float64) *schemas.Text {
	return &schemas.Text{
		Style:    &schemas.TextStyle{W: schemas.Inches(w), H: schemas.Inches(h)},
		Children: "x",
	}
}

func TestFlex_RowPlacesChildrenWithGap(t *testing.T) {
	objs := normalizeObjects(t, &schemas.Flex{
		Style: &schemas.FlexStyle{Gap: 0.5},
		Children: []schemas.SlideObject{
			textChild(2, 1), textChild(2, 1), textChild(2, 1),
		},
	})
	require.Len(t, objs, 3)

	// Cursor advances by size plus gap: 0, 2.5, 5.
	xs := make([]float64, 3)
	for i, obj := range objs {
		text := obj.(*schemas.NormalizedText)
		xs[i] = text.Frame.X
		assert.Equal(t, 2.0, text.Frame.W)
		assert.Equal(t, 0.0, text.Frame.Y)
	}
	assert.Equal(t, []float64{0, 2.5, 5}, xs)
}

func TestFlex_ColumnStacksAlongY(t *testing.T) {
	objs := normalizeObjects(t, &schemas.Flex{
		Style: &schemas.FlexStyle{Direction: schemas.FlexColumn, Gap: 1},
		Children: []schemas.SlideObject{
			textChild(3, 2), textChild(3, 2),
		},
	})
	require.Len(t, objs, 2)

	first := objs[0].(*schemas.NormalizedText)
	second := objs[1].(*schemas.NormalizedText)
	assert.Equal(t, 0.0, first.Frame.Y)
	assert.Equal(t, 3.0, second.Frame.Y)
	assert.Equal(t, 3.0, first.Frame.W)
	assert.Equal(t, 2.0, first.Frame.H)
}

func TestFlex_PercentSizesResolveAgainstInnerAxis(t *testing.T) {
	objs := normalizeObjects(t, &schemas.Flex{
		Style: &schemas.FlexStyle{},
		Children: []schemas.SlideObject{
			&schemas.Text{Style: &schemas.TextStyle{W: schemas.Str("50%"), H: schemas.Inches(2)}, Children: "a"},
			&schemas.Text{Style: &schemas.TextStyle{W: schemas.Str("50%"), H: schemas.Inches(2)}, Children: "b"},
		},
	})
	require.Len(t, objs, 2)

	// Two 50% children split the 10in row exactly once each; the slot size
	// is not re-resolved inside the slot.
	first := objs[0].(*schemas.NormalizedText)
	second := objs[1].(*schemas.NormalizedText)
	assert.Equal(t, 5.0, first.Frame.W)
	assert.Equal(t, 0.0, first.Frame.X)
	assert.Equal(t, 5.0, second.Frame.W)
	assert.Equal(t, 5.0, second.Frame.X)
}

func TestFlex_AlignItems(t *testing.T) {
	run := func(align schemas.FlexAlign) *schemas.NormalizedText {
		objs := normalizeObjects(t, &schemas.Flex{
			Style:    &schemas.FlexStyle{AlignItems: align},
			Children: []schemas.SlideObject{textChild(2, 4)},
		})
		require.Len(t, objs, 1)
		return objs[0].(*schemas.NormalizedText)
	}

	assert.Equal(t, 0.0, run(schemas.AlignStart).Frame.Y)
	assert.Equal(t, 3.0, run(schemas.AlignCenter).Frame.Y)
	assert.Equal(t, 6.0, run(schemas.AlignEnd).Frame.Y)
}

func TestFlex_StretchFillsUnsetCrossAxis(t *testing.T) {
	objs := normalizeObjects(t, &schemas.Flex{
		Style: &schemas.FlexStyle{AlignItems: schemas.AlignStretch},
		Children: []schemas.SlideObject{
			&schemas.Text{Style: &schemas.TextStyle{W: schemas.Inches(2)}, Children: "x"},
		},
	})
	text := objs[0].(*schemas.NormalizedText)
	assert.Equal(t, 10.0, text.Frame.H)
}

func TestFlex_OverflowingChildrenAreClamped(t *testing.T) {
	objs := normalizeObjects(t, &schemas.Flex{
		Style: &schemas.FlexStyle{},
		Children: []schemas.SlideObject{
			textChild(8, 1), textChild(8, 1),
		},
	})
	require.Len(t, objs, 2)

	second := objs[1].(*schemas.NormalizedText)
	assert.Equal(t, 8.0, second.Frame.X)
	assert.Equal(t, 2.0, second.Frame.W)
}

func TestFlex_NestedContainerFillsItsSlot(t *testing.T) {
	objs := normalizeObjects(t, &schemas.Flex{
		Style: &schemas.FlexStyle{Gap: 1},
		Children: []schemas.SlideObject{
			textChild(2, 2),
			&schemas.Container{
				Style: &schemas.ContainerStyle{
					W: schemas.Inches(4), H: schemas.Inches(4),
					Padding:         schemas.Box{1},
					BackgroundColor: "white",
				},
				Children: []schemas.SlideObject{
					&schemas.Text{Style: &schemas.TextStyle{}, Children: "in"},
				},
			},
		},
	})
	require.Len(t, objs, 3)

	// The container occupies the slot at x=3 and its padding applies inside
	// that slot.
	inner := objs[1].(*schemas.NormalizedText)
	assert.Equal(t, schemas.Frame{X: 4, Y: 1, W: 2, H: 2}, inner.Frame)
	rect := objs[2].(*schemas.NormalizedShape)
	assert.Equal(t, schemas.Frame{X: 3, Y: 0, W: 4, H: 4}, rect.Frame)
}

func TestFlex_DecorationRectFollowsChildren(t *testing.T) {
	objs := normalizeObjects(t, &schemas.Flex{
		Style: &schemas.FlexStyle{
			ContainerStyle: schemas.ContainerStyle{BorderColor: "black", BorderWidth: 1},
		},
		Children: []schemas.SlideObject{textChild(2, 2)},
	})
	require.Len(t, objs, 2)
	rect, ok := objs[1].(*schemas.NormalizedShape)
	require.True(t, ok)
	assert.Equal(t, "000000", rect.BorderColor.Hex)
}

func TestFlex_RejectsLines(t *testing.T) {
	_, err := newTestEngine(t).Normalize(singleSlide(&schemas.Flex{
		Style: &schemas.FlexStyle{},
		Children: []schemas.SlideObject{
			&schemas.Line{Style: &schemas.LineStyle{X2: 1}},
		},
	}))
	var nodeErr *schemas.UnsupportedNodeError
	require.Error(t, err)
	require.True(t, errors.As(err, &nodeErr))
	assert.Equal(t, schemas.KindLine, nodeErr.NodeKind)
	assert.Equal(t, "flex", nodeErr.Context)
}
