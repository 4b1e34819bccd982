package text

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckforge/deckforge/api/schemas"
)

func TestFlatten_Leaves(t *testing.T) {
	runs, err := Flatten("hello")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "hello", runs[0].Text)
	assert.Equal(t, schemas.RunStyle{}, runs[0].Style)

	runs, err = Flatten(42)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "42", runs[0].Text)

	runs, err = Flatten(nil)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestFlatten_NestedSequences(t *testing.T) {
	runs, err := Flatten([]any{"a", []any{"b", []any{"c"}}, 7})
	require.NoError(t, err)
	require.Len(t, runs, 4)
	assert.Equal(t, []string{"a", "b", "c", "7"},
		[]string{runs[0].Text, runs[1].Text, runs[2].Text, runs[3].Text})
}

func TestFlatten_SpanSuppliesDefaultsOnly(t *testing.T) {
	big := 32.0
	inner := &schemas.Span{
		Style:    schemas.SpanStyle{FontSize: &big},
		Children: "emphasized",
	}
	outer := &schemas.Span{
		Style: schemas.SpanStyle{
			Bold:     boolPtr(true),
			FontSize: floatPtr(18),
			Color:    "red",
		},
		Children: []any{"plain", inner},
	}

	runs, err := Flatten(outer)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// The plain child inherits everything from the outer span.
	assert.Equal(t, true, *runs[0].Style.Bold)
	assert.Equal(t, 18.0, *runs[0].Style.FontSize)
	assert.Equal(t, "FF0000", runs[0].Style.Color.Hex)

	// The inner span's own size wins; the rest still cascades down.
	assert.Equal(t, 32.0, *runs[1].Style.FontSize)
	assert.Equal(t, true, *runs[1].Style.Bold)
	assert.Equal(t, "FF0000", runs[1].Style.Color.Hex)
}

func TestFlatten_SpanWithBadColorFails(t *testing.T) {
	span := &schemas.Span{Style: schemas.SpanStyle{Color: "chartreuse-ish"}, Children: "x"}
	_, err := Flatten(span)
	var colorErr *schemas.InvalidColorError
	require.Error(t, err)
	assert.True(t, errors.As(err, &colorErr))
}

func TestFlatten_LinkAnnotatesEveryRun(t *testing.T) {
	link := &schemas.Link{
		URL:      "https://example.com",
		Tooltip:  "docs",
		Children: []any{"click", " here"},
	}
	runs, err := Flatten(link)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		require.NotNil(t, r.Link)
		assert.Equal(t, "https://example.com", r.Link.URL)
		assert.Equal(t, "docs", r.Link.Tooltip)
	}
	// Each run gets its own target record.
	assert.NotSame(t, runs[0].Link, runs[1].Link)
}

func TestFlatten_BulletGroup(t *testing.T) {
	group := &schemas.BulletGroup{Children: []any{"first", "second"}}
	runs, err := Flatten(group)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Only the first run carries the marker, serialized as plain true.
	require.NotNil(t, runs[0].Bullet)
	assert.Empty(t, runs[0].Bullet.Options)
	assert.Nil(t, runs[1].Bullet)

	require.NotNil(t, runs[0].LineBreakAfter)
	assert.False(t, *runs[0].LineBreakAfter)
	require.NotNil(t, runs[1].LineBreakAfter)
	assert.True(t, *runs[1].LineBreakAfter)
}

func TestFlatten_BulletGroupWithOptions(t *testing.T) {
	group := &schemas.BulletGroup{
		Options:  map[string]any{"type": "number"},
		Children: "item",
	}
	runs, err := Flatten(group)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.NotNil(t, runs[0].Bullet)
	assert.Equal(t, "number", runs[0].Bullet.Options["type"])
}

func TestFlatten_MixedBulletAndPlainRuns(t *testing.T) {
	link := &schemas.Link{URL: "https://example.com", Children: "ref"}
	block := []any{
		"intro",
		&schemas.BulletGroup{Children: "point"},
		link,
	}
	runs, err := Flatten(block)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	// The plain intro run defaults to a trailing break.
	require.NotNil(t, runs[0].LineBreakAfter)
	assert.True(t, *runs[0].LineBreakAfter)
	// The bullet run keeps its explicit flag.
	require.NotNil(t, runs[1].LineBreakAfter)
	assert.True(t, *runs[1].LineBreakAfter)
	// Hyperlink runs are left alone.
	assert.Nil(t, runs[2].LineBreakAfter)
}

func TestFlatten_UniformBlockGetsNoImplicitBreaks(t *testing.T) {
	runs, err := Flatten([]any{"a", "b"})
	require.NoError(t, err)
	for _, r := range runs {
		assert.Nil(t, r.LineBreakAfter)
	}
}

func TestFlatten_HardBreakMarksPrecedingRun(t *testing.T) {
	runs, err := Flatten([]any{"first", &schemas.HardBreak{}, "second"})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.NotNil(t, runs[0].LineBreakAfter)
	assert.True(t, *runs[0].LineBreakAfter)
	assert.Nil(t, runs[1].LineBreakAfter)
}

func TestFlatten_InvalidChildTypes(t *testing.T) {
	for _, bad := range []any{true, map[string]any{"k": "v"}, struct{}{}} {
		_, err := Flatten([]any{"ok", bad})
		var childErr *schemas.InvalidTextChildError
		require.Error(t, err)
		assert.True(t, errors.As(err, &childErr))
	}
}

func floatPtr(v float64) *float64 { return &v }
