package style

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckforge/deckforge/api/schemas"
)

func TestResolveColor_EquivalentExpressions(t *testing.T) {
	// The same red, spelled three ways, resolves to one canonical value.
	for _, expr := range []string{"red", "#ff0000", "rgb(255,0,0)"} {
		t.Run(expr, func(t *testing.T) {
			c, err := ResolveColor(expr)
			require.NoError(t, err)
			assert.Equal(t, schemas.Color{Hex: "FF0000"}, c)
			assert.True(t, c.Opaque())
		})
	}
}

func TestResolveColor_Grammar(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected schemas.Color
	}{
		{"short hex", "#f09", schemas.Color{Hex: "FF0099"}},
		{"bare hex", "FF0099", schemas.Color{Hex: "FF0099"}},
		{"lowercase bare hex", "ff0099", schemas.Color{Hex: "FF0099"}},
		{"hex with alpha", "#ff000080", schemas.Color{Hex: "FF0000", Transparency: 50}},
		{"named", "cornflowerblue", schemas.Color{Hex: "6495ED"}},
		{"named mixed case", "RebeccaPurple", schemas.Color{Hex: "663399"}},
		{"rgb with spaces", "rgb( 0, 128 , 255 )", schemas.Color{Hex: "0080FF"}},
		{"rgb percent channels", "rgb(100%, 50%, 0%)", schemas.Color{Hex: "FF8000"}},
		{"rgba opaque", "rgba(255, 0, 0, 1)", schemas.Color{Hex: "FF0000"}},
		{"rgba translucent", "rgba(255,0,0,0.8)", schemas.Color{Hex: "FF0000", Transparency: 20}},
		{"rgba quarter", "rgba(0,0,0,0.25)", schemas.Color{Hex: "000000", Transparency: 75}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ResolveColor(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestResolveColor_AlphaIsPercentTransparency(t *testing.T) {
	// alpha = 100 - round(0.8*100) = 20: the stored number is transparency,
	// not opacity.
	c, err := ResolveColor("rgba(255,0,0,0.8)")
	require.NoError(t, err)
	assert.Equal(t, 20, c.Transparency)
}

func TestResolveColor_Invalid(t *testing.T) {
	inputs := []string{
		"not-a-color",
		"#12345",
		"rgb(255,0)",
		"rgb(256,0,0)",
		"rgba(0,0,0,1.5)",
		"rgb(a,b,c)",
		"",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ResolveColor(input)
			var colorErr *schemas.InvalidColorError
			require.Error(t, err)
			assert.True(t, errors.As(err, &colorErr))
		})
	}

	// Non-string, non-color values are rejected too.
	_, err := ResolveColor(42)
	var colorErr *schemas.InvalidColorError
	assert.True(t, errors.As(err, &colorErr))
}

func TestResolveColor_Idempotent(t *testing.T) {
	// A canonical bare hex string is a fixed point of the resolver.
	first, err := ResolveColor("tomato")
	require.NoError(t, err)
	second, err := ResolveColor(first.Hex)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// An already-structured color passes through unchanged.
	structured := schemas.Color{Hex: "FF6347", Transparency: 30}
	got, err := ResolveColor(structured)
	require.NoError(t, err)
	assert.Equal(t, structured, got)
}

func TestResolveSolidColor_DiscardsAlpha(t *testing.T) {
	hex, err := ResolveSolidColor("rgba(255,0,0,0.5)")
	require.NoError(t, err)
	assert.Equal(t, "FF0000", hex)

	_, err = ResolveSolidColor("bogus")
	assert.Error(t, err)
}
