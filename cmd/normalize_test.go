package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckforge/deckforge/api/schemas"
	"github.com/deckforge/deckforge/internal/render"
)

const testDeck = `{
  "layout": "LAYOUT_16x9",
  "children": [
    {"kind": "slide", "backgroundColor": "white", "children": [
      {"kind": "text", "style": {"x": 1, "y": 1, "w": 8, "h": 1}, "children": "hello"}
    ]}
  ]
}`

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestNormalizeCommand_WritesNormalizedJSON(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "deck.json")
	require.NoError(t, os.WriteFile(input, []byte(testDeck), 0o600))
	outPath := filepath.Join(dir, "out.json")

	cfg := filepath.Join(dir, "missing-config.yaml")
	require.NoError(t, runCommand(t, "--config", cfg, "normalize", input, "-o", outPath, "--trace"))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var doc struct {
		Deck  *schemas.NormalizedPresentation `json:"deck"`
		Trace []render.Op                     `json:"trace"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.NotNil(t, doc.Deck)
	assert.Equal(t, 10.0, doc.Deck.Layout.Width)
	require.Len(t, doc.Deck.Slides, 1)
	require.Len(t, doc.Deck.Slides[0].Objects, 1)

	// Trace order: background first, then the text block.
	require.Len(t, doc.Trace, 2)
	assert.Equal(t, "background", doc.Trace[0].Kind)
	assert.Equal(t, "text", doc.Trace[1].Kind)
	assert.Equal(t, "hello", doc.Trace[1].Label)
}

func TestNormalizeCommand_MissingInputFails(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "missing-config.yaml")
	err := runCommand(t, "--config", cfg, "normalize", filepath.Join(dir, "nope.json"))
	assert.Error(t, err)
}
