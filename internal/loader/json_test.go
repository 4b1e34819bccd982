package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckforge/deckforge/api/schemas"
)

const sampleDeck = `{
  "layout": "LAYOUT_16x9",
  "meta": {"title": "Q3 Review", "author": "pat"},
  "children": [
    {
      "kind": "master",
      "name": "title",
      "backgroundColor": "#333"
    },
    {
      "kind": "slide",
      "master": "title",
      "backgroundColor": "white",
      "children": [
        {
          "kind": "container",
          "style": {"x": "10%", "y": "10%", "w": "80%", "h": "80%", "padding": 1},
          "children": [
            {
              "kind": "text",
              "style": {"bold": true, "fontSize": 24},
              "children": ["hello ", {"kind": "span", "italic": true, "children": "world"}]
            }
          ]
        },
        "legacy raw string",
        42
      ]
    }
  ]
}`

func TestParseJSON_FullDeck(t *testing.T) {
	p, err := ParseJSON([]byte(sampleDeck))
	require.NoError(t, err)

	assert.Equal(t, schemas.Layout16x9, p.Layout.Name)
	assert.Equal(t, "Q3 Review", p.Meta.Title)
	require.Len(t, p.Children, 2)

	master, ok := p.Children[0].(*schemas.MasterSlide)
	require.True(t, ok)
	assert.Equal(t, "title", master.Name)

	slide, ok := p.Children[1].(*schemas.Slide)
	require.True(t, ok)
	assert.Equal(t, "title", slide.MasterName)
	// The raw string and number children are dropped at the boundary.
	require.Len(t, slide.Children, 1)

	container, ok := slide.Children[0].(*schemas.Container)
	require.True(t, ok)
	raw, isStr := container.Style.X.Raw()
	require.True(t, isStr)
	assert.Equal(t, "10%", raw)
	assert.Equal(t, schemas.Box{1}, container.Style.Padding)

	require.Len(t, container.Children, 1)
	text, ok := container.Children[0].(*schemas.Text)
	require.True(t, ok)
	assert.True(t, text.Style.Bold)
	require.NotNil(t, text.Style.FontSize)
	assert.Equal(t, 24.0, *text.Style.FontSize)

	children, ok := text.Children.([]any)
	require.True(t, ok)
	require.Len(t, children, 2)
	assert.Equal(t, "hello ", children[0])
	span, ok := children[1].(*schemas.Span)
	require.True(t, ok)
	assert.True(t, *span.Style.Italic)
}

func TestParseJSON_UnknownKind(t *testing.T) {
	doc := `{"children": [{"kind": "slide", "children": [{"kind": "hologram"}]}]}`
	_, err := ParseJSON([]byte(doc))
	var kindErr *schemas.UnknownNodeKindError
	require.Error(t, err)
	require.True(t, errors.As(err, &kindErr))
	assert.Equal(t, "hologram", kindErr.NodeKind)
}

func TestParseJSON_MarkupField(t *testing.T) {
	doc := `{"children": [{"kind": "slide", "children": [
		{"kind": "text", "style": {}, "markup": "plain <b>bold</b>"}
	]}]}`
	p, err := ParseJSON([]byte(doc))
	require.NoError(t, err)

	text := p.Children[0].(*schemas.Slide).Children[0].(*schemas.Text)
	children, ok := text.Children.([]any)
	require.True(t, ok)
	require.Len(t, children, 2)
	span, ok := children[1].(*schemas.Span)
	require.True(t, ok)
	assert.True(t, *span.Style.Bold)
}

func TestParseJSON_TableCellsDefaultKind(t *testing.T) {
	doc := `{"children": [{"kind": "slide", "children": [
		{"kind": "table", "style": {"w": 8, "h": 4}, "rows": [
			["plain", {"style": {"bold": true}, "children": "styled", "colSpan": 2}]
		]}
	]}]}`
	p, err := ParseJSON([]byte(doc))
	require.NoError(t, err)

	table := p.Children[0].(*schemas.Slide).Children[0].(*schemas.Table)
	require.Len(t, table.Rows, 1)
	require.Len(t, table.Rows[0], 2)
	assert.Equal(t, "plain", table.Rows[0][0])

	cell, ok := table.Rows[0][1].(*schemas.TableCell)
	require.True(t, ok)
	assert.True(t, cell.Style.Bold)
	assert.Equal(t, 2, cell.ColSpan)
}

func TestParseJSON_LinksAndBullets(t *testing.T) {
	doc := `{"children": [{"kind": "slide", "children": [
		{"kind": "text", "style": {}, "children": [
			{"kind": "link", "url": "https://example.com", "children": "ref"},
			{"kind": "bullet", "options": {"type": "number"}, "children": "item"},
			{"kind": "br"}
		]}
	]}]}`
	p, err := ParseJSON([]byte(doc))
	require.NoError(t, err)

	children := p.Children[0].(*schemas.Slide).Children[0].(*schemas.Text).Children.([]any)
	require.Len(t, children, 3)

	link := children[0].(*schemas.Link)
	assert.Equal(t, "https://example.com", link.URL)

	bullet := children[1].(*schemas.BulletGroup)
	assert.Equal(t, "number", bullet.Options["type"])

	_, isBreak := children[2].(*schemas.HardBreak)
	assert.True(t, isBreak)
}

func TestParseJSON_DefaultLayout(t *testing.T) {
	p, err := ParseJSON([]byte(`{"children": []}`))
	require.NoError(t, err)
	assert.Equal(t, schemas.Layout16x9, p.Layout.Name)
}

func TestParseJSON_Invalid(t *testing.T) {
	_, err := ParseJSON([]byte("{not json"))
	assert.Error(t, err)
}

func TestLoadJSON_Reader(t *testing.T) {
	p, err := LoadJSON(strings.NewReader(`{"layout": {"width": 12, "height": 9}, "children": []}`))
	require.NoError(t, err)
	assert.Equal(t, 12.0, p.Layout.Width)
	assert.Equal(t, 9.0, p.Layout.Height)
}
