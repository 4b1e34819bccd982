package schemas

import (
	"fmt"
	"strconv"
	"strings"
)

// -- Node Kinds --

// Kind identifies a node in the declarative deck tree.
type Kind string

const (
	KindPresentation Kind = "presentation"
	KindSlide        Kind = "slide"
	KindMasterSlide  Kind = "master"
	KindContainer    Kind = "container"
	KindFlex         Kind = "flex"
	KindText         Kind = "text"
	KindTableCell    Kind = "tablecell"
	KindImage        Kind = "image"
	KindShape        Kind = "shape"
	KindTable        Kind = "table"
	KindLine         Kind = "line"
)

// -- Coordinates --

const (
	coordUnset = iota
	coordNumber
	coordString
)

// Coord is a coordinate value exactly as authored: absent, an absolute
// number of inches, or a raw string. Percentage strings are validated by the
// coordinate resolver at normalization time, not here, so a malformed value
// survives decoding and surfaces as an InvalidPositionError with the
// offending text intact.
type Coord struct {
	state int
	num   float64
	str   string
}

// Inches returns a Coord holding an absolute value in inches.
func Inches(v float64) Coord { return Coord{state: coordNumber, num: v} }

// Str returns a Coord holding a raw authored string (e.g. "50%").
func Str(s string) Coord { return Coord{state: coordString, str: s} }

// IsSet reports whether the coordinate was authored at all.
func (c Coord) IsSet() bool { return c.state != coordUnset }

// Number returns the numeric value and whether the Coord holds one.
func (c Coord) Number() (float64, bool) { return c.num, c.state == coordNumber }

// Raw returns the raw string value and whether the Coord holds one.
func (c Coord) Raw() (string, bool) { return c.str, c.state == coordString }

// String implements fmt.Stringer for error messages and logs.
func (c Coord) String() string {
	switch c.state {
	case coordNumber:
		return strconv.FormatFloat(c.num, 'g', -1, 64)
	case coordString:
		return c.str
	default:
		return "<unset>"
	}
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (c *Coord) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*c = Coord{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid coordinate string: %w", err)
		}
		*c = Str(unquoted)
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid coordinate %q: %w", s, err)
	}
	*c = Inches(v)
	return nil
}

// MarshalJSON emits the value as authored.
func (c Coord) MarshalJSON() ([]byte, error) {
	switch c.state {
	case coordNumber:
		return []byte(strconv.FormatFloat(c.num, 'g', -1, 64)), nil
	case coordString:
		return []byte(strconv.Quote(c.str)), nil
	default:
		return []byte("null"), nil
	}
}

// Box is an authored margin/padding shorthand: one value (all sides), two
// values ([vertical, horizontal]) or four values ([top, right, bottom,
// left]). The coordinate resolver expands it to a full TRBL tuple.
type Box []float64

// -- Slide Object Union --

// SlideObject is the closed union of positionable deck nodes. Every concrete
// type lives in this package; the normalizer dispatches exhaustively over
// Kind and rejects anything else.
type SlideObject interface {
	Kind() Kind
	slideObject()
}

// Container is a positioned box that establishes a new coordinate frame for
// its children.
type Container struct {
	Style    *ContainerStyle
	Children []SlideObject
}

// ContainerStyle positions a container and declares its decorations.
type ContainerStyle struct {
	X, Y, W, H      Coord
	Margin, Padding Box
	BackgroundColor string
	BorderColor     string
	BorderWidth     float64
}

// Flex is a container whose children are placed sequentially along one axis.
type Flex struct {
	Style    *FlexStyle
	Children []SlideObject
}

// FlexDirection selects the main axis of a flex container.
type FlexDirection string

const (
	FlexRow    FlexDirection = "row"
	FlexColumn FlexDirection = "column"
)

// FlexAlign is the cross-axis alignment of flex children.
type FlexAlign string

const (
	AlignStart   FlexAlign = "start"
	AlignCenter  FlexAlign = "center"
	AlignEnd     FlexAlign = "end"
	AlignStretch FlexAlign = "stretch"
)

// FlexStyle extends ContainerStyle with the single-axis flow settings.
type FlexStyle struct {
	ContainerStyle
	Direction  FlexDirection
	Gap        float64
	AlignItems FlexAlign
}

// Text is a positioned rich-text block. Children holds the authored text
// tree: a string, a number, a nested []any sequence, or inline markup nodes
// (Span, Link, BulletGroup).
type Text struct {
	Style    *TextStyle
	Children any
}

// TextStyle positions a text block and sets its block-level typography.
type TextStyle struct {
	X, Y, W, H      Coord
	Color           string
	BackgroundColor string
	FontFace        string
	FontSize        *float64
	Bold            bool
	Italic          bool
	Underline       bool
	Align           string
	VerticalAlign   string
	Margin          Box
}

// TableCell is a Text specialization with optional column/row spans.
type TableCell struct {
	Style    *TextStyle
	Children any
	ColSpan  int
	RowSpan  int
}

// Table is a positioned grid of cells. Each row entry is either a bare
// string (shorthand for a single-run cell) or a *TableCell.
type Table struct {
	Style *TableStyle
	Rows  [][]any
}

// TableStyle positions a table and declares its border.
type TableStyle struct {
	X, Y, W, H  Coord
	Margin      Box
	BorderColor string
	BorderWidth float64
}

// Image is a positioned image reference. The source descriptor and sizing
// directive pass through normalization untouched; resolving bytes is the
// asset resolver's job.
type Image struct {
	Style  *ImageStyle
	Source ImageSource
	Sizing *ImageSizing
}

// ImageStyle positions an image.
type ImageStyle struct {
	X, Y, W, H Coord
}

// ImageSourceKind discriminates inline data from path/URL sources.
type ImageSourceKind string

const (
	ImageSourcePath ImageSourceKind = "path"
	ImageSourceData ImageSourceKind = "data"
)

// ImageSource describes where image bytes come from.
type ImageSource struct {
	Kind ImageSourceKind `json:"kind"`
	Path string          `json:"path,omitempty"`
	Data string          `json:"data,omitempty"`
}

// ImageSizing is the optional fit directive carried through to the renderer.
type ImageSizing struct {
	Fit         string   `json:"fit"`
	ImageWidth  *float64 `json:"imageWidth,omitempty"`
	ImageHeight *float64 `json:"imageHeight,omitempty"`
}

// Shape is a positioned geometric shape with an optional embedded text block.
type Shape struct {
	Style    *ShapeStyle
	Type     string
	Children any
}

// ShapeStyle positions a shape and declares fill and border.
type ShapeStyle struct {
	X, Y, W, H      Coord
	BackgroundColor string
	BorderColor     string
	BorderWidth     float64
}

// Line is a straight segment between two absolute points. Percentage
// coordinates are not supported for lines.
type Line struct {
	Style *LineStyle
}

// LineStyle declares the endpoints and stroke of a line.
type LineStyle struct {
	X1, Y1, X2, Y2 float64
	Color          string
	Width          *float64
}

func (c *Container) Kind() Kind { return KindContainer }
func (f *Flex) Kind() Kind      { return KindFlex }
func (t *Text) Kind() Kind      { return KindText }
func (t *TableCell) Kind() Kind { return KindTableCell }
func (t *Table) Kind() Kind     { return KindTable }
func (i *Image) Kind() Kind     { return KindImage }
func (s *Shape) Kind() Kind     { return KindShape }
func (l *Line) Kind() Kind      { return KindLine }

func (c *Container) slideObject() {}
func (f *Flex) slideObject()      {}
func (t *Text) slideObject()      {}
func (t *TableCell) slideObject() {}
func (t *Table) slideObject()     {}
func (i *Image) slideObject()     {}
func (s *Shape) slideObject()     {}
func (l *Line) slideObject()      {}

// -- Inline Text Markup --

// InlineNode marks the rich-text markup elements accepted inside a text
// block alongside plain strings, numbers and nested sequences.
type InlineNode interface {
	inlineNode()
}

// SpanStyle is the partial style a span overlays onto its children. Nil
// fields are "not set"; a child's own value always wins over the span's.
type SpanStyle struct {
	Bold      *bool
	Italic    *bool
	Underline *bool
	Strike    *bool
	FontFace  *string
	FontSize  *float64
	Color     string
}

// Span is a styled run of inline children.
type Span struct {
	Style    SpanStyle
	Children any
}

// Link wraps inline children with a navigation target: an external URL or an
// intra-deck slide index (1-based), with an optional tooltip.
type Link struct {
	URL     string
	Slide   int
	Tooltip string
	Children any
}

// BulletGroup renders its children as one bulleted item. Options carries any
// non-child props authored on the bullet element; when empty the marker is a
// plain boolean.
type BulletGroup struct {
	Options  map[string]any
	Children any
}

// HardBreak forces a line break after the run that precedes it.
type HardBreak struct{}

func (s *Span) inlineNode()        {}
func (l *Link) inlineNode()        {}
func (b *BulletGroup) inlineNode() {}
func (h *HardBreak) inlineNode()   {}

// -- Slides and the Presentation Root --

// DeckChild is the closed union of direct presentation children.
type DeckChild interface {
	deckChild()
}

// Slide is one visible page of the deck.
type Slide struct {
	BackgroundColor string
	BackgroundImage *ImageSource
	Hidden          bool
	Notes           string
	MasterName      string
	Children        []SlideObject
}

// MasterSlide is a named template layer referenced by slides.
type MasterSlide struct {
	Name            string
	BackgroundColor string
	BackgroundImage *ImageSource
	Children        []SlideObject
}

func (s *Slide) deckChild()       {}
func (m *MasterSlide) deckChild() {}

// Named layout aspects, dimensions in inches.
const (
	Layout16x9  = "LAYOUT_16x9"
	Layout16x10 = "LAYOUT_16x10"
	Layout4x3   = "LAYOUT_4x3"
	LayoutWide  = "LAYOUT_WIDE"
)

// LayoutSpec is either a named aspect or a custom size in inches. A custom
// size takes effect when Name is empty.
type LayoutSpec struct {
	Name   string
	Width  float64
	Height float64
}

// Metadata carries the optional document strings copied verbatim into the
// normalized output.
type Metadata struct {
	Title   string `json:"title,omitempty"`
	Author  string `json:"author,omitempty"`
	Subject string `json:"subject,omitempty"`
	Company string `json:"company,omitempty"`
}

// Presentation is the root of the declarative tree.
type Presentation struct {
	Layout   LayoutSpec
	Children []DeckChild
	Meta     Metadata
}
