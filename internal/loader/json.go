// Package loader turns serialized decks (JSON or XML) into the typed input
// model. Everything schema-shaped is validated here, at the boundary, so the
// normalizer can dispatch over a closed union.
package loader

import (
	"fmt"
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/deckforge/deckforge/api/schemas"
	"github.com/deckforge/deckforge/internal/observability"
	"github.com/deckforge/deckforge/internal/text"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoadJSON reads a JSON deck document from r.
func LoadJSON(r io.Reader) (*schemas.Presentation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}
	return ParseJSON(data)
}

// ParseJSON decodes a JSON deck document into the input model.
func ParseJSON(data []byte) (*schemas.Presentation, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding deck JSON: %w", err)
	}
	return decodePresentation(raw)
}

func decodePresentation(m map[string]any) (*schemas.Presentation, error) {
	p := &schemas.Presentation{}

	if layout, ok := m["layout"]; ok {
		switch v := layout.(type) {
		case string:
			p.Layout.Name = v
		case map[string]any:
			p.Layout.Name = getString(v, "name")
			p.Layout.Width = getFloat(v, "width")
			p.Layout.Height = getFloat(v, "height")
		default:
			return nil, fmt.Errorf("layout must be a name or an object, got %T", layout)
		}
	} else {
		p.Layout.Name = schemas.Layout16x9
	}

	if meta, ok := m["meta"].(map[string]any); ok {
		p.Meta = schemas.Metadata{
			Title:   getString(meta, "title"),
			Author:  getString(meta, "author"),
			Subject: getString(meta, "subject"),
			Company: getString(meta, "company"),
		}
	}

	children, _ := m["children"].([]any)
	for i, child := range children {
		node, ok := child.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("presentation child %d: expected an object, got %T", i, child)
		}
		decoded, err := decodeDeckChild(node)
		if err != nil {
			return nil, fmt.Errorf("presentation child %d: %w", i, err)
		}
		p.Children = append(p.Children, decoded)
	}
	return p, nil
}

func decodeDeckChild(m map[string]any) (schemas.DeckChild, error) {
	switch kind := getString(m, "kind"); kind {
	case "", string(schemas.KindSlide):
		return decodeSlide(m)
	case string(schemas.KindMasterSlide):
		return decodeMaster(m)
	default:
		return nil, &schemas.UnknownNodeKindError{NodeKind: kind}
	}
}

func decodeSlide(m map[string]any) (*schemas.Slide, error) {
	s := &schemas.Slide{
		BackgroundColor: getString(m, "backgroundColor"),
		Hidden:          getBool(m, "hidden"),
		Notes:           getString(m, "notes"),
		MasterName:      getString(m, "master"),
	}
	if img, ok := m["backgroundImage"].(map[string]any); ok {
		s.BackgroundImage = decodeImageSource(img)
	}
	objs, err := decodeSlideObjects(m["children"])
	if err != nil {
		return nil, err
	}
	s.Children = objs
	return s, nil
}

func decodeMaster(m map[string]any) (*schemas.MasterSlide, error) {
	ms := &schemas.MasterSlide{
		Name:            getString(m, "name"),
		BackgroundColor: getString(m, "backgroundColor"),
	}
	if img, ok := m["backgroundImage"].(map[string]any); ok {
		ms.BackgroundImage = decodeImageSource(img)
	}
	objs, err := decodeSlideObjects(m["children"])
	if err != nil {
		return nil, err
	}
	ms.Children = objs
	return ms, nil
}

// decodeSlideObjects decodes a children array. Bare strings and numbers are
// legacy noise and are dropped here with a debug log; the normalizer itself
// only ever sees typed objects.
func decodeSlideObjects(v any) ([]schemas.SlideObject, error) {
	entries, _ := v.([]any)
	var out []schemas.SlideObject
	for i, entry := range entries {
		node, ok := entry.(map[string]any)
		if !ok {
			observability.GetLogger().Named("loader").Debug("dropping untyped slide child",
				zap.Int("index", i),
				zap.String("type", fmt.Sprintf("%T", entry)))
			continue
		}
		obj, err := decodeSlideObject(node)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		out = append(out, obj)
	}
	return out, nil
}

func decodeSlideObject(m map[string]any) (schemas.SlideObject, error) {
	style, _ := m["style"].(map[string]any)

	switch kind := getString(m, "kind"); kind {
	case string(schemas.KindContainer):
		children, err := decodeSlideObjects(m["children"])
		if err != nil {
			return nil, err
		}
		cs, err := decodeContainerStyle(style)
		if err != nil {
			return nil, err
		}
		return &schemas.Container{Style: cs, Children: children}, nil

	case string(schemas.KindFlex):
		children, err := decodeSlideObjects(m["children"])
		if err != nil {
			return nil, err
		}
		cs, err := decodeContainerStyle(style)
		if err != nil {
			return nil, err
		}
		fs := &schemas.FlexStyle{ContainerStyle: *cs}
		if style != nil {
			fs.Direction = schemas.FlexDirection(getString(style, "direction"))
			fs.Gap = getFloat(style, "gap")
			fs.AlignItems = schemas.FlexAlign(getString(style, "alignItems"))
		}
		return &schemas.Flex{Style: fs, Children: children}, nil

	case string(schemas.KindText):
		ts, err := decodeTextStyle(style)
		if err != nil {
			return nil, err
		}
		children, err := decodeTextChildren(m)
		if err != nil {
			return nil, err
		}
		return &schemas.Text{Style: ts, Children: children}, nil

	case string(schemas.KindTableCell):
		ts, err := decodeTextStyle(style)
		if err != nil {
			return nil, err
		}
		children, err := decodeTextChildren(m)
		if err != nil {
			return nil, err
		}
		return &schemas.TableCell{
			Style:    ts,
			Children: children,
			ColSpan:  int(getFloat(m, "colSpan")),
			RowSpan:  int(getFloat(m, "rowSpan")),
		}, nil

	case string(schemas.KindTable):
		return decodeTable(m, style)

	case string(schemas.KindImage):
		img := &schemas.Image{Style: &schemas.ImageStyle{}}
		if style != nil {
			img.Style.X = decodeCoord(style["x"])
			img.Style.Y = decodeCoord(style["y"])
			img.Style.W = decodeCoord(style["w"])
			img.Style.H = decodeCoord(style["h"])
		} else {
			img.Style = nil
		}
		if src, ok := m["source"].(map[string]any); ok {
			img.Source = *decodeImageSource(src)
		}
		if sizing, ok := m["sizing"].(map[string]any); ok {
			img.Sizing = decodeImageSizing(sizing)
		}
		return img, nil

	case string(schemas.KindShape):
		var ss *schemas.ShapeStyle
		if style != nil {
			ss = &schemas.ShapeStyle{
				X: decodeCoord(style["x"]), Y: decodeCoord(style["y"]),
				W: decodeCoord(style["w"]), H: decodeCoord(style["h"]),
				BackgroundColor: getString(style, "backgroundColor"),
				BorderColor:     getString(style, "borderColor"),
				BorderWidth:     getFloat(style, "borderWidth"),
			}
		}
		children, err := decodeTextChildren(m)
		if err != nil {
			return nil, err
		}
		return &schemas.Shape{Style: ss, Type: getString(m, "type"), Children: children}, nil

	case string(schemas.KindLine):
		var ls *schemas.LineStyle
		if style != nil {
			ls = &schemas.LineStyle{
				X1: getFloat(style, "x1"), Y1: getFloat(style, "y1"),
				X2: getFloat(style, "x2"), Y2: getFloat(style, "y2"),
				Color: getString(style, "color"),
			}
			if w, ok := style["width"].(float64); ok {
				ls.Width = &w
			}
		}
		return &schemas.Line{Style: ls}, nil

	default:
		return nil, &schemas.UnknownNodeKindError{NodeKind: kind}
	}
}

func decodeContainerStyle(style map[string]any) (*schemas.ContainerStyle, error) {
	if style == nil {
		return nil, nil
	}
	cs := &schemas.ContainerStyle{
		X: decodeCoord(style["x"]), Y: decodeCoord(style["y"]),
		W: decodeCoord(style["w"]), H: decodeCoord(style["h"]),
		BackgroundColor: getString(style, "backgroundColor"),
		BorderColor:     getString(style, "borderColor"),
		BorderWidth:     getFloat(style, "borderWidth"),
	}
	var err error
	if cs.Margin, err = decodeBox(style["margin"]); err != nil {
		return nil, err
	}
	if cs.Padding, err = decodeBox(style["padding"]); err != nil {
		return nil, err
	}
	return cs, nil
}

func decodeTextStyle(style map[string]any) (*schemas.TextStyle, error) {
	if style == nil {
		return nil, nil
	}
	ts := &schemas.TextStyle{
		X: decodeCoord(style["x"]), Y: decodeCoord(style["y"]),
		W: decodeCoord(style["w"]), H: decodeCoord(style["h"]),
		Color:           getString(style, "color"),
		BackgroundColor: getString(style, "backgroundColor"),
		FontFace:        getString(style, "fontFace"),
		Bold:            getBool(style, "bold"),
		Italic:          getBool(style, "italic"),
		Underline:       getBool(style, "underline"),
		Align:           getString(style, "align"),
		VerticalAlign:   getString(style, "verticalAlign"),
	}
	if size, ok := style["fontSize"].(float64); ok {
		ts.FontSize = &size
	}
	var err error
	if ts.Margin, err = decodeBox(style["margin"]); err != nil {
		return nil, err
	}
	return ts, nil
}

// decodeTextChildren picks the text content off a node: a "markup" string is
// parsed through the inline markup front-end, otherwise the raw "children"
// value passes through to the flattener.
func decodeTextChildren(m map[string]any) (any, error) {
	if markup, ok := m["markup"].(string); ok {
		return text.ParseMarkup(markup)
	}
	return decodeInline(m["children"])
}

// decodeInline rewrites typed inline objects (span/link/bullet/br) into their
// model types, leaving leaves and sequences alone. Unsupported values pass
// through untouched so the flattener reports them.
func decodeInline(v any) (any, error) {
	switch node := v.(type) {
	case []any:
		out := make([]any, 0, len(node))
		for _, entry := range node {
			decoded, err := decodeInline(entry)
			if err != nil {
				return nil, err
			}
			out = append(out, decoded)
		}
		return out, nil
	case map[string]any:
		return decodeInlineNode(node)
	default:
		return v, nil
	}
}

func decodeInlineNode(m map[string]any) (any, error) {
	children, err := decodeInline(m["children"])
	if err != nil {
		return nil, err
	}

	switch kind := getString(m, "kind"); kind {
	case "span":
		style := schemas.SpanStyle{Color: getString(m, "color")}
		if v, ok := m["bold"].(bool); ok {
			style.Bold = &v
		}
		if v, ok := m["italic"].(bool); ok {
			style.Italic = &v
		}
		if v, ok := m["underline"].(bool); ok {
			style.Underline = &v
		}
		if v, ok := m["strike"].(bool); ok {
			style.Strike = &v
		}
		if v, ok := m["fontFace"].(string); ok {
			style.FontFace = &v
		}
		if v, ok := m["fontSize"].(float64); ok {
			style.FontSize = &v
		}
		return &schemas.Span{Style: style, Children: children}, nil
	case "link":
		return &schemas.Link{
			URL:      getString(m, "url"),
			Slide:    int(getFloat(m, "slide")),
			Tooltip:  getString(m, "tooltip"),
			Children: children,
		}, nil
	case "bullet":
		options, _ := m["options"].(map[string]any)
		return &schemas.BulletGroup{Options: options, Children: children}, nil
	case "br":
		return &schemas.HardBreak{}, nil
	default:
		// Not an inline node; the flattener rejects it with full context.
		return m, nil
	}
}

func decodeTable(m, style map[string]any) (*schemas.Table, error) {
	var ts *schemas.TableStyle
	if style != nil {
		ts = &schemas.TableStyle{
			X: decodeCoord(style["x"]), Y: decodeCoord(style["y"]),
			W: decodeCoord(style["w"]), H: decodeCoord(style["h"]),
			BorderColor: getString(style, "borderColor"),
			BorderWidth: getFloat(style, "borderWidth"),
		}
		var err error
		if ts.Margin, err = decodeBox(style["margin"]); err != nil {
			return nil, err
		}
	}

	tbl := &schemas.Table{Style: ts}
	rows, _ := m["rows"].([]any)
	for i, rowVal := range rows {
		row, ok := rowVal.([]any)
		if !ok {
			return nil, fmt.Errorf("table row %d: expected an array, got %T", i, rowVal)
		}
		cells := make([]any, 0, len(row))
		for _, cellVal := range row {
			switch cell := cellVal.(type) {
			case string:
				cells = append(cells, cell)
			case map[string]any:
				decoded, err := decodeSlideObject(withKind(cell, string(schemas.KindTableCell)))
				if err != nil {
					return nil, fmt.Errorf("table row %d: %w", i, err)
				}
				cells = append(cells, decoded)
			default:
				cells = append(cells, cellVal)
			}
		}
		tbl.Rows = append(tbl.Rows, cells)
	}
	return tbl, nil
}

// withKind defaults the kind tag on a cell object without mutating the input.
func withKind(m map[string]any, kind string) map[string]any {
	if _, ok := m["kind"]; ok {
		return m
	}
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out["kind"] = kind
	return out
}

func decodeImageSource(m map[string]any) *schemas.ImageSource {
	return &schemas.ImageSource{
		Kind: schemas.ImageSourceKind(getString(m, "kind")),
		Path: getString(m, "path"),
		Data: getString(m, "data"),
	}
}

func decodeImageSizing(m map[string]any) *schemas.ImageSizing {
	s := &schemas.ImageSizing{Fit: getString(m, "fit")}
	if v, ok := m["imageWidth"].(float64); ok {
		s.ImageWidth = &v
	}
	if v, ok := m["imageHeight"].(float64); ok {
		s.ImageHeight = &v
	}
	return s
}

// decodeCoord keeps the authored form: numbers stay numbers, strings stay
// strings for the coordinate resolver to validate.
func decodeCoord(v any) schemas.Coord {
	switch c := v.(type) {
	case float64:
		return schemas.Inches(c)
	case string:
		return schemas.Str(c)
	default:
		return schemas.Coord{}
	}
}

func decodeBox(v any) (schemas.Box, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return schemas.Box{b}, nil
	case []any:
		out := make(schemas.Box, 0, len(b))
		for _, entry := range b {
			f, ok := entry.(float64)
			if !ok {
				return nil, &schemas.InvalidPositionError{Value: fmt.Sprintf("%v", entry)}
			}
			out = append(out, f)
		}
		return out, nil
	default:
		return nil, &schemas.InvalidPositionError{Value: fmt.Sprintf("%v", v)}
	}
}

func getString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func getBool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func getFloat(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
