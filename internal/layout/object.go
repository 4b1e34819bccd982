package layout

import (
	"fmt"

	"github.com/deckforge/deckforge/api/schemas"
	"github.com/deckforge/deckforge/internal/style"
	"github.com/deckforge/deckforge/internal/text"
)

// fullSize is the default for unset width/height coordinates.
var fullSize = schemas.Str("100%")

// normalizeObject dispatches exhaustively over the closed SlideObject union.
// Containers and flex boxes flatten into their normalized children; every
// other kind yields exactly one normalized object.
func (e *Engine) normalizeObject(obj schemas.SlideObject, f frame) ([]schemas.NormalizedObject, error) {
	switch o := obj.(type) {
	case *schemas.Container:
		objs, _, err := e.normalizeContainer(o, f)
		return objs, err
	case *schemas.Flex:
		return e.normalizeFlex(o, f)
	case *schemas.Text:
		if o.Style == nil {
			return nil, &schemas.MissingStyleError{NodeKind: schemas.KindText}
		}
		fr, err := resolveFrame(o.Style.X, o.Style.Y, o.Style.W, o.Style.H, f)
		if err != nil {
			return nil, err
		}
		t, err := e.buildText(o.Style, o.Children, fr)
		if err != nil {
			return nil, err
		}
		return []schemas.NormalizedObject{t}, nil
	case *schemas.TableCell:
		cell, err := e.normalizeCell(o, f)
		if err != nil {
			return nil, err
		}
		return []schemas.NormalizedObject{cell}, nil
	case *schemas.Image:
		img, err := e.normalizeImage(o, f)
		if err != nil {
			return nil, err
		}
		return []schemas.NormalizedObject{img}, nil
	case *schemas.Shape:
		s, err := e.normalizeShape(o, f)
		if err != nil {
			return nil, err
		}
		return []schemas.NormalizedObject{s}, nil
	case *schemas.Table:
		tbl, err := e.normalizeTable(o, f)
		if err != nil {
			return nil, err
		}
		return []schemas.NormalizedObject{tbl}, nil
	case *schemas.Line:
		l, err := e.normalizeLine(o, f)
		if err != nil {
			return nil, err
		}
		return []schemas.NormalizedObject{l}, nil
	}
	return nil, &schemas.UnknownNodeKindError{NodeKind: fmt.Sprintf("%T", obj)}
}

// resolveFrame resolves an authored x/y/w/h against a parent frame. Unset
// positions default to the frame origin, unset sizes to the full frame. The
// resolved size never exceeds the parent's remaining inner box.
func resolveFrame(x, y, w, h schemas.Coord, f frame) (schemas.Frame, error) {
	relX, err := style.NormalizePosition(x, schemas.Inches(0), f.W)
	if err != nil {
		return schemas.Frame{}, err
	}
	relY, err := style.NormalizePosition(y, schemas.Inches(0), f.H)
	if err != nil {
		return schemas.Frame{}, err
	}
	width, err := style.NormalizePosition(w, fullSize, f.W)
	if err != nil {
		return schemas.Frame{}, err
	}
	height, err := style.NormalizePosition(h, fullSize, f.H)
	if err != nil {
		return schemas.Frame{}, err
	}

	absX := f.X + relX
	absY := f.Y + relY
	width = clampExtent(width, f.X+f.W-absX)
	height = clampExtent(height, f.Y+f.H-absY)
	return schemas.Frame{X: absX, Y: absY, W: width, H: height}, nil
}

func clampExtent(v, limit float64) float64 {
	if v > limit {
		v = limit
	}
	if v < 0 {
		return 0
	}
	return v
}

// buildText assembles a normalized text block in an already-resolved frame.
func (e *Engine) buildText(st *schemas.TextStyle, children any, fr schemas.Frame) (*schemas.NormalizedText, error) {
	runs, err := text.Flatten(children)
	if err != nil {
		return nil, err
	}

	// Block-level emphasis cascades onto the runs as defaults, same as an
	// enclosing span would.
	blockDefaults := schemas.RunStyle{}
	if st.Bold {
		v := true
		blockDefaults.Bold = &v
	}
	if st.Italic {
		v := true
		blockDefaults.Italic = &v
	}
	if st.Underline {
		v := true
		blockDefaults.Underline = &v
	}
	for i := range runs {
		runs[i].Style.ApplyDefaults(blockDefaults)
	}

	out := &schemas.NormalizedText{
		Frame:         fr,
		Runs:          runs,
		FontFace:      st.FontFace,
		FontSize:      e.fontSize,
		Align:         st.Align,
		VerticalAlign: st.VerticalAlign,
	}
	if out.FontFace == "" {
		out.FontFace = e.fontFace
	}
	if st.FontSize != nil {
		out.FontSize = *st.FontSize
	}
	if st.Color != "" {
		c, err := style.ResolveColor(st.Color)
		if err != nil {
			return nil, err
		}
		out.Color = &c
	}
	if st.BackgroundColor != "" {
		c, err := style.ResolveColor(st.BackgroundColor)
		if err != nil {
			return nil, err
		}
		out.Background = &c
	}
	margin, err := style.ExpandBox(st.Margin)
	if err != nil {
		return nil, err
	}
	out.Margin = margin
	return out, nil
}

func (e *Engine) normalizeCell(o *schemas.TableCell, f frame) (*schemas.NormalizedTableCell, error) {
	if o.Style == nil {
		return nil, &schemas.MissingStyleError{NodeKind: schemas.KindTableCell}
	}
	fr, err := resolveFrame(o.Style.X, o.Style.Y, o.Style.W, o.Style.H, f)
	if err != nil {
		return nil, err
	}
	t, err := e.buildText(o.Style, o.Children, fr)
	if err != nil {
		return nil, err
	}
	return &schemas.NormalizedTableCell{
		NormalizedText: *t,
		ColSpan:        o.ColSpan,
		RowSpan:        o.RowSpan,
	}, nil
}

func (e *Engine) normalizeImage(o *schemas.Image, f frame) (*schemas.NormalizedImage, error) {
	if o.Style == nil {
		return nil, &schemas.MissingStyleError{NodeKind: schemas.KindImage}
	}
	fr, err := resolveFrame(o.Style.X, o.Style.Y, o.Style.W, o.Style.H, f)
	if err != nil {
		return nil, err
	}
	return e.buildImage(o, fr), nil
}

// buildImage assembles a normalized image in an already-resolved frame.
func (e *Engine) buildImage(o *schemas.Image, fr schemas.Frame) *schemas.NormalizedImage {
	out := &schemas.NormalizedImage{Frame: fr, Source: o.Source}
	if o.Sizing != nil {
		sizing := *o.Sizing
		out.Sizing = &sizing
	}
	return out
}

func (e *Engine) normalizeShape(o *schemas.Shape, f frame) (*schemas.NormalizedShape, error) {
	if o.Style == nil {
		return nil, &schemas.MissingStyleError{NodeKind: schemas.KindShape}
	}
	fr, err := resolveFrame(o.Style.X, o.Style.Y, o.Style.W, o.Style.H, f)
	if err != nil {
		return nil, err
	}
	return e.buildShape(o, fr)
}

// buildShape assembles a normalized shape in an already-resolved frame.
func (e *Engine) buildShape(o *schemas.Shape, fr schemas.Frame) (*schemas.NormalizedShape, error) {
	shapeType := o.Type
	if shapeType == "" {
		shapeType = "rect"
	}
	out := &schemas.NormalizedShape{
		Frame:       fr,
		Type:        shapeType,
		BorderWidth: o.Style.BorderWidth,
	}

	if o.Children != nil {
		runs, err := text.Flatten(o.Children)
		if err != nil {
			return nil, err
		}
		out.Runs = runs
	}
	if o.Style.BackgroundColor != "" {
		c, err := style.ResolveColor(o.Style.BackgroundColor)
		if err != nil {
			return nil, err
		}
		out.Background = &c
	}
	if o.Style.BorderColor != "" {
		c, err := style.ResolveColor(o.Style.BorderColor)
		if err != nil {
			return nil, err
		}
		out.BorderColor = &c
	}
	return out, nil
}

// normalizeLine offsets the absolute endpoints by the enclosing box origin.
// Percentage coordinates are not supported for lines.
func (e *Engine) normalizeLine(o *schemas.Line, f frame) (*schemas.NormalizedLine, error) {
	if o.Style == nil {
		return nil, &schemas.MissingStyleError{NodeKind: schemas.KindLine}
	}
	out := &schemas.NormalizedLine{
		X1:    o.Style.X1 + f.OriginX,
		Y1:    o.Style.Y1 + f.OriginY,
		X2:    o.Style.X2 + f.OriginX,
		Y2:    o.Style.Y2 + f.OriginY,
		Width: 1,
	}
	if o.Style.Width != nil {
		out.Width = *o.Style.Width
	}
	if o.Style.Color != "" {
		c, err := style.ResolveColor(o.Style.Color)
		if err != nil {
			return nil, err
		}
		out.Color = &c
	}
	return out, nil
}
