package layout

import (
	"github.com/deckforge/deckforge/api/schemas"
	"github.com/deckforge/deckforge/internal/style"
)

// normalizeFlex places the children one after another along the main axis,
// separated by the gap, then appends the decoration rectangle like a plain
// container. Each child is assigned a slot box and normalized against it, so
// a nested container or flex fills its slot by default.
func (e *Engine) normalizeFlex(o *schemas.Flex, f frame) ([]schemas.NormalizedObject, error) {
	if o.Style == nil {
		return nil, &schemas.MissingStyleError{NodeKind: schemas.KindFlex}
	}

	cb, err := resolveContainerBox(&o.Style.ContainerStyle, f)
	if err != nil {
		return nil, err
	}
	inner := cb.inner

	row := o.Style.Direction != schemas.FlexColumn
	mainDim, crossDim := inner.W, inner.H
	if !row {
		mainDim, crossDim = inner.H, inner.W
	}

	var out []schemas.NormalizedObject
	cursor := 0.0
	for _, child := range o.Children {
		if child.Kind() == schemas.KindLine {
			return nil, &schemas.UnsupportedNodeError{NodeKind: schemas.KindLine, Context: "flex"}
		}

		wCoord, hCoord, err := childExtents(child)
		if err != nil {
			return nil, err
		}
		mainCoord, crossCoord := wCoord, hCoord
		if !row {
			mainCoord, crossCoord = hCoord, wCoord
		}

		mainSize, err := style.NormalizePosition(mainCoord, fullSize, mainDim)
		if err != nil {
			return nil, err
		}
		mainSize = clampExtent(mainSize, mainDim-cursor)

		crossSize, err := style.NormalizePosition(crossCoord, fullSize, crossDim)
		if err != nil {
			return nil, err
		}
		crossSize = clampExtent(crossSize, crossDim)

		crossOffset := 0.0
		switch o.Style.AlignItems {
		case schemas.AlignCenter:
			crossOffset = (crossDim - crossSize) / 2
		case schemas.AlignEnd:
			crossOffset = crossDim - crossSize
		case schemas.AlignStretch:
			if !crossCoord.IsSet() {
				crossSize = crossDim
			}
		}

		slot := frame{W: mainSize, H: crossSize}
		if row {
			slot.X = inner.X + cursor
			slot.Y = inner.Y + crossOffset
		} else {
			slot.X = inner.X + crossOffset
			slot.Y = inner.Y + cursor
			slot.W, slot.H = crossSize, mainSize
		}
		slot.OriginX, slot.OriginY = slot.X, slot.Y

		objs, err := e.placeFlexChild(child, slot)
		if err != nil {
			return nil, err
		}
		out = append(out, objs...)

		cursor += mainSize + o.Style.Gap
	}

	rect, err := decorationRect(&o.Style.ContainerStyle, cb.box)
	if err != nil {
		return nil, err
	}
	if rect != nil {
		out = append(out, rect)
	}
	return out, nil
}

// placeFlexChild realizes one child inside its assigned slot. The slot
// already consumed the child's authored size, so leaves take the slot frame
// as-is and nested containers are resolved with their own geometry cleared.
// Re-resolving a percentage against the slot would shrink the child twice.
func (e *Engine) placeFlexChild(child schemas.SlideObject, slot frame) ([]schemas.NormalizedObject, error) {
	fr := schemas.Frame{X: slot.X, Y: slot.Y, W: slot.W, H: slot.H}

	switch o := child.(type) {
	case *schemas.Container:
		st := *o.Style
		st.X, st.Y, st.W, st.H = schemas.Coord{}, schemas.Coord{}, schemas.Coord{}, schemas.Coord{}
		objs, _, err := e.normalizeContainer(&schemas.Container{Style: &st, Children: o.Children}, slot)
		return objs, err
	case *schemas.Flex:
		st := *o.Style
		st.X, st.Y, st.W, st.H = schemas.Coord{}, schemas.Coord{}, schemas.Coord{}, schemas.Coord{}
		return e.normalizeFlex(&schemas.Flex{Style: &st, Children: o.Children}, slot)
	case *schemas.Text:
		t, err := e.buildText(o.Style, o.Children, fr)
		if err != nil {
			return nil, err
		}
		return []schemas.NormalizedObject{t}, nil
	case *schemas.TableCell:
		t, err := e.buildText(o.Style, o.Children, fr)
		if err != nil {
			return nil, err
		}
		cell := &schemas.NormalizedTableCell{NormalizedText: *t, ColSpan: o.ColSpan, RowSpan: o.RowSpan}
		return []schemas.NormalizedObject{cell}, nil
	case *schemas.Image:
		return []schemas.NormalizedObject{e.buildImage(o, fr)}, nil
	case *schemas.Shape:
		s, err := e.buildShape(o, fr)
		if err != nil {
			return nil, err
		}
		return []schemas.NormalizedObject{s}, nil
	case *schemas.Table:
		tbl, err := e.buildTable(o, fr)
		if err != nil {
			return nil, err
		}
		return []schemas.NormalizedObject{tbl}, nil
	}
	return nil, &schemas.UnknownNodeKindError{NodeKind: string(child.Kind())}
}

// childExtents pulls the authored width/height off any slide object so the
// flex pass can size its slot before the child resolves itself.
func childExtents(obj schemas.SlideObject) (w, h schemas.Coord, err error) {
	switch o := obj.(type) {
	case *schemas.Container:
		if o.Style == nil {
			return w, h, &schemas.MissingStyleError{NodeKind: schemas.KindContainer}
		}
		return o.Style.W, o.Style.H, nil
	case *schemas.Flex:
		if o.Style == nil {
			return w, h, &schemas.MissingStyleError{NodeKind: schemas.KindFlex}
		}
		return o.Style.W, o.Style.H, nil
	case *schemas.Text:
		if o.Style == nil {
			return w, h, &schemas.MissingStyleError{NodeKind: schemas.KindText}
		}
		return o.Style.W, o.Style.H, nil
	case *schemas.TableCell:
		if o.Style == nil {
			return w, h, &schemas.MissingStyleError{NodeKind: schemas.KindTableCell}
		}
		return o.Style.W, o.Style.H, nil
	case *schemas.Image:
		if o.Style == nil {
			return w, h, &schemas.MissingStyleError{NodeKind: schemas.KindImage}
		}
		return o.Style.W, o.Style.H, nil
	case *schemas.Shape:
		if o.Style == nil {
			return w, h, &schemas.MissingStyleError{NodeKind: schemas.KindShape}
		}
		return o.Style.W, o.Style.H, nil
	case *schemas.Table:
		if o.Style == nil {
			return w, h, &schemas.MissingStyleError{NodeKind: schemas.KindTable}
		}
		return o.Style.W, o.Style.H, nil
	}
	return w, h, &schemas.UnknownNodeKindError{NodeKind: string(obj.Kind())}
}
