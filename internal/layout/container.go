package layout

import (
	"github.com/deckforge/deckforge/api/schemas"
	"github.com/deckforge/deckforge/internal/style"
)

// containerBox is the resolved geometry of a container: the decorated outer
// box and the inner frame children resolve against.
type containerBox struct {
	box   schemas.Frame
	inner frame
}

// resolveContainerBox computes a container's outer box and inner content
// frame. The margin insets the box inside the authored rectangle, the padding
// insets the content inside the box, and the box is clamped so it never
// escapes the parent frame.
func resolveContainerBox(st *schemas.ContainerStyle, f frame) (containerBox, error) {
	margin, err := style.ExpandBox(st.Margin)
	if err != nil {
		return containerBox{}, err
	}
	padding, err := style.ExpandBox(st.Padding)
	if err != nil {
		return containerBox{}, err
	}

	relX, err := style.NormalizePosition(st.X, schemas.Inches(0), f.W)
	if err != nil {
		return containerBox{}, err
	}
	relY, err := style.NormalizePosition(st.Y, schemas.Inches(0), f.H)
	if err != nil {
		return containerBox{}, err
	}
	width, err := style.NormalizePosition(st.W, fullSize, f.W)
	if err != nil {
		return containerBox{}, err
	}
	height, err := style.NormalizePosition(st.H, fullSize, f.H)
	if err != nil {
		return containerBox{}, err
	}

	boxX := f.X + relX + margin[3]
	boxY := f.Y + relY + margin[0]
	boxW := clampExtent(width-margin[3]-margin[1], f.X+f.W-boxX)
	boxH := clampExtent(height-margin[0]-margin[2], f.Y+f.H-boxY)

	innerX := boxX + padding[3]
	innerY := boxY + padding[0]
	inner := frame{
		X:       innerX,
		Y:       innerY,
		W:       clampExtent(boxW-padding[3]-padding[1], boxW),
		H:       clampExtent(boxH-padding[0]-padding[2], boxH),
		OriginX: innerX,
		OriginY: innerY,
	}
	return containerBox{
		box:   schemas.Frame{X: boxX, Y: boxY, W: boxW, H: boxH},
		inner: inner,
	}, nil
}

// normalizeContainer resolves the container's box, recurses into the children
// against the inner frame, and appends the synthesized decoration rectangle.
// It returns the flattened children plus the resolved outer box.
func (e *Engine) normalizeContainer(o *schemas.Container, f frame) ([]schemas.NormalizedObject, schemas.Frame, error) {
	if o.Style == nil {
		return nil, schemas.Frame{}, &schemas.MissingStyleError{NodeKind: schemas.KindContainer}
	}

	cb, err := resolveContainerBox(o.Style, f)
	if err != nil {
		return nil, schemas.Frame{}, err
	}

	var out []schemas.NormalizedObject
	for _, child := range o.Children {
		objs, err := e.normalizeObject(child, cb.inner)
		if err != nil {
			return nil, schemas.Frame{}, err
		}
		out = append(out, objs...)
	}

	rect, err := decorationRect(o.Style, cb.box)
	if err != nil {
		return nil, schemas.Frame{}, err
	}
	if rect != nil {
		out = append(out, rect)
	}
	return out, cb.box, nil
}

// decorationRect synthesizes the container's background/border rectangle, or
// nil when the container is undecorated. The rectangle follows the children
// in the output list; downstream consumers rely on that array order.
func decorationRect(st *schemas.ContainerStyle, box schemas.Frame) (*schemas.NormalizedShape, error) {
	if st.BackgroundColor == "" && st.BorderColor == "" && st.BorderWidth == 0 {
		return nil, nil
	}
	rect := &schemas.NormalizedShape{
		Frame:       box,
		Type:        "rect",
		BorderWidth: st.BorderWidth,
	}
	if st.BackgroundColor != "" {
		c, err := style.ResolveColor(st.BackgroundColor)
		if err != nil {
			return nil, err
		}
		rect.Background = &c
	}
	if st.BorderColor != "" {
		c, err := style.ResolveColor(st.BorderColor)
		if err != nil {
			return nil, err
		}
		rect.BorderColor = &c
	}
	return rect, nil
}
