// Package render defines the boundary between the normalized tree and
// whatever consumes it. The engine guarantees paint order equals array order;
// renderers just walk the slices.
package render

import (
	"fmt"
	"strings"

	"github.com/deckforge/deckforge/api/schemas"
)

// Renderer consumes a normalized presentation.
type Renderer interface {
	Render(p *schemas.NormalizedPresentation) error
}

// Op is one entry in a trace: what would be painted, where, in order.
type Op struct {
	Slide int           `json:"slide"`
	Kind  string        `json:"kind"`
	Frame schemas.Frame `json:"frame"`
	Label string        `json:"label,omitempty"`
}

// TraceRenderer records the draw operations instead of painting. Tests and
// the CLI's trace output use it to inspect paint order.
type TraceRenderer struct {
	Ops []Op
}

var _ Renderer = (*TraceRenderer)(nil)

// Render walks every slide in order: background, master objects, then the
// slide's own objects exactly as the engine emitted them.
func (t *TraceRenderer) Render(p *schemas.NormalizedPresentation) error {
	if p == nil {
		return fmt.Errorf("nil presentation")
	}

	full := schemas.Frame{W: p.Layout.Width, H: p.Layout.Height}
	for i, slide := range p.Slides {
		if slide.Hidden {
			continue
		}
		if slide.Background != nil {
			t.Ops = append(t.Ops, Op{Slide: i, Kind: "background", Frame: full, Label: backgroundLabel(slide.Background)})
		}
		if slide.MasterName != "" {
			master, ok := p.Masters[slide.MasterName]
			if !ok {
				return fmt.Errorf("slide %d references unknown master %q", i, slide.MasterName)
			}
			if master.Background != nil && slide.Background == nil {
				t.Ops = append(t.Ops, Op{Slide: i, Kind: "background", Frame: full, Label: backgroundLabel(master.Background)})
			}
			t.appendObjects(i, master.Objects)
		}
		t.appendObjects(i, slide.Objects)
	}
	return nil
}

func (t *TraceRenderer) appendObjects(slide int, objs []schemas.NormalizedObject) {
	for _, obj := range objs {
		t.Ops = append(t.Ops, opFor(slide, obj))
	}
}

func opFor(slide int, obj schemas.NormalizedObject) Op {
	switch o := obj.(type) {
	case *schemas.NormalizedText:
		return Op{Slide: slide, Kind: "text", Frame: o.Frame, Label: runsLabel(o.Runs)}
	case *schemas.NormalizedTableCell:
		return Op{Slide: slide, Kind: "tablecell", Frame: o.Frame, Label: runsLabel(o.Runs)}
	case *schemas.NormalizedShape:
		return Op{Slide: slide, Kind: "shape", Frame: o.Frame, Label: o.Type}
	case *schemas.NormalizedImage:
		return Op{Slide: slide, Kind: "image", Frame: o.Frame, Label: o.Source.Path}
	case *schemas.NormalizedTable:
		return Op{Slide: slide, Kind: "table", Frame: o.Frame, Label: fmt.Sprintf("%d rows", len(o.Rows))}
	case *schemas.NormalizedLine:
		return Op{
			Slide: slide,
			Kind:  "line",
			Frame: schemas.Frame{X: o.X1, Y: o.Y1, W: o.X2 - o.X1, H: o.Y2 - o.Y1},
		}
	}
	return Op{Slide: slide, Kind: string(obj.Kind())}
}

func runsLabel(runs []schemas.TextRun) string {
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(run.Text)
	}
	return b.String()
}

func backgroundLabel(bg *schemas.Background) string {
	if bg.Color != nil {
		return bg.Color.Hex
	}
	if bg.Image != nil {
		return bg.Image.Path
	}
	return ""
}
