package layout

import (
	"github.com/deckforge/deckforge/api/schemas"
	"github.com/deckforge/deckforge/internal/style"
)

func (e *Engine) normalizeTable(o *schemas.Table, f frame) (*schemas.NormalizedTable, error) {
	if o.Style == nil {
		return nil, &schemas.MissingStyleError{NodeKind: schemas.KindTable}
	}
	fr, err := resolveFrame(o.Style.X, o.Style.Y, o.Style.W, o.Style.H, f)
	if err != nil {
		return nil, err
	}
	return e.buildTable(o, fr)
}

// buildTable assembles a normalized table in an already-resolved frame. A
// bare string in a row is shorthand for a cell holding a single unstyled run;
// anything that is neither a string nor a table cell is rejected.
func (e *Engine) buildTable(o *schemas.Table, fr schemas.Frame) (*schemas.NormalizedTable, error) {
	out := &schemas.NormalizedTable{
		Frame:       fr,
		BorderWidth: o.Style.BorderWidth,
	}

	margin, err := style.ExpandBox(o.Style.Margin)
	if err != nil {
		return nil, err
	}
	out.Margin = margin

	if o.Style.BorderColor != "" {
		c, err := style.ResolveColor(o.Style.BorderColor)
		if err != nil {
			return nil, err
		}
		out.BorderColor = &c
	}

	cellFrame := frame{X: fr.X, Y: fr.Y, W: fr.W, H: fr.H, OriginX: fr.X, OriginY: fr.Y}
	for _, row := range o.Rows {
		cells := make([]*schemas.NormalizedTableCell, 0, len(row))
		for _, entry := range row {
			switch v := entry.(type) {
			case string:
				cells = append(cells, shorthandCell(v, e.fontFace, e.fontSize))
			case *schemas.TableCell:
				cell, err := e.normalizeCell(v, cellFrame)
				if err != nil {
					return nil, err
				}
				cells = append(cells, cell)
			default:
				return nil, &schemas.InvalidTextChildError{Value: entry}
			}
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, nil
}

// shorthandCell wraps a bare string into a cell with one zero-styled run.
// Row and column placement stays with the renderer, so the frame is empty.
func shorthandCell(text, fontFace string, fontSize float64) *schemas.NormalizedTableCell {
	return &schemas.NormalizedTableCell{
		NormalizedText: schemas.NormalizedText{
			Runs:     []schemas.TextRun{{Text: text}},
			FontFace: fontFace,
			FontSize: fontSize,
		},
	}
}
