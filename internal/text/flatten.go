// Package text flattens nested rich-text markup into an ordered list of
// uniformly styled runs. It also parses an HTML-ish markup string form of
// the same tree (see markup.go).
package text

import (
	"strconv"

	"github.com/deckforge/deckforge/api/schemas"
	"github.com/deckforge/deckforge/internal/style"
)

// Flatten converts a text-children value into ordered runs. The input may be
// a string, a number, an arbitrarily nested sequence, or inline markup nodes
// (Span, Link, BulletGroup, HardBreak). Anything else fails with
// InvalidTextChildError.
//
// After flattening, if the run list mixes bulleted and non-bulleted runs,
// every non-hyperlink run without an explicit line-break flag defaults to a
// trailing break so bullet and plain runs stay on separate lines.
func Flatten(children any) ([]schemas.TextRun, error) {
	runs, err := flattenValue(children)
	if err != nil {
		return nil, err
	}
	applyMixedBulletBreaks(runs)
	return runs, nil
}

func flattenValue(v any) ([]schemas.TextRun, error) {
	switch c := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []schemas.TextRun{{Text: c}}, nil
	case int:
		return []schemas.TextRun{{Text: strconv.Itoa(c)}}, nil
	case int64:
		return []schemas.TextRun{{Text: strconv.FormatInt(c, 10)}}, nil
	case float64:
		return []schemas.TextRun{{Text: strconv.FormatFloat(c, 'f', -1, 64)}}, nil
	case []any:
		return flattenSequence(c)
	case []schemas.InlineNode:
		seq := make([]any, len(c))
		for i, n := range c {
			seq[i] = n
		}
		return flattenSequence(seq)
	case *schemas.Span:
		return flattenSpan(c)
	case *schemas.Link:
		return flattenLink(c)
	case *schemas.BulletGroup:
		return flattenBullet(c)
	case *schemas.HardBreak:
		// Handled positionally in flattenSequence; a lone break yields
		// nothing.
		return nil, nil
	}
	return nil, &schemas.InvalidTextChildError{Value: v}
}

func flattenSequence(seq []any) ([]schemas.TextRun, error) {
	var runs []schemas.TextRun
	for _, item := range seq {
		if _, isBreak := item.(*schemas.HardBreak); isBreak {
			if len(runs) > 0 {
				runs[len(runs)-1].LineBreakAfter = boolPtr(true)
			}
			continue
		}
		children, err := flattenValue(item)
		if err != nil {
			return nil, err
		}
		runs = append(runs, children...)
	}
	return runs, nil
}

// flattenSpan overlays the span's style onto every child run as defaults: a
// child's own style always wins on conflict.
func flattenSpan(s *schemas.Span) ([]schemas.TextRun, error) {
	runs, err := flattenValue(s.Children)
	if err != nil {
		return nil, err
	}
	defaults, err := runStyleFrom(s.Style)
	if err != nil {
		return nil, err
	}
	for i := range runs {
		runs[i].Style.ApplyDefaults(defaults)
	}
	return runs, nil
}

func flattenLink(l *schemas.Link) ([]schemas.TextRun, error) {
	runs, err := flattenValue(l.Children)
	if err != nil {
		return nil, err
	}
	for i := range runs {
		// Fresh target per run so downstream edits never alias.
		runs[i].Link = &schemas.LinkTarget{URL: l.URL, Slide: l.Slide, Tooltip: l.Tooltip}
	}
	return runs, nil
}

func flattenBullet(b *schemas.BulletGroup) ([]schemas.TextRun, error) {
	runs, err := flattenValue(b.Children)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return runs, nil
	}
	marker := &schemas.Bullet{}
	if len(b.Options) > 0 {
		marker.Options = make(map[string]any, len(b.Options))
		for k, v := range b.Options {
			marker.Options[k] = v
		}
	}
	runs[0].Bullet = marker
	for i := range runs {
		if i == len(runs)-1 {
			runs[i].LineBreakAfter = boolPtr(true)
		} else {
			runs[i].LineBreakAfter = boolPtr(false)
		}
	}
	return runs, nil
}

// runStyleFrom converts a span's partial style into run-style defaults,
// normalizing any embedded color. Pointer fields are copied so the produced
// runs never alias the input tree.
func runStyleFrom(s schemas.SpanStyle) (schemas.RunStyle, error) {
	out := schemas.RunStyle{
		Bold:      copyBool(s.Bold),
		Italic:    copyBool(s.Italic),
		Underline: copyBool(s.Underline),
		Strike:    copyBool(s.Strike),
		FontFace:  copyString(s.FontFace),
		FontSize:  copyFloat(s.FontSize),
	}
	if s.Color != "" {
		c, err := style.ResolveColor(s.Color)
		if err != nil {
			return schemas.RunStyle{}, err
		}
		out.Color = &c
	}
	return out, nil
}

// applyMixedBulletBreaks keeps bullet and non-bullet runs on separate lines
// when a block mixes both.
func applyMixedBulletBreaks(runs []schemas.TextRun) {
	var bulleted, plain bool
	for _, r := range runs {
		if r.Bullet != nil {
			bulleted = true
		} else {
			plain = true
		}
	}
	if !bulleted || !plain {
		return
	}
	for i := range runs {
		if runs[i].Link == nil && runs[i].LineBreakAfter == nil {
			runs[i].LineBreakAfter = boolPtr(true)
		}
	}
}

func boolPtr(v bool) *bool { return &v }

func copyBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
