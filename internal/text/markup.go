package text

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/deckforge/deckforge/api/schemas"
)

// ParseMarkup parses an HTML-ish markup string into the inline-node tree the
// flattener consumes. Supported elements:
//
//	<b>/<strong>, <i>/<em>, <u>, <s>/<strike>  style spans
//	<span color=... font=... size=...>         explicit span style
//	<a href=... slide=... tooltip=...>         links
//	<bullet ...>                               bullet groups (extra attrs
//	                                           become the options object)
//	<br/>                                      hard line break
//
// Unknown elements are transparent: their children are kept, their tag is
// ignored.
func ParseMarkup(markup string) (any, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("parsing text markup: %w", err)
	}
	return convertNodes(nodes), nil
}

func convertNodes(nodes []*html.Node) []any {
	var out []any
	for _, n := range nodes {
		if converted := convertNode(n); converted != nil {
			out = append(out, converted)
		}
	}
	return out
}

func convertNode(n *html.Node) any {
	switch n.Type {
	case html.TextNode:
		if n.Data == "" {
			return nil
		}
		return n.Data
	case html.ElementNode:
		return convertElement(n)
	default:
		return nil
	}
}

func convertElement(n *html.Node) any {
	children := convertNodes(elementChildren(n))

	switch strings.ToLower(n.Data) {
	case "b", "strong":
		return &schemas.Span{Style: schemas.SpanStyle{Bold: boolPtr(true)}, Children: children}
	case "i", "em":
		return &schemas.Span{Style: schemas.SpanStyle{Italic: boolPtr(true)}, Children: children}
	case "u":
		return &schemas.Span{Style: schemas.SpanStyle{Underline: boolPtr(true)}, Children: children}
	case "s", "strike":
		return &schemas.Span{Style: schemas.SpanStyle{Strike: boolPtr(true)}, Children: children}
	case "span":
		return &schemas.Span{Style: spanStyleFromAttrs(n), Children: children}
	case "a":
		link := &schemas.Link{Children: children}
		for _, attr := range n.Attr {
			switch strings.ToLower(attr.Key) {
			case "href":
				link.URL = attr.Val
			case "slide":
				if idx, err := strconv.Atoi(attr.Val); err == nil {
					link.Slide = idx
				}
			case "tooltip":
				link.Tooltip = attr.Val
			}
		}
		return link
	case "bullet":
		group := &schemas.BulletGroup{Children: children}
		for _, attr := range n.Attr {
			if group.Options == nil {
				group.Options = make(map[string]any)
			}
			group.Options[strings.ToLower(attr.Key)] = attr.Val
		}
		return group
	case "br":
		return &schemas.HardBreak{}
	default:
		// Transparent wrapper: keep the children, drop the tag.
		if len(children) == 0 {
			return nil
		}
		return children
	}
}

func spanStyleFromAttrs(n *html.Node) schemas.SpanStyle {
	var s schemas.SpanStyle
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "color":
			s.Color = attr.Val
		case "font":
			face := attr.Val
			s.FontFace = &face
		case "size":
			if size, err := strconv.ParseFloat(attr.Val, 64); err == nil {
				s.FontSize = &size
			}
		}
	}
	return s
}

func elementChildren(n *html.Node) []*html.Node {
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	return children
}
