package loader

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/deckforge/deckforge/api/schemas"
)

// LoadXML reads a deckml document from r.
func LoadXML(r io.Reader) (*schemas.Presentation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}
	return ParseXML(data)
}

// ParseXML decodes a deckml document into the input model. The element
// vocabulary mirrors the JSON kinds; inline text markup is native XML.
func ParseXML(data []byte) (*schemas.Presentation, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("decoding deckml: %w", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "presentation" {
		return nil, fmt.Errorf("deckml root must be <presentation>")
	}

	p := &schemas.Presentation{
		Layout: schemas.LayoutSpec{
			Name:   root.SelectAttrValue("layout", ""),
			Width:  xmlFloat(root, "width"),
			Height: xmlFloat(root, "height"),
		},
		Meta: schemas.Metadata{
			Title:   root.SelectAttrValue("title", ""),
			Author:  root.SelectAttrValue("author", ""),
			Subject: root.SelectAttrValue("subject", ""),
			Company: root.SelectAttrValue("company", ""),
		},
	}
	if p.Layout.Name == "" && p.Layout.Width == 0 {
		p.Layout.Name = schemas.Layout16x9
	}

	for _, el := range root.ChildElements() {
		switch el.Tag {
		case "slide":
			slide, err := decodeXMLSlide(el)
			if err != nil {
				return nil, err
			}
			p.Children = append(p.Children, slide)
		case "master":
			master, err := decodeXMLMaster(el)
			if err != nil {
				return nil, err
			}
			p.Children = append(p.Children, master)
		default:
			return nil, &schemas.UnknownNodeKindError{NodeKind: el.Tag}
		}
	}
	return p, nil
}

func decodeXMLSlide(el *etree.Element) (*schemas.Slide, error) {
	s := &schemas.Slide{
		BackgroundColor: el.SelectAttrValue("background", ""),
		Hidden:          xmlBool(el, "hidden"),
		MasterName:      el.SelectAttrValue("master", ""),
	}
	if path := el.SelectAttrValue("background-image", ""); path != "" {
		s.BackgroundImage = &schemas.ImageSource{Kind: schemas.ImageSourcePath, Path: path}
	}

	for _, child := range el.ChildElements() {
		if child.Tag == "notes" {
			s.Notes = strings.TrimSpace(child.Text())
			continue
		}
		obj, err := decodeXMLObject(child)
		if err != nil {
			return nil, err
		}
		s.Children = append(s.Children, obj)
	}
	return s, nil
}

func decodeXMLMaster(el *etree.Element) (*schemas.MasterSlide, error) {
	m := &schemas.MasterSlide{
		Name:            el.SelectAttrValue("name", ""),
		BackgroundColor: el.SelectAttrValue("background", ""),
	}
	if path := el.SelectAttrValue("background-image", ""); path != "" {
		m.BackgroundImage = &schemas.ImageSource{Kind: schemas.ImageSourcePath, Path: path}
	}
	for _, child := range el.ChildElements() {
		obj, err := decodeXMLObject(child)
		if err != nil {
			return nil, err
		}
		m.Children = append(m.Children, obj)
	}
	return m, nil
}

func decodeXMLObject(el *etree.Element) (schemas.SlideObject, error) {
	switch el.Tag {
	case "container":
		cs, err := xmlContainerStyle(el)
		if err != nil {
			return nil, err
		}
		children, err := xmlObjectChildren(el)
		if err != nil {
			return nil, err
		}
		return &schemas.Container{Style: cs, Children: children}, nil

	case "flex":
		cs, err := xmlContainerStyle(el)
		if err != nil {
			return nil, err
		}
		fs := &schemas.FlexStyle{
			ContainerStyle: *cs,
			Direction:      schemas.FlexDirection(el.SelectAttrValue("direction", "")),
			Gap:            xmlFloat(el, "gap"),
			AlignItems:     schemas.FlexAlign(el.SelectAttrValue("align", "")),
		}
		children, err := xmlObjectChildren(el)
		if err != nil {
			return nil, err
		}
		return &schemas.Flex{Style: fs, Children: children}, nil

	case "text":
		ts, err := xmlTextStyle(el)
		if err != nil {
			return nil, err
		}
		return &schemas.Text{Style: ts, Children: inlineFromXML(el.Child)}, nil

	case "image":
		img := &schemas.Image{
			Style: &schemas.ImageStyle{
				X: xmlCoord(el, "x"), Y: xmlCoord(el, "y"),
				W: xmlCoord(el, "w"), H: xmlCoord(el, "h"),
			},
		}
		if data := el.SelectAttrValue("data", ""); data != "" {
			img.Source = schemas.ImageSource{Kind: schemas.ImageSourceData, Data: data}
		} else {
			img.Source = schemas.ImageSource{Kind: schemas.ImageSourcePath, Path: el.SelectAttrValue("src", "")}
		}
		if fit := el.SelectAttrValue("fit", ""); fit != "" {
			img.Sizing = &schemas.ImageSizing{Fit: fit}
		}
		return img, nil

	case "shape":
		return &schemas.Shape{
			Style: &schemas.ShapeStyle{
				X: xmlCoord(el, "x"), Y: xmlCoord(el, "y"),
				W: xmlCoord(el, "w"), H: xmlCoord(el, "h"),
				BackgroundColor: el.SelectAttrValue("background", ""),
				BorderColor:     el.SelectAttrValue("border-color", ""),
				BorderWidth:     xmlFloat(el, "border-width"),
			},
			Type:     el.SelectAttrValue("type", ""),
			Children: inlineFromXML(el.Child),
		}, nil

	case "line":
		ls := &schemas.LineStyle{
			X1: xmlFloat(el, "x1"), Y1: xmlFloat(el, "y1"),
			X2: xmlFloat(el, "x2"), Y2: xmlFloat(el, "y2"),
			Color: el.SelectAttrValue("color", ""),
		}
		if w := el.SelectAttrValue("width", ""); w != "" {
			if f, err := strconv.ParseFloat(w, 64); err == nil {
				ls.Width = &f
			}
		}
		return &schemas.Line{Style: ls}, nil

	case "table":
		return decodeXMLTable(el)
	}
	return nil, &schemas.UnknownNodeKindError{NodeKind: el.Tag}
}

func xmlObjectChildren(el *etree.Element) ([]schemas.SlideObject, error) {
	var out []schemas.SlideObject
	for _, child := range el.ChildElements() {
		obj, err := decodeXMLObject(child)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

func decodeXMLTable(el *etree.Element) (*schemas.Table, error) {
	margin, err := xmlBox(el, "margin")
	if err != nil {
		return nil, err
	}
	tbl := &schemas.Table{
		Style: &schemas.TableStyle{
			X: xmlCoord(el, "x"), Y: xmlCoord(el, "y"),
			W: xmlCoord(el, "w"), H: xmlCoord(el, "h"),
			Margin:      margin,
			BorderColor: el.SelectAttrValue("border-color", ""),
			BorderWidth: xmlFloat(el, "border-width"),
		},
	}

	for _, rowEl := range el.ChildElements() {
		if rowEl.Tag != "row" {
			return nil, fmt.Errorf("table expects <row> children, got <%s>", rowEl.Tag)
		}
		var row []any
		for _, cellEl := range rowEl.ChildElements() {
			if cellEl.Tag != "cell" {
				return nil, fmt.Errorf("row expects <cell> children, got <%s>", cellEl.Tag)
			}
			ts, err := xmlTextStyle(cellEl)
			if err != nil {
				return nil, err
			}
			row = append(row, &schemas.TableCell{
				Style:    ts,
				Children: inlineFromXML(cellEl.Child),
				ColSpan:  int(xmlFloat(cellEl, "colspan")),
				RowSpan:  int(xmlFloat(cellEl, "rowspan")),
			})
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

func xmlContainerStyle(el *etree.Element) (*schemas.ContainerStyle, error) {
	margin, err := xmlBox(el, "margin")
	if err != nil {
		return nil, err
	}
	padding, err := xmlBox(el, "padding")
	if err != nil {
		return nil, err
	}
	return &schemas.ContainerStyle{
		X: xmlCoord(el, "x"), Y: xmlCoord(el, "y"),
		W: xmlCoord(el, "w"), H: xmlCoord(el, "h"),
		Margin:          margin,
		Padding:         padding,
		BackgroundColor: el.SelectAttrValue("background", ""),
		BorderColor:     el.SelectAttrValue("border-color", ""),
		BorderWidth:     xmlFloat(el, "border-width"),
	}, nil
}

func xmlTextStyle(el *etree.Element) (*schemas.TextStyle, error) {
	margin, err := xmlBox(el, "margin")
	if err != nil {
		return nil, err
	}
	ts := &schemas.TextStyle{
		X: xmlCoord(el, "x"), Y: xmlCoord(el, "y"),
		W: xmlCoord(el, "w"), H: xmlCoord(el, "h"),
		Color:           el.SelectAttrValue("color", ""),
		BackgroundColor: el.SelectAttrValue("background", ""),
		FontFace:        el.SelectAttrValue("font", ""),
		Bold:            xmlBool(el, "bold"),
		Italic:          xmlBool(el, "italic"),
		Underline:       xmlBool(el, "underline"),
		Align:           el.SelectAttrValue("align", ""),
		VerticalAlign:   el.SelectAttrValue("valign", ""),
		Margin:          margin,
	}
	if size := el.SelectAttrValue("size", ""); size != "" {
		if f, err := strconv.ParseFloat(size, 64); err == nil {
			ts.FontSize = &f
		}
	}
	return ts, nil
}

// inlineFromXML converts element content into the inline-node tree the
// flattener consumes, using the same vocabulary as the markup front-end.
func inlineFromXML(tokens []etree.Token) []any {
	var out []any
	for _, tok := range tokens {
		switch t := tok.(type) {
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				out = append(out, t.Data)
			}
		case *etree.Element:
			out = append(out, inlineElement(t))
		}
	}
	return out
}

func inlineElement(el *etree.Element) any {
	children := inlineFromXML(el.Child)

	switch el.Tag {
	case "b", "strong":
		return &schemas.Span{Style: schemas.SpanStyle{Bold: xmlTrue()}, Children: children}
	case "i", "em":
		return &schemas.Span{Style: schemas.SpanStyle{Italic: xmlTrue()}, Children: children}
	case "u":
		return &schemas.Span{Style: schemas.SpanStyle{Underline: xmlTrue()}, Children: children}
	case "s", "strike":
		return &schemas.Span{Style: schemas.SpanStyle{Strike: xmlTrue()}, Children: children}
	case "span":
		style := schemas.SpanStyle{Color: el.SelectAttrValue("color", "")}
		if face := el.SelectAttrValue("font", ""); face != "" {
			style.FontFace = &face
		}
		if size := el.SelectAttrValue("size", ""); size != "" {
			if f, err := strconv.ParseFloat(size, 64); err == nil {
				style.FontSize = &f
			}
		}
		return &schemas.Span{Style: style, Children: children}
	case "a":
		link := &schemas.Link{
			URL:      el.SelectAttrValue("href", ""),
			Tooltip:  el.SelectAttrValue("tooltip", ""),
			Children: children,
		}
		if slide := el.SelectAttrValue("slide", ""); slide != "" {
			if idx, err := strconv.Atoi(slide); err == nil {
				link.Slide = idx
			}
		}
		return link
	case "bullet":
		group := &schemas.BulletGroup{Children: children}
		for _, attr := range el.Attr {
			if group.Options == nil {
				group.Options = make(map[string]any)
			}
			group.Options[attr.Key] = attr.Value
		}
		return group
	case "br":
		return &schemas.HardBreak{}
	default:
		// Transparent wrapper, same as the markup front-end.
		return children
	}
}

func xmlCoord(el *etree.Element, key string) schemas.Coord {
	v := el.SelectAttrValue(key, "")
	if v == "" {
		return schemas.Coord{}
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return schemas.Inches(f)
	}
	return schemas.Str(v)
}

// xmlBox parses a space-separated margin/padding shorthand.
func xmlBox(el *etree.Element, key string) (schemas.Box, error) {
	v := el.SelectAttrValue(key, "")
	if v == "" {
		return nil, nil
	}
	var out schemas.Box
	for _, part := range strings.Fields(v) {
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, &schemas.InvalidPositionError{Value: v}
		}
		out = append(out, f)
	}
	return out, nil
}

func xmlFloat(el *etree.Element, key string) float64 {
	f, err := strconv.ParseFloat(el.SelectAttrValue(key, ""), 64)
	if err != nil {
		return 0
	}
	return f
}

func xmlBool(el *etree.Element, key string) bool {
	b, err := strconv.ParseBool(el.SelectAttrValue(key, ""))
	if err != nil {
		return false
	}
	return b
}

func xmlTrue() *bool {
	v := true
	return &v
}
