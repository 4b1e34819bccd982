package schemas

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// -- Canonical Colors --

// Color is a canonical resolved color: a 6-digit upper-case hex value plus a
// percent-transparency. Transparency 0 means fully opaque and serializes as
// the bare hex string; anything else serializes as the solid/alpha object.
// The stored number is percent transparency, not opacity.
type Color struct {
	Hex          string
	Transparency int
}

// Opaque reports whether the color carries no translucency.
func (c Color) Opaque() bool { return c.Transparency == 0 }

// MarshalJSON emits the canonical wire form: "RRGGBB" when opaque,
// {"type":"solid","color":"RRGGBB","alpha":N} otherwise.
func (c Color) MarshalJSON() ([]byte, error) {
	if c.Opaque() {
		return []byte(strconv.Quote(c.Hex)), nil
	}
	return json.Marshal(struct {
		Type  string `json:"type"`
		Color string `json:"color"`
		Alpha int    `json:"alpha"`
	}{Type: "solid", Color: c.Hex, Alpha: c.Transparency})
}

// UnmarshalJSON accepts both canonical wire forms.
func (c *Color) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, `"`) {
		hex, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		*c = Color{Hex: hex}
		return nil
	}
	var obj struct {
		Type  string `json:"type"`
		Color string `json:"color"`
		Alpha int    `json:"alpha"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Type != "solid" {
		return fmt.Errorf("unsupported color type %q", obj.Type)
	}
	*c = Color{Hex: obj.Color, Transparency: obj.Alpha}
	return nil
}

// -- Text Runs --

// RunStyle is the partial style attached to one text run. Nil fields are
// unset and may still be filled in by an enclosing span's defaults.
type RunStyle struct {
	Bold      *bool    `json:"bold,omitempty"`
	Italic    *bool    `json:"italic,omitempty"`
	Underline *bool    `json:"underline,omitempty"`
	Strike    *bool    `json:"strike,omitempty"`
	FontFace  *string  `json:"fontFace,omitempty"`
	FontSize  *float64 `json:"fontSize,omitempty"`
	Color     *Color   `json:"color,omitempty"`
}

// ApplyDefaults fills every unset field from d. Fields the run already has
// win; the defaults never override.
func (s *RunStyle) ApplyDefaults(d RunStyle) {
	if s.Bold == nil {
		s.Bold = d.Bold
	}
	if s.Italic == nil {
		s.Italic = d.Italic
	}
	if s.Underline == nil {
		s.Underline = d.Underline
	}
	if s.Strike == nil {
		s.Strike = d.Strike
	}
	if s.FontFace == nil {
		s.FontFace = d.FontFace
	}
	if s.FontSize == nil {
		s.FontSize = d.FontSize
	}
	if s.Color == nil {
		s.Color = d.Color
	}
}

// LinkTarget annotates a run with a navigation target. Exactly one of URL or
// Slide (1-based index) is set.
type LinkTarget struct {
	URL     string `json:"url,omitempty"`
	Slide   int    `json:"slide,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
}

// Bullet marks a run as the start of a bulleted item. Without options it
// serializes as the boolean true; with options it serializes as the options
// object itself.
type Bullet struct {
	Options map[string]any
}

// MarshalJSON emits true or the custom options object.
func (b Bullet) MarshalJSON() ([]byte, error) {
	if len(b.Options) == 0 {
		return []byte("true"), nil
	}
	return json.Marshal(b.Options)
}

// TextRun is one contiguous, uniformly styled span of flattened text.
// LineBreakAfter is a tri-state: nil means never explicitly decided.
type TextRun struct {
	Text           string      `json:"text"`
	Style          RunStyle    `json:"style"`
	Link           *LinkTarget `json:"link,omitempty"`
	Bullet         *Bullet     `json:"bullet,omitempty"`
	LineBreakAfter *bool       `json:"lineBreakAfter,omitempty"`
}

// -- Normalized Tree --

// Frame is a fully resolved box in inches. No percentage values survive
// normalization.
type Frame struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// NormalizedObject is the closed union of resolved slide content.
type NormalizedObject interface {
	Kind() Kind
	normalizedObject()
}

// NormalizedText is a resolved text block: flat runs, canonical colors,
// concrete font face and size.
type NormalizedText struct {
	Frame         Frame    `json:"frame"`
	Runs          []TextRun `json:"runs"`
	Color         *Color   `json:"color,omitempty"`
	Background    *Color   `json:"background,omitempty"`
	FontFace      string   `json:"fontFace"`
	FontSize      float64  `json:"fontSize"`
	Align         string   `json:"align,omitempty"`
	VerticalAlign string   `json:"verticalAlign,omitempty"`
	Margin        [4]float64 `json:"margin"`
}

// NormalizedTableCell is a resolved table cell.
type NormalizedTableCell struct {
	NormalizedText
	ColSpan int `json:"colSpan,omitempty"`
	RowSpan int `json:"rowSpan,omitempty"`
}

// NormalizedImage is a resolved image placement. Source and Sizing pass
// through untouched for the asset resolver and renderer.
type NormalizedImage struct {
	Frame  Frame        `json:"frame"`
	Source ImageSource  `json:"source"`
	Sizing *ImageSizing `json:"sizing,omitempty"`
}

// NormalizedShape is a resolved shape, optionally with embedded text runs.
type NormalizedShape struct {
	Frame       Frame     `json:"frame"`
	Type        string    `json:"type"`
	Runs        []TextRun `json:"runs,omitempty"`
	Background  *Color    `json:"background,omitempty"`
	BorderColor *Color    `json:"borderColor,omitempty"`
	BorderWidth float64   `json:"borderWidth,omitempty"`
}

// NormalizedLine is a resolved line segment in absolute inches.
type NormalizedLine struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color *Color  `json:"color,omitempty"`
	Width float64 `json:"width"`
}

// NormalizedTable is a resolved table grid.
type NormalizedTable struct {
	Frame       Frame                    `json:"frame"`
	Rows        [][]*NormalizedTableCell `json:"rows"`
	Margin      [4]float64               `json:"margin"`
	BorderColor *Color                   `json:"borderColor,omitempty"`
	BorderWidth float64                  `json:"borderWidth,omitempty"`
}

func (t *NormalizedText) Kind() Kind      { return KindText }
func (t *NormalizedTableCell) Kind() Kind { return KindTableCell }
func (i *NormalizedImage) Kind() Kind     { return KindImage }
func (s *NormalizedShape) Kind() Kind     { return KindShape }
func (l *NormalizedLine) Kind() Kind      { return KindLine }
func (t *NormalizedTable) Kind() Kind     { return KindTable }

func (t *NormalizedText) normalizedObject()      {}
func (t *NormalizedTableCell) normalizedObject() {}
func (i *NormalizedImage) normalizedObject()     {}
func (s *NormalizedShape) normalizedObject()     {}
func (l *NormalizedLine) normalizedObject()      {}
func (t *NormalizedTable) normalizedObject()     {}

// Background is a slide or master background: a canonical color or an image
// descriptor, never both.
type Background struct {
	Color *Color       `json:"color,omitempty"`
	Image *ImageSource `json:"image,omitempty"`
}

// NormalizedSlide is one resolved page.
type NormalizedSlide struct {
	Background *Background        `json:"background,omitempty"`
	Objects    []NormalizedObject `json:"objects"`
	Hidden     bool               `json:"hidden,omitempty"`
	Notes      string             `json:"notes,omitempty"`
	MasterName string             `json:"masterName,omitempty"`
}

// NormalizedMaster is one resolved master template.
type NormalizedMaster struct {
	Name       string             `json:"name"`
	Background *Background        `json:"background,omitempty"`
	Objects    []NormalizedObject `json:"objects"`
}

// ResolvedLayout is the concrete page size in inches.
type ResolvedLayout struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NormalizedPresentation is the fully resolved output tree. It is built
// fresh on every normalization; the input tree is never aliased.
type NormalizedPresentation struct {
	Layout  ResolvedLayout               `json:"layout"`
	Slides  []*NormalizedSlide           `json:"slides"`
	Masters map[string]*NormalizedMaster `json:"masters,omitempty"`
	Meta    Metadata                     `json:"meta,omitempty"`
}
