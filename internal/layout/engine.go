// Package layout walks a declarative presentation tree and produces the
// fully resolved output tree: every position an absolute number of inches,
// every color canonical, every text block a flat list of styled runs.
//
// Normalization never mutates the input tree. Every resolved record is a
// fresh allocation, so the same input can be normalized repeatedly or
// concurrently without aliasing hazards.
package layout

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/deckforge/deckforge/api/schemas"
	"github.com/deckforge/deckforge/internal/config"
	"github.com/deckforge/deckforge/internal/observability"
	"github.com/deckforge/deckforge/internal/style"
)

// namedLayouts maps the layout aspect names to page sizes in inches.
var namedLayouts = map[string]schemas.ResolvedLayout{
	schemas.Layout16x9:  {Width: 10, Height: 5.625},
	schemas.Layout16x10: {Width: 10, Height: 6.25},
	schemas.Layout4x3:   {Width: 10, Height: 7.5},
	schemas.LayoutWide:  {Width: 13.3, Height: 7.5},
}

// Engine normalizes presentations. It carries only immutable configuration,
// so a single Engine is safe for concurrent use.
type Engine struct {
	fontFace            string
	fontSize            float64
	allowMasterOverride bool
	log                 *zap.Logger
}

// New builds an Engine from the engine configuration.
func New(cfg config.EngineConfig) *Engine {
	face := cfg.DefaultFontFace
	if face == "" {
		face = config.DefaultFontFace
	}
	size := cfg.DefaultFontSize
	if size <= 0 {
		size = config.DefaultFontSize
	}
	return &Engine{
		fontFace:            face,
		fontSize:            size,
		allowMasterOverride: cfg.AllowMasterOverride,
		log:                 observability.GetLogger().Named("layout"),
	}
}

// Normalize is the single entry point: it takes the root presentation node
// and returns the normalized presentation. Any malformed input fails the
// whole call; there is no partial result.
func (e *Engine) Normalize(p *schemas.Presentation) (*schemas.NormalizedPresentation, error) {
	if p == nil {
		return nil, fmt.Errorf("nil presentation")
	}

	resolved, err := resolveLayout(p.Layout)
	if err != nil {
		return nil, err
	}

	out := &schemas.NormalizedPresentation{
		Layout: resolved,
		Meta:   p.Meta,
	}

	slideIndex := 0
	for _, child := range p.Children {
		switch c := child.(type) {
		case *schemas.Slide:
			slide, err := e.normalizeSlide(c, resolved)
			if err != nil {
				return nil, fmt.Errorf("slide %d: %w", slideIndex, err)
			}
			out.Slides = append(out.Slides, slide)
			slideIndex++
		case *schemas.MasterSlide:
			master, err := e.normalizeMaster(c, resolved)
			if err != nil {
				return nil, fmt.Errorf("master slide %q: %w", c.Name, err)
			}
			if out.Masters == nil {
				out.Masters = make(map[string]*schemas.NormalizedMaster)
			}
			if _, exists := out.Masters[master.Name]; exists && !e.allowMasterOverride {
				return nil, &schemas.DuplicateMasterSlideError{Name: master.Name}
			}
			out.Masters[master.Name] = master
		default:
			return nil, &schemas.UnknownNodeKindError{NodeKind: fmt.Sprintf("%T", child)}
		}
	}

	e.log.Debug("normalized presentation",
		zap.Int("slides", len(out.Slides)),
		zap.Int("masters", len(out.Masters)),
		zap.Float64("width", resolved.Width),
		zap.Float64("height", resolved.Height))
	return out, nil
}

// resolveLayout turns the named aspect or custom size into concrete inches.
func resolveLayout(l schemas.LayoutSpec) (schemas.ResolvedLayout, error) {
	if l.Name != "" {
		if resolved, ok := namedLayouts[l.Name]; ok {
			return resolved, nil
		}
		return schemas.ResolvedLayout{}, fmt.Errorf("unknown layout name %q", l.Name)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return schemas.ResolvedLayout{}, fmt.Errorf("custom layout needs positive width and height, got %gx%g", l.Width, l.Height)
	}
	return schemas.ResolvedLayout{Width: l.Width, Height: l.Height}, nil
}

// frame is a resolved reference box children resolve their coordinates
// against. OriginX/OriginY is the enclosing box origin, which line endpoints
// offset by.
type frame struct {
	X, Y, W, H       float64
	OriginX, OriginY float64
}

func slideFrame(l schemas.ResolvedLayout) frame {
	return frame{W: l.Width, H: l.Height}
}

func (e *Engine) normalizeSlide(s *schemas.Slide, l schemas.ResolvedLayout) (*schemas.NormalizedSlide, error) {
	bg, err := resolveBackground(s.BackgroundColor, s.BackgroundImage)
	if err != nil {
		return nil, err
	}

	out := &schemas.NormalizedSlide{
		Background: bg,
		Hidden:     s.Hidden,
		Notes:      s.Notes,
		MasterName: s.MasterName,
	}

	f := slideFrame(l)
	for _, child := range s.Children {
		objs, err := e.normalizeObject(child, f)
		if err != nil {
			return nil, err
		}
		out.Objects = append(out.Objects, objs...)
	}
	return out, nil
}

func (e *Engine) normalizeMaster(m *schemas.MasterSlide, l schemas.ResolvedLayout) (*schemas.NormalizedMaster, error) {
	if m.Name == "" {
		return nil, &schemas.MissingStyleError{NodeKind: schemas.KindMasterSlide}
	}

	bg, err := resolveBackground(m.BackgroundColor, m.BackgroundImage)
	if err != nil {
		return nil, err
	}

	out := &schemas.NormalizedMaster{Name: m.Name, Background: bg}

	f := slideFrame(l)
	for _, child := range m.Children {
		// Lines cannot appear as direct master children.
		if child.Kind() == schemas.KindLine {
			return nil, &schemas.UnsupportedMasterSlideObjectError{NodeKind: schemas.KindLine}
		}
		objs, err := e.normalizeObject(child, f)
		if err != nil {
			return nil, err
		}
		out.Objects = append(out.Objects, objs...)
	}
	return out, nil
}

func resolveBackground(colorExpr string, image *schemas.ImageSource) (*schemas.Background, error) {
	if colorExpr == "" && image == nil {
		return nil, nil
	}
	bg := &schemas.Background{}
	if colorExpr != "" {
		c, err := style.ResolveColor(colorExpr)
		if err != nil {
			return nil, err
		}
		bg.Color = &c
	} else {
		img := *image
		bg.Image = &img
	}
	return bg, nil
}
