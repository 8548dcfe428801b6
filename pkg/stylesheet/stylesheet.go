// Package stylesheet loads named flexbox styles from YAML documents.
//
// A stylesheet lets applications keep layout tuning out of Go code:
//
//	styles:
//	  sidebar:
//	    width: 280
//	    direction: column
//	    padding: 12
//	    gap: 8
//	  hero:
//	    height: 40%
//	    justify: center
//	    align: stretch
//
// Dimensions accept a bare number (points), a percent string ("40%"), or
// "auto". Padding, margin, and inset accept either a single number applied to
// every edge or a per-edge mapping.
package stylesheet

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	nebulaerrors "github.com/arko-martian/NebulaUI-sub000/pkg/errors"
	"github.com/arko-martian/NebulaUI-sub000/pkg/flexbox"
)

// Sheet is a parsed collection of named styles.
type Sheet struct {
	Styles map[string]Definition `yaml:"styles"`
}

// Definition is the YAML shape of one style. Absent fields keep the flexbox
// zero-value defaults.
type Definition struct {
	Width     DimensionValue `yaml:"width"`
	Height    DimensionValue `yaml:"height"`
	MinWidth  DimensionValue `yaml:"min_width"`
	MinHeight DimensionValue `yaml:"min_height"`
	MaxWidth  DimensionValue `yaml:"max_width"`
	MaxHeight DimensionValue `yaml:"max_height"`

	Direction string `yaml:"direction"`
	Justify   string `yaml:"justify"`
	Align     string `yaml:"align"`
	AlignSelf string `yaml:"align_self"`

	Grow   float64        `yaml:"grow"`
	Shrink float64        `yaml:"shrink"`
	Basis  DimensionValue `yaml:"basis"`

	Padding EdgeValue `yaml:"padding"`
	Margin  EdgeValue `yaml:"margin"`
	Gap     float64   `yaml:"gap"`

	Position string     `yaml:"position"`
	Inset    InsetValue `yaml:"inset"`
}

// DimensionValue parses "auto", a number, or an "N%" string.
type DimensionValue struct {
	dim flexbox.Dimension
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *DimensionValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("dimension must be a scalar, got %v", node.Kind)
	}
	raw := strings.TrimSpace(node.Value)
	switch {
	case raw == "" || raw == "auto":
		d.dim = flexbox.Auto()
	case strings.HasSuffix(raw, "%"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
		if err != nil {
			return fmt.Errorf("invalid percent dimension %q", raw)
		}
		d.dim = flexbox.Percent(v)
	default:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid dimension %q", raw)
		}
		d.dim = flexbox.Points(v)
	}
	return nil
}

// Dimension returns the parsed flexbox dimension (auto when absent).
func (d DimensionValue) Dimension() flexbox.Dimension {
	return d.dim
}

// EdgeValue parses either a single number (uniform edges) or a per-edge map.
type EdgeValue struct {
	edges flexbox.EdgeValues
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *EdgeValue) UnmarshalYAML(node *yaml.Node) error {
	var uniform float64
	if err := node.Decode(&uniform); err == nil {
		e.edges = flexbox.UniformEdges(uniform)
		return nil
	}
	var per struct {
		Left   float64 `yaml:"left"`
		Top    float64 `yaml:"top"`
		Right  float64 `yaml:"right"`
		Bottom float64 `yaml:"bottom"`
	}
	if err := node.Decode(&per); err != nil {
		return fmt.Errorf("edges must be a number or a left/top/right/bottom mapping: %w", err)
	}
	e.edges = flexbox.EdgeValues(per)
	return nil
}

// Edges returns the parsed edge values.
func (e EdgeValue) Edges() flexbox.EdgeValues {
	return e.edges
}

// InsetValue parses per-edge dimensions for absolute positioning.
type InsetValue struct {
	Left   DimensionValue `yaml:"left"`
	Top    DimensionValue `yaml:"top"`
	Right  DimensionValue `yaml:"right"`
	Bottom DimensionValue `yaml:"bottom"`
}

// Parse decodes a YAML stylesheet document.
func Parse(data []byte) (*Sheet, error) {
	var sheet Sheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, nebulaerrors.Wrap("stylesheet.Parse", nebulaerrors.KindStylesheet, err)
	}
	if sheet.Styles == nil {
		sheet.Styles = map[string]Definition{}
	}
	return &sheet, nil
}

// LoadFile reads and parses a stylesheet from disk.
func LoadFile(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nebulaerrors.Wrap("stylesheet.LoadFile", nebulaerrors.KindStylesheet, err)
	}
	return Parse(data)
}

// LoadOptional reads a stylesheet if the file exists, returning an empty
// sheet otherwise.
func LoadOptional(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Sheet{Styles: map[string]Definition{}}, nil
		}
		return nil, nebulaerrors.Wrap("stylesheet.LoadOptional", nebulaerrors.KindStylesheet, err)
	}
	return Parse(data)
}

// Resolve converts a named definition into a flexbox style.
func (s *Sheet) Resolve(name string) (flexbox.Style, error) {
	const op = "stylesheet.Sheet.Resolve"
	def, ok := s.Styles[name]
	if !ok {
		return flexbox.Style{}, nebulaerrors.New(op, nebulaerrors.KindStylesheet,
			fmt.Sprintf("no style named %q", name))
	}
	style, err := def.Style()
	if err != nil {
		return flexbox.Style{}, nebulaerrors.Wrap(op, nebulaerrors.KindStylesheet, err)
	}
	return style, nil
}

// Style converts the definition into a flexbox style.
func (d Definition) Style() (flexbox.Style, error) {
	style := flexbox.Style{
		Size: flexbox.Dimensions{
			Width:  d.Width.Dimension(),
			Height: d.Height.Dimension(),
		},
		MinSize: flexbox.Dimensions{
			Width:  d.MinWidth.Dimension(),
			Height: d.MinHeight.Dimension(),
		},
		MaxSize: flexbox.Dimensions{
			Width:  d.MaxWidth.Dimension(),
			Height: d.MaxHeight.Dimension(),
		},
		Grow:    d.Grow,
		Shrink:  d.Shrink,
		Basis:   d.Basis.Dimension(),
		Padding: d.Padding.Edges(),
		Margin:  d.Margin.Edges(),
		Gap:     d.Gap,
		Inset: flexbox.Inset{
			Left:   d.Inset.Left.Dimension(),
			Top:    d.Inset.Top.Dimension(),
			Right:  d.Inset.Right.Dimension(),
			Bottom: d.Inset.Bottom.Dimension(),
		},
	}

	var err error
	if style.Direction, err = parseDirection(d.Direction); err != nil {
		return flexbox.Style{}, err
	}
	if style.Justify, err = parseJustify(d.Justify); err != nil {
		return flexbox.Style{}, err
	}
	if style.Align, err = parseAlign(d.Align); err != nil {
		return flexbox.Style{}, err
	}
	if style.AlignSelf, err = parseAlignSelf(d.AlignSelf); err != nil {
		return flexbox.Style{}, err
	}
	if style.Position, err = parsePosition(d.Position); err != nil {
		return flexbox.Style{}, err
	}
	if verr := style.Validate(); verr != nil {
		return flexbox.Style{}, verr
	}
	return style, nil
}

func parseDirection(s string) (flexbox.Direction, error) {
	switch s {
	case "", "row":
		return flexbox.DirectionRow, nil
	case "column":
		return flexbox.DirectionColumn, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

func parseJustify(s string) (flexbox.JustifyContent, error) {
	switch s {
	case "", "start":
		return flexbox.JustifyStart, nil
	case "end":
		return flexbox.JustifyEnd, nil
	case "center":
		return flexbox.JustifyCenter, nil
	case "space_between":
		return flexbox.JustifySpaceBetween, nil
	case "space_around":
		return flexbox.JustifySpaceAround, nil
	case "space_evenly":
		return flexbox.JustifySpaceEvenly, nil
	default:
		return 0, fmt.Errorf("unknown justify %q", s)
	}
}

func parseAlign(s string) (flexbox.AlignItems, error) {
	switch s {
	case "", "start":
		return flexbox.AlignStart, nil
	case "end":
		return flexbox.AlignEnd, nil
	case "center":
		return flexbox.AlignCenter, nil
	case "stretch":
		return flexbox.AlignStretch, nil
	default:
		return 0, fmt.Errorf("unknown align %q", s)
	}
}

func parseAlignSelf(s string) (flexbox.AlignSelf, error) {
	switch s {
	case "", "auto":
		return flexbox.AlignSelfAuto, nil
	case "start":
		return flexbox.AlignSelfStart, nil
	case "end":
		return flexbox.AlignSelfEnd, nil
	case "center":
		return flexbox.AlignSelfCenter, nil
	case "stretch":
		return flexbox.AlignSelfStretch, nil
	default:
		return 0, fmt.Errorf("unknown align_self %q", s)
	}
}

func parsePosition(s string) (flexbox.Position, error) {
	switch s {
	case "", "relative":
		return flexbox.PositionRelative, nil
	case "absolute":
		return flexbox.PositionAbsolute, nil
	default:
		return 0, fmt.Errorf("unknown position %q", s)
	}
}
