// Package flexbox implements the box-model style description and the flexbox
// solver used by the layout engine.
//
// The solver operates on an abstract [Node] tree so that the node arena in
// pkg/layout stays the single owner of node storage. Styles describe a CSS
// flexbox subset: per-axis dimensions with min/max bounds, flex direction,
// main and cross axis alignment, grow/shrink/basis factors, padding, margin,
// gap, and relative/absolute positioning.
package flexbox

import (
	"fmt"
	"math"

	"github.com/arko-martian/NebulaUI-sub000/pkg/geometry"
)

// DimensionKind identifies how a Dimension resolves.
type DimensionKind uint8

const (
	// DimensionAuto sizes from content (or stretching, on the cross axis).
	DimensionAuto DimensionKind = iota
	// DimensionPoints is a fixed length in logical pixels.
	DimensionPoints
	// DimensionPercent resolves against the parent's content box (0-100).
	DimensionPercent
)

// Dimension is a single-axis length: auto, fixed points, or a percentage of
// the parent content box.
type Dimension struct {
	Kind  DimensionKind
	Value float64
}

// Auto returns the content-sized dimension.
func Auto() Dimension {
	return Dimension{Kind: DimensionAuto}
}

// Points returns a fixed dimension in logical pixels.
func Points(v float64) Dimension {
	return Dimension{Kind: DimensionPoints, Value: v}
}

// Percent returns a dimension resolving to v percent of the parent content box.
func Percent(v float64) Dimension {
	return Dimension{Kind: DimensionPercent, Value: v}
}

// Resolve returns the concrete length for this dimension given the parent
// content-box length for the axis. The second result is false when the
// dimension cannot be resolved (auto, or percent of an unbounded parent).
func (d Dimension) Resolve(parent float64) (float64, bool) {
	switch d.Kind {
	case DimensionPoints:
		return d.Value, true
	case DimensionPercent:
		if math.IsInf(parent, 1) || math.IsNaN(parent) {
			return 0, false
		}
		return parent * d.Value / 100, true
	default:
		return 0, false
	}
}

// String returns a human-readable representation of the dimension.
func (d Dimension) String() string {
	switch d.Kind {
	case DimensionPoints:
		return fmt.Sprintf("%gpx", d.Value)
	case DimensionPercent:
		return fmt.Sprintf("%g%%", d.Value)
	default:
		return "auto"
	}
}

// Dimensions pairs a width and height dimension.
type Dimensions struct {
	Width  Dimension
	Height Dimension
}

// FixedSize returns point dimensions for both axes.
func FixedSize(width, height float64) Dimensions {
	return Dimensions{Width: Points(width), Height: Points(height)}
}

// EdgeValues holds per-edge lengths in logical pixels (padding, margin).
type EdgeValues struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// UniformEdges returns EdgeValues with the same length on every edge.
func UniformEdges(v float64) EdgeValues {
	return EdgeValues{Left: v, Top: v, Right: v, Bottom: v}
}

// Horizontal returns the combined left and right lengths.
func (e EdgeValues) Horizontal() float64 {
	return e.Left + e.Right
}

// Vertical returns the combined top and bottom lengths.
func (e EdgeValues) Vertical() float64 {
	return e.Top + e.Bottom
}

// Inset holds per-edge offsets for absolutely positioned nodes.
// Auto edges are unconstrained.
type Inset struct {
	Left   Dimension
	Top    Dimension
	Right  Dimension
	Bottom Dimension
}

// Direction is the flex main axis.
type Direction int

const (
	// DirectionRow lays children out horizontally.
	DirectionRow Direction = iota
	// DirectionColumn lays children out vertically.
	DirectionColumn
)

// String returns a human-readable representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionRow:
		return "row"
	case DirectionColumn:
		return "column"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// JustifyContent controls how children are positioned along the main axis.
type JustifyContent int

const (
	// JustifyStart places children at the start of the main axis.
	JustifyStart JustifyContent = iota
	// JustifyEnd places children at the end of the main axis.
	JustifyEnd
	// JustifyCenter centers children along the main axis.
	JustifyCenter
	// JustifySpaceBetween distributes free space evenly between children.
	// No space before the first or after the last child.
	JustifySpaceBetween
	// JustifySpaceAround distributes free space evenly, with half-sized
	// spaces at the start and end.
	JustifySpaceAround
	// JustifySpaceEvenly distributes free space evenly, including equal
	// space before the first and after the last child.
	JustifySpaceEvenly
)

// String returns a human-readable representation of the justification.
func (j JustifyContent) String() string {
	switch j {
	case JustifyStart:
		return "start"
	case JustifyEnd:
		return "end"
	case JustifyCenter:
		return "center"
	case JustifySpaceBetween:
		return "space_between"
	case JustifySpaceAround:
		return "space_around"
	case JustifySpaceEvenly:
		return "space_evenly"
	default:
		return fmt.Sprintf("JustifyContent(%d)", int(j))
	}
}

// AlignItems controls how children are positioned along the cross axis.
type AlignItems int

const (
	// AlignStart places children at the start of the cross axis.
	AlignStart AlignItems = iota
	// AlignEnd places children at the end of the cross axis.
	AlignEnd
	// AlignCenter centers children along the cross axis.
	AlignCenter
	// AlignStretch stretches auto-sized children to fill the cross axis.
	AlignStretch
)

// String returns a human-readable representation of the alignment.
func (a AlignItems) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignEnd:
		return "end"
	case AlignCenter:
		return "center"
	case AlignStretch:
		return "stretch"
	default:
		return fmt.Sprintf("AlignItems(%d)", int(a))
	}
}

// AlignSelf overrides the container's AlignItems for a single child.
type AlignSelf int

const (
	// AlignSelfAuto inherits the container's AlignItems.
	AlignSelfAuto AlignSelf = iota
	AlignSelfStart
	AlignSelfEnd
	AlignSelfCenter
	AlignSelfStretch
)

// Position selects normal flow or absolute placement.
type Position int

const (
	// PositionRelative places the node in the normal flex flow.
	PositionRelative Position = iota
	// PositionAbsolute removes the node from the flow and places it against
	// the parent's content box using Inset.
	PositionAbsolute
)

// String returns a human-readable representation of the position mode.
func (p Position) String() string {
	switch p {
	case PositionRelative:
		return "relative"
	case PositionAbsolute:
		return "absolute"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// Style describes the box model and flex behavior of a single node.
//
// The zero value is a usable default: auto-sized, row direction, start
// alignment, no flex factors, no padding or margin, relative positioning.
type Style struct {
	Size    Dimensions
	MinSize Dimensions
	MaxSize Dimensions

	Direction Direction
	Justify   JustifyContent
	Align     AlignItems
	AlignSelf AlignSelf

	// Grow is the flex-grow factor; zero means the node never grows.
	Grow float64
	// Shrink is the flex-shrink factor; zero means the node never shrinks.
	Shrink float64
	// Basis is the flex basis; auto falls back to the styled/content main size.
	Basis Dimension

	Padding EdgeValues
	Margin  EdgeValues
	// Gap is the spacing between adjacent in-flow children.
	Gap float64

	Position Position
	Inset    Inset
}

// Column returns a column-direction container style.
func Column() Style {
	return Style{Direction: DirectionColumn}
}

// Row returns a row-direction container style.
func Row() Style {
	return Style{Direction: DirectionRow}
}

// Validate checks the style for values the solver cannot work with.
// Returned errors are plain; the layout engine wraps them with context.
func (s Style) Validate() error {
	for _, d := range []struct {
		name string
		dim  Dimension
	}{
		{"size.width", s.Size.Width}, {"size.height", s.Size.Height},
		{"min_size.width", s.MinSize.Width}, {"min_size.height", s.MinSize.Height},
		{"max_size.width", s.MaxSize.Width}, {"max_size.height", s.MaxSize.Height},
		{"basis", s.Basis},
	} {
		if math.IsNaN(d.dim.Value) {
			return fmt.Errorf("%s is NaN", d.name)
		}
		if d.dim.Kind != DimensionAuto && d.dim.Value < 0 {
			return fmt.Errorf("%s is negative (%g)", d.name, d.dim.Value)
		}
	}
	for _, e := range []struct {
		name string
		val  float64
	}{
		{"padding.left", s.Padding.Left}, {"padding.top", s.Padding.Top},
		{"padding.right", s.Padding.Right}, {"padding.bottom", s.Padding.Bottom},
		{"gap", s.Gap},
	} {
		if math.IsNaN(e.val) || e.val < 0 {
			return fmt.Errorf("%s is invalid (%g)", e.name, e.val)
		}
	}
	if math.IsNaN(s.Grow) || s.Grow < 0 {
		return fmt.Errorf("grow is invalid (%g)", s.Grow)
	}
	if math.IsNaN(s.Shrink) || s.Shrink < 0 {
		return fmt.Errorf("shrink is invalid (%g)", s.Shrink)
	}
	return nil
}

// Unconstrained marks an axis with no definite limit in an AvailableSpace.
var Unconstrained = math.Inf(1)

// AvailableSpace describes the space offered to a layout computation:
// each axis is either a definite length in pixels or unconstrained.
type AvailableSpace struct {
	Width  float64
	Height float64
}

// Definite returns an AvailableSpace bounded on both axes.
func Definite(width, height float64) AvailableSpace {
	return AvailableSpace{Width: width, Height: height}
}

// Unbounded returns an AvailableSpace with no limit on either axis.
func Unbounded() AvailableSpace {
	return AvailableSpace{Width: Unconstrained, Height: Unconstrained}
}

// HasWidth reports whether the width axis is definite.
func (a AvailableSpace) HasWidth() bool {
	return !math.IsInf(a.Width, 1)
}

// HasHeight reports whether the height axis is definite.
func (a AvailableSpace) HasHeight() bool {
	return !math.IsInf(a.Height, 1)
}

// Valid reports whether both axes are non-negative and not NaN.
func (a AvailableSpace) Valid() bool {
	return !math.IsNaN(a.Width) && !math.IsNaN(a.Height) && a.Width >= 0 && a.Height >= 0
}

// MeasureFunc reports the intrinsic content size of a leaf for the offered
// space. Text and images supply one; plain boxes do not need it.
type MeasureFunc func(space AvailableSpace) geometry.Size

// Layout holds the computed position and size after layout calculation.
// Location is relative to the parent's border box; the root sits at (0, 0).
type Layout struct {
	Size     geometry.Size
	Location geometry.Offset
}

// Rect returns the layout as a rectangle in parent-relative coordinates.
func (l Layout) Rect() geometry.Rect {
	return geometry.RectFromLTWH(l.Location.X, l.Location.Y, l.Size.Width, l.Size.Height)
}
