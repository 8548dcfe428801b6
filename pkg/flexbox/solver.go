package flexbox

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/arko-martian/NebulaUI-sub000/pkg/geometry"
)

// Node is the solver's read-only view of a layout tree. The node arena in
// pkg/layout implements it; the solver never mutates the tree.
type Node interface {
	// Style returns the node's box style.
	Style() Style
	// ChildCount returns the number of children.
	ChildCount() int
	// Child returns the i-th child.
	Child(i int) Node
	// Measure reports the intrinsic content size of a leaf, if the node has
	// a measure function attached. The second result is false otherwise.
	Measure(space AvailableSpace) (geometry.Size, bool)
}

// Solve computes the layout of the subtree rooted at root for the given
// available space. Every laid-out node, including root, is reported to sink
// with its size and parent-relative location; the root's location is (0, 0).
//
// Solve always recomputes the full subtree. Short-circuiting clean subtrees
// is the arena's job, not the solver's.
func Solve(root Node, space AvailableSpace, sink func(Node, Layout)) (Layout, error) {
	if root == nil {
		return Layout{}, fmt.Errorf("nil root node")
	}
	if !space.Valid() {
		return Layout{}, fmt.Errorf("invalid available space %gx%g", space.Width, space.Height)
	}
	size, err := layoutNode(root, space, unknown, unknown, sink)
	if err != nil {
		return Layout{}, err
	}
	result := Layout{Size: size}
	if sink != nil {
		sink(root, result)
	}
	return result, nil
}

// unknown marks an axis with no imposed size during a layout pass.
var unknown = math.NaN()

var unboundedGrowWarn sync.Once

// flexItem carries per-child working state across the solver passes.
type flexItem struct {
	node       Node
	style      Style
	hypoMain   float64       // flex-basis resolved main size
	targetMain float64       // main size after grow/shrink distribution
	final      geometry.Size // size from the final pass
}

// layoutNode computes the size of n. knownW/knownH override the styled size
// when not NaN (imposed by the parent, e.g. flex targets or stretching).
// When sink is nil this is a measuring pass and descendants are not reported.
func layoutNode(n Node, space AvailableSpace, knownW, knownH float64, sink func(Node, Layout)) (geometry.Size, error) {
	st := n.Style()
	if err := st.Validate(); err != nil {
		return geometry.Size{}, err
	}

	w, wok := st.Size.Width.Resolve(space.Width)
	if !math.IsNaN(knownW) {
		w, wok = knownW, true
	}
	h, hok := st.Size.Height.Resolve(space.Height)
	if !math.IsNaN(knownH) {
		h, hok = knownH, true
	}

	if n.ChildCount() == 0 {
		size := layoutLeaf(n, st, space, w, wok, h, hok)
		return clampSize(st, size, space), nil
	}
	size, err := layoutContainer(n, st, space, w, wok, h, hok, sink)
	if err != nil {
		return geometry.Size{}, err
	}
	return clampSize(st, size, space), nil
}

// layoutLeaf sizes a childless node from its style, its measure function,
// or its padding when neither provides an axis.
func layoutLeaf(n Node, st Style, space AvailableSpace, w float64, wok bool, h float64, hok bool) geometry.Size {
	if wok && hok {
		return geometry.Size{Width: w, Height: h}
	}

	// Offer the measure function the content box: resolved axes are fixed,
	// unresolved axes pass through the available space minus padding.
	inner := AvailableSpace{
		Width:  innerLength(space.Width, st.Padding.Horizontal()),
		Height: innerLength(space.Height, st.Padding.Vertical()),
	}
	if wok {
		inner.Width = math.Max(w-st.Padding.Horizontal(), 0)
	}
	if hok {
		inner.Height = math.Max(h-st.Padding.Vertical(), 0)
	}

	if measured, ok := n.Measure(inner); ok {
		if !wok {
			w = measured.Width + st.Padding.Horizontal()
		}
		if !hok {
			h = measured.Height + st.Padding.Vertical()
		}
		return geometry.Size{Width: w, Height: h}
	}

	if !wok {
		w = st.Padding.Horizontal()
	}
	if !hok {
		h = st.Padding.Vertical()
	}
	return geometry.Size{Width: w, Height: h}
}

// layoutContainer runs the flex algorithm over the in-flow children and then
// places absolute children against the content box.
func layoutContainer(n Node, st Style, space AvailableSpace, w float64, wok bool, h float64, hok bool, sink func(Node, Layout)) (geometry.Size, error) {
	horizontal := st.Direction == DirectionRow

	mainKnown, mainVal := wok, w
	crossKnown, crossVal := hok, h
	spaceMain, spaceCross := space.Width, space.Height
	padMainStart, padMainSum := st.Padding.Left, st.Padding.Horizontal()
	padCrossStart, padCrossSum := st.Padding.Top, st.Padding.Vertical()
	if !horizontal {
		mainKnown, mainVal, crossKnown, crossVal = hok, h, wok, w
		spaceMain, spaceCross = space.Height, space.Width
		padMainStart, padMainSum = st.Padding.Top, st.Padding.Vertical()
		padCrossStart, padCrossSum = st.Padding.Left, st.Padding.Horizontal()
	}

	// Space offered to children: the content box of this container.
	childSpace := AvailableSpace{
		Width:  innerLength(space.Width, st.Padding.Horizontal()),
		Height: innerLength(space.Height, st.Padding.Vertical()),
	}
	if wok {
		childSpace.Width = math.Max(w-st.Padding.Horizontal(), 0)
	}
	if hok {
		childSpace.Height = math.Max(h-st.Padding.Vertical(), 0)
	}
	childSpaceMain := childSpace.Height
	if horizontal {
		childSpaceMain = childSpace.Width
	}

	var items []flexItem
	var absolute []Node
	for i := 0; i < n.ChildCount(); i++ {
		child := n.Child(i)
		cst := child.Style()
		if cst.Position == PositionAbsolute {
			absolute = append(absolute, child)
			continue
		}
		items = append(items, flexItem{node: child, style: cst})
	}

	// Pass 1: flex basis. Each in-flow child gets a hypothetical main size
	// from its basis, or from a content-sized measuring pass.
	totalHypo := 0.0
	totalGrow := 0.0
	totalShrinkWeight := 0.0
	for i := range items {
		it := &items[i]
		if basis, ok := it.style.Basis.Resolve(childSpaceMain); ok {
			it.hypoMain = basis
		} else {
			size, err := layoutNode(it.node, childSpace, unknown, unknown, nil)
			if err != nil {
				return geometry.Size{}, err
			}
			it.hypoMain = axisMain(size, horizontal)
		}
		it.targetMain = it.hypoMain
		totalHypo += it.hypoMain + axisMainMargin(it.style.Margin, horizontal)
		totalGrow += it.style.Grow
		totalShrinkWeight += it.style.Shrink * it.hypoMain
	}
	gaps := 0.0
	if len(items) > 1 {
		gaps = st.Gap * float64(len(items)-1)
	}

	// Container main size: styled, or shrink-wrapped to content (clamped to
	// the available space when it is definite).
	containerMain := mainVal
	if !mainKnown {
		containerMain = totalHypo + gaps + padMainSum
		if !math.IsInf(spaceMain, 1) {
			containerMain = math.Min(containerMain, spaceMain)
		}
		if totalGrow > 0 && math.IsInf(spaceMain, 1) {
			unboundedGrowWarn.Do(func() {
				log.Printf("WARNING: flex grow children inside an unbounded %s axis cannot flex; they keep their basis size", st.Direction)
			})
		}
	}
	innerMain := math.Max(containerMain-padMainSum, 0)

	// Pass 2: distribute free space by grow factors, or overflow by
	// shrink-weighted factors. Single-round distribution; per-child min/max
	// clamping happens inside the child's own layout.
	free := innerMain - totalHypo - gaps
	if free > 0 && totalGrow > 0 {
		for i := range items {
			items[i].targetMain += free * items[i].style.Grow / totalGrow
		}
	} else if free < 0 && totalShrinkWeight > 0 {
		for i := range items {
			it := &items[i]
			it.targetMain += free * (it.style.Shrink * it.hypoMain) / totalShrinkWeight
			if it.targetMain < 0 {
				it.targetMain = 0
			}
		}
	}

	// Pass 3: measure each child at its target main size to learn the line
	// cross size before cross alignment decisions.
	lineCross := 0.0
	for i := range items {
		it := &items[i]
		kw, kh := it.targetMain, unknown
		if !horizontal {
			kw, kh = unknown, it.targetMain
		}
		size, err := layoutNode(it.node, childSpace, kw, kh, nil)
		if err != nil {
			return geometry.Size{}, err
		}
		it.final = size
		lineCross = math.Max(lineCross, axisCross(size, horizontal)+axisCrossMargin(it.style.Margin, horizontal))
	}

	containerCross := crossVal
	if !crossKnown {
		containerCross = lineCross + padCrossSum
		if !math.IsInf(spaceCross, 1) {
			containerCross = math.Min(containerCross, spaceCross)
		}
	}
	innerCross := math.Max(containerCross-padCrossSum, 0)

	// Main-axis placement: justify-content distributes any leftover space on
	// top of the fixed gap.
	leftover := math.Max(innerMain-(totalHypoTarget(items, horizontal)+gaps), 0)
	lead, spacing := justifySpacing(st.Justify, leftover, st.Gap, len(items))

	// Pass 4: final layout with imposed sizes, reporting descendants, then
	// place each child.
	cursor := padMainStart + lead
	for i := range items {
		it := &items[i]
		crossSize := axisCross(it.final, horizontal)
		stretch := resolveAlign(st.Align, it.style.AlignSelf) == AlignStretch && crossAuto(it.style, horizontal)
		if stretch {
			crossSize = math.Max(innerCross-axisCrossMargin(it.style.Margin, horizontal), 0)
		}

		kw, kh := it.targetMain, crossSize
		if !horizontal {
			kw, kh = crossSize, it.targetMain
		}
		size, err := layoutNode(it.node, childSpace, kw, kh, sink)
		if err != nil {
			return geometry.Size{}, err
		}
		it.final = size

		mainPos := cursor + axisMainMarginStart(it.style.Margin, horizontal)
		crossPos := crossPosition(resolveAlign(st.Align, it.style.AlignSelf), padCrossStart, innerCross, size, it.style.Margin, horizontal)
		if sink != nil {
			sink(it.node, Layout{Size: size, Location: makeOffset(mainPos, crossPos, horizontal)})
		}
		cursor = mainPos + axisMain(size, horizontal) + axisMainMarginEnd(it.style.Margin, horizontal) + spacing
	}

	containerSize := makeSize(containerMain, containerCross, horizontal)

	if err := layoutAbsolute(absolute, st, containerSize, childSpace, sink); err != nil {
		return geometry.Size{}, err
	}
	return containerSize, nil
}

// layoutAbsolute places out-of-flow children against the container's
// content box using their Inset edges.
func layoutAbsolute(children []Node, st Style, container geometry.Size, childSpace AvailableSpace, sink func(Node, Layout)) error {
	contentW := math.Max(container.Width-st.Padding.Horizontal(), 0)
	contentH := math.Max(container.Height-st.Padding.Vertical(), 0)

	for _, child := range children {
		cst := child.Style()

		left, leftOK := cst.Inset.Left.Resolve(contentW)
		right, rightOK := cst.Inset.Right.Resolve(contentW)
		top, topOK := cst.Inset.Top.Resolve(contentH)
		bottom, bottomOK := cst.Inset.Bottom.Resolve(contentH)

		kw, kh := unknown, unknown
		if v, ok := cst.Size.Width.Resolve(contentW); ok {
			kw = v
		} else if leftOK && rightOK {
			kw = math.Max(contentW-left-right, 0)
		}
		if v, ok := cst.Size.Height.Resolve(contentH); ok {
			kh = v
		} else if topOK && bottomOK {
			kh = math.Max(contentH-top-bottom, 0)
		}

		size, err := layoutNode(child, childSpace, kw, kh, sink)
		if err != nil {
			return err
		}

		x := st.Padding.Left
		switch {
		case leftOK:
			x = st.Padding.Left + left
		case rightOK:
			x = container.Width - st.Padding.Right - right - size.Width
		}
		y := st.Padding.Top
		switch {
		case topOK:
			y = st.Padding.Top + top
		case bottomOK:
			y = container.Height - st.Padding.Bottom - bottom - size.Height
		}

		if sink != nil {
			sink(child, Layout{Size: size, Location: geometry.Offset{X: x, Y: y}})
		}
	}
	return nil
}

// clampSize applies the style's min/max bounds to a computed size.
func clampSize(st Style, size geometry.Size, space AvailableSpace) geometry.Size {
	if v, ok := st.MinSize.Width.Resolve(space.Width); ok {
		size.Width = math.Max(size.Width, v)
	}
	if v, ok := st.MaxSize.Width.Resolve(space.Width); ok {
		size.Width = math.Min(size.Width, v)
	}
	if v, ok := st.MinSize.Height.Resolve(space.Height); ok {
		size.Height = math.Max(size.Height, v)
	}
	if v, ok := st.MaxSize.Height.Resolve(space.Height); ok {
		size.Height = math.Min(size.Height, v)
	}
	return size
}

// justifySpacing converts a JustifyContent mode and leftover main-axis space
// into a leading offset and the spacing between adjacent children.
func justifySpacing(j JustifyContent, leftover, gap float64, count int) (lead, spacing float64) {
	spacing = gap
	if count == 0 {
		return 0, spacing
	}
	switch j {
	case JustifyEnd:
		lead = leftover
	case JustifyCenter:
		lead = leftover / 2
	case JustifySpaceBetween:
		if count > 1 {
			spacing += leftover / float64(count-1)
		}
	case JustifySpaceAround:
		share := leftover / float64(count)
		lead = share / 2
		spacing += share
	case JustifySpaceEvenly:
		share := leftover / float64(count+1)
		lead = share
		spacing += share
	}
	return lead, spacing
}

// crossPosition returns the cross-axis coordinate for a child under the
// resolved alignment.
func crossPosition(align AlignItems, padStart, innerCross float64, size geometry.Size, margin EdgeValues, horizontal bool) float64 {
	childCross := axisCross(size, horizontal)
	marginStart := axisCrossMarginStart(margin, horizontal)
	marginSum := axisCrossMargin(margin, horizontal)
	switch align {
	case AlignEnd:
		return padStart + innerCross - childCross - (marginSum - marginStart)
	case AlignCenter:
		return padStart + (innerCross-childCross-marginSum)/2 + marginStart
	default: // start and stretch share the start edge
		return padStart + marginStart
	}
}

// resolveAlign folds a child's AlignSelf override into the container default.
func resolveAlign(container AlignItems, self AlignSelf) AlignItems {
	switch self {
	case AlignSelfStart:
		return AlignStart
	case AlignSelfEnd:
		return AlignEnd
	case AlignSelfCenter:
		return AlignCenter
	case AlignSelfStretch:
		return AlignStretch
	default:
		return container
	}
}

// crossAuto reports whether the child's cross-axis dimension is auto,
// which is the precondition for stretching.
func crossAuto(st Style, horizontal bool) bool {
	if horizontal {
		return st.Size.Height.Kind == DimensionAuto
	}
	return st.Size.Width.Kind == DimensionAuto
}

func totalHypoTarget(items []flexItem, horizontal bool) float64 {
	total := 0.0
	for i := range items {
		total += items[i].targetMain + axisMainMargin(items[i].style.Margin, horizontal)
	}
	return total
}

// innerLength shrinks an available length by edge spacing, preserving
// unconstrained axes.
func innerLength(length, edges float64) float64 {
	if math.IsInf(length, 1) {
		return length
	}
	return math.Max(length-edges, 0)
}

func axisMain(s geometry.Size, horizontal bool) float64 {
	if horizontal {
		return s.Width
	}
	return s.Height
}

func axisCross(s geometry.Size, horizontal bool) float64 {
	if horizontal {
		return s.Height
	}
	return s.Width
}

func axisMainMargin(m EdgeValues, horizontal bool) float64 {
	if horizontal {
		return m.Horizontal()
	}
	return m.Vertical()
}

func axisCrossMargin(m EdgeValues, horizontal bool) float64 {
	if horizontal {
		return m.Vertical()
	}
	return m.Horizontal()
}

func axisMainMarginStart(m EdgeValues, horizontal bool) float64 {
	if horizontal {
		return m.Left
	}
	return m.Top
}

func axisMainMarginEnd(m EdgeValues, horizontal bool) float64 {
	if horizontal {
		return m.Right
	}
	return m.Bottom
}

func axisCrossMarginStart(m EdgeValues, horizontal bool) float64 {
	if horizontal {
		return m.Top
	}
	return m.Left
}

func makeSize(main, cross float64, horizontal bool) geometry.Size {
	if horizontal {
		return geometry.Size{Width: main, Height: cross}
	}
	return geometry.Size{Width: cross, Height: main}
}

func makeOffset(main, cross float64, horizontal bool) geometry.Offset {
	if horizontal {
		return geometry.Offset{X: main, Y: cross}
	}
	return geometry.Offset{X: cross, Y: main}
}
