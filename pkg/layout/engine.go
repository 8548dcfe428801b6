// Package layout provides the node arena that owns the widget layout tree.
//
// The arena hands out opaque [NodeID] handles, routes every style and
// structural mutation through its own methods so dirtiness can be tracked,
// and memoizes the last computed layout per node. [Engine.ComputeLayout]
// short-circuits to the cache when the requested node is clean; otherwise it
// re-solves the subtree through the flexbox solver and re-caches the results.
//
// Dirtiness propagates upward on every mutation, mirroring the relayout
// boundary walk in Flutter-style frameworks: a clean node therefore implies a
// clean subtree, which is what makes the cache short-circuit safe.
//
// The engine is single-threaded by design. All methods must be called from
// the thread that owns the widget tree; there is no internal locking.
package layout

import (
	"fmt"

	"github.com/arko-martian/NebulaUI-sub000/pkg/errors"
	"github.com/arko-martian/NebulaUI-sub000/pkg/flexbox"
	"github.com/arko-martian/NebulaUI-sub000/pkg/geometry"
)

// NodeID is an opaque, generation-counted handle into the node arena.
//
// The zero value is invalid. Handles for removed nodes are detectably stale:
// every operation on them fails with an invalid-handle error instead of
// touching whatever node reused the slot.
type NodeID struct {
	index      uint32
	generation uint32
}

// IsValid reports whether the handle was ever issued by an arena.
// It does not check liveness; a removed node's handle is "valid but stale".
func (id NodeID) IsValid() bool {
	return id.generation != 0
}

// String returns a human-readable representation of the handle.
func (id NodeID) String() string {
	return fmt.Sprintf("node(%d v%d)", id.index, id.generation)
}

// node is the arena's internal per-slot record.
type node struct {
	style      flexbox.Style
	measure    flexbox.MeasureFunc
	children   []NodeID
	parent     NodeID
	generation uint32
	live       bool

	// layout caching
	layout    flexbox.Layout
	hasLayout bool
	lastSpace flexbox.AvailableSpace
}

// Engine owns all layout nodes and their cached results.
type Engine struct {
	nodes []node
	free  []uint32 // tombstoned slots available for reuse
	dirty map[NodeID]struct{}

	solves int // solver invocations, for diagnostics and tests
}

// NewEngine creates an empty node arena.
func NewEngine() *Engine {
	return &Engine{dirty: make(map[NodeID]struct{})}
}

// resolve maps a handle to its slot, rejecting stale and foreign handles.
func (e *Engine) resolve(id NodeID) (*node, bool) {
	if !id.IsValid() || int(id.index) >= len(e.nodes) {
		return nil, false
	}
	n := &e.nodes[id.index]
	if !n.live || n.generation != id.generation {
		return nil, false
	}
	return n, true
}

// alloc reserves a slot, reusing tombstones with a bumped generation.
func (e *Engine) alloc(style flexbox.Style, measure flexbox.MeasureFunc) NodeID {
	if len(e.free) > 0 {
		idx := e.free[len(e.free)-1]
		e.free = e.free[:len(e.free)-1]
		slot := &e.nodes[idx]
		gen := slot.generation + 1
		*slot = node{style: style, measure: measure, generation: gen, live: true}
		return NodeID{index: idx, generation: gen}
	}
	e.nodes = append(e.nodes, node{style: style, measure: measure, generation: 1, live: true})
	return NodeID{index: uint32(len(e.nodes) - 1), generation: 1}
}

// markDirty records the node and every ancestor as needing recomputation.
// The walk stops early at a node that is already dirty, since its ancestors
// were marked when it was.
func (e *Engine) markDirty(id NodeID) {
	for id.IsValid() {
		if _, exists := e.dirty[id]; exists {
			return
		}
		e.dirty[id] = struct{}{}
		n, ok := e.resolve(id)
		if !ok {
			return
		}
		id = n.parent
	}
}

// NewLeaf allocates a childless node with the given style and marks it dirty.
func (e *Engine) NewLeaf(style flexbox.Style) (NodeID, error) {
	const op = "layout.Engine.NewLeaf"
	if err := style.Validate(); err != nil {
		return NodeID{}, errors.Wrap(op, errors.KindSolver, err)
	}
	id := e.alloc(style, nil)
	e.markDirty(id)
	return id, nil
}

// NewLeafWithMeasure allocates a childless node whose content size comes from
// a measure function (text, images). The function is invoked during solving
// whenever the style leaves an axis unresolved.
func (e *Engine) NewLeafWithMeasure(style flexbox.Style, measure flexbox.MeasureFunc) (NodeID, error) {
	const op = "layout.Engine.NewLeafWithMeasure"
	if err := style.Validate(); err != nil {
		return NodeID{}, errors.Wrap(op, errors.KindSolver, err)
	}
	id := e.alloc(style, measure)
	e.markDirty(id)
	return id, nil
}

// NewWithChildren allocates a container node referencing already-existing
// children. The children become logical children of the new node; they are
// not copied. Fails if any child handle does not belong to this arena.
func (e *Engine) NewWithChildren(style flexbox.Style, children ...NodeID) (NodeID, error) {
	const op = "layout.Engine.NewWithChildren"
	if err := style.Validate(); err != nil {
		return NodeID{}, errors.Wrap(op, errors.KindSolver, err)
	}
	for _, child := range children {
		if _, ok := e.resolve(child); !ok {
			return NodeID{}, errors.New(op, errors.KindInvalidHandle, child.String())
		}
	}
	id := e.alloc(style, nil)
	n := &e.nodes[id.index]
	n.children = append(n.children, children...)
	for _, child := range children {
		cn, _ := e.resolve(child)
		cn.parent = id
	}
	e.markDirty(id)
	return id, nil
}

// CreateVStack allocates a column container over the given children.
func (e *Engine) CreateVStack(children ...NodeID) (NodeID, error) {
	return e.NewWithChildren(flexbox.Column(), children...)
}

// CreateHStack allocates a row container over the given children.
func (e *Engine) CreateHStack(children ...NodeID) (NodeID, error) {
	return e.NewWithChildren(flexbox.Row(), children...)
}

// SetStyle replaces the node's style in place and marks it dirty.
func (e *Engine) SetStyle(id NodeID, style flexbox.Style) error {
	const op = "layout.Engine.SetStyle"
	n, ok := e.resolve(id)
	if !ok {
		return errors.New(op, errors.KindInvalidHandle, id.String())
	}
	if err := style.Validate(); err != nil {
		return errors.Wrap(op, errors.KindSolver, err)
	}
	n.style = style
	e.markDirty(id)
	return nil
}

// Style returns the node's current style.
func (e *Engine) Style(id NodeID) (flexbox.Style, error) {
	const op = "layout.Engine.Style"
	n, ok := e.resolve(id)
	if !ok {
		return flexbox.Style{}, errors.New(op, errors.KindInvalidHandle, id.String())
	}
	return n.style, nil
}

// SetMeasure replaces the node's measure function and marks it dirty.
func (e *Engine) SetMeasure(id NodeID, measure flexbox.MeasureFunc) error {
	const op = "layout.Engine.SetMeasure"
	n, ok := e.resolve(id)
	if !ok {
		return errors.New(op, errors.KindInvalidHandle, id.String())
	}
	n.measure = measure
	e.markDirty(id)
	return nil
}

// AddChild appends child to parent's children and marks the parent dirty.
func (e *Engine) AddChild(parent, child NodeID) error {
	const op = "layout.Engine.AddChild"
	pn, ok := e.resolve(parent)
	if !ok {
		return errors.New(op, errors.KindInvalidHandle, parent.String())
	}
	cn, ok := e.resolve(child)
	if !ok {
		return errors.New(op, errors.KindInvalidHandle, child.String())
	}
	pn.children = append(pn.children, child)
	cn.parent = parent
	e.markDirty(parent)
	return nil
}

// RemoveChild detaches child from parent and returns the removed handle.
// Fails, leaving parent's children unchanged, if child is not currently a
// child of parent.
func (e *Engine) RemoveChild(parent, child NodeID) (NodeID, error) {
	const op = "layout.Engine.RemoveChild"
	pn, ok := e.resolve(parent)
	if !ok {
		return NodeID{}, errors.New(op, errors.KindInvalidHandle, parent.String())
	}
	for i, c := range pn.children {
		if c == child {
			pn.children = append(pn.children[:i], pn.children[i+1:]...)
			if cn, ok := e.resolve(child); ok {
				cn.parent = NodeID{}
			}
			e.markDirty(parent)
			return child, nil
		}
	}
	return NodeID{}, errors.New(op, errors.KindInvalidChild,
		fmt.Sprintf("%s is not a child of %s", child, parent))
}

// RemoveNode removes a node and its entire subtree from the arena.
// The node is detached from its parent (which becomes dirty) and every slot
// in the subtree is tombstoned, so stale handles are rejected rather than
// resolving to recycled nodes.
func (e *Engine) RemoveNode(id NodeID) error {
	const op = "layout.Engine.RemoveNode"
	n, ok := e.resolve(id)
	if !ok {
		return errors.New(op, errors.KindInvalidHandle, id.String())
	}
	if parent := n.parent; parent.IsValid() {
		if pn, ok := e.resolve(parent); ok {
			for i, c := range pn.children {
				if c == id {
					pn.children = append(pn.children[:i], pn.children[i+1:]...)
					break
				}
			}
			e.markDirty(parent)
		}
	}
	e.removeSubtree(id)
	return nil
}

func (e *Engine) removeSubtree(id NodeID) {
	n, ok := e.resolve(id)
	if !ok {
		return
	}
	for _, child := range n.children {
		e.removeSubtree(child)
	}
	delete(e.dirty, id)
	n.live = false
	n.children = nil
	n.measure = nil
	e.free = append(e.free, id.index)
}

// ChildCount returns the number of children of a node.
func (e *Engine) ChildCount(id NodeID) (int, error) {
	const op = "layout.Engine.ChildCount"
	n, ok := e.resolve(id)
	if !ok {
		return 0, errors.New(op, errors.KindInvalidHandle, id.String())
	}
	return len(n.children), nil
}

// Children returns a copy of the node's child handles in order.
func (e *Engine) Children(id NodeID) ([]NodeID, error) {
	const op = "layout.Engine.Children"
	n, ok := e.resolve(id)
	if !ok {
		return nil, errors.New(op, errors.KindInvalidHandle, id.String())
	}
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out, nil
}

// ComputeLayout returns the layout of a node for the given available space.
//
// If the node is clean, a cached result exists, and the cached solve used the
// same available space, the cache is returned without invoking the solver.
// Otherwise the flexbox solver runs over the subtree, every solved node's
// layout is re-cached, and the solved nodes leave the dirty set.
func (e *Engine) ComputeLayout(id NodeID, space flexbox.AvailableSpace) (flexbox.Layout, error) {
	const op = "layout.Engine.ComputeLayout"
	n, ok := e.resolve(id)
	if !ok {
		return flexbox.Layout{}, errors.New(op, errors.KindInvalidHandle, id.String())
	}
	if _, isDirty := e.dirty[id]; !isDirty && n.hasLayout && n.lastSpace == space {
		return n.layout, nil
	}

	e.solves++
	result, err := flexbox.Solve(solverNode{engine: e, index: id.index}, space, func(sn flexbox.Node, l flexbox.Layout) {
		slot := &e.nodes[sn.(solverNode).index]
		slot.layout = l
		slot.hasLayout = true
		// Descendants are cached as if solved tight at their computed size;
		// only the requested root keeps the caller's space as its cache key.
		slot.lastSpace = flexbox.Definite(l.Size.Width, l.Size.Height)
		delete(e.dirty, NodeID{index: sn.(solverNode).index, generation: slot.generation})
	})
	if err != nil {
		return flexbox.Layout{}, errors.Wrap(op, errors.KindSolver, err)
	}
	n.lastSpace = space
	return result, nil
}

// Layout returns the cached layout for a node without triggering any
// recomputation. Fails if no layout has ever been computed for the node.
func (e *Engine) Layout(id NodeID) (flexbox.Layout, error) {
	const op = "layout.Engine.Layout"
	n, ok := e.resolve(id)
	if !ok {
		return flexbox.Layout{}, errors.New(op, errors.KindInvalidHandle, id.String())
	}
	if !n.hasLayout {
		return flexbox.Layout{}, errors.New(op, errors.KindMissingLayout, id.String())
	}
	return n.layout, nil
}

// IsDirty reports whether the node awaits recomputation.
func (e *Engine) IsDirty(id NodeID) (bool, error) {
	const op = "layout.Engine.IsDirty"
	if _, ok := e.resolve(id); !ok {
		return false, errors.New(op, errors.KindInvalidHandle, id.String())
	}
	_, isDirty := e.dirty[id]
	return isDirty, nil
}

// DirtyCount returns the number of nodes awaiting recomputation.
func (e *Engine) DirtyCount() int {
	return len(e.dirty)
}

// NodeCount returns the number of live nodes in the arena.
func (e *Engine) NodeCount() int {
	count := 0
	for i := range e.nodes {
		if e.nodes[i].live {
			count++
		}
	}
	return count
}

// SolveCount returns how many times the solver has been invoked.
// Frame loops use this to confirm cached frames stayed cache-only.
func (e *Engine) SolveCount() int {
	return e.solves
}

// Reset drops every node, cache entry, and dirty mark, returning the arena
// to its freshly constructed state. Outstanding handles become stale.
func (e *Engine) Reset() {
	e.nodes = nil
	e.free = nil
	e.dirty = make(map[NodeID]struct{})
	e.solves = 0
}

// solverNode adapts an arena slot to the solver's Node interface.
type solverNode struct {
	engine *Engine
	index  uint32
}

func (s solverNode) Style() flexbox.Style {
	return s.engine.nodes[s.index].style
}

func (s solverNode) ChildCount() int {
	return len(s.engine.nodes[s.index].children)
}

func (s solverNode) Child(i int) flexbox.Node {
	child := s.engine.nodes[s.index].children[i]
	return solverNode{engine: s.engine, index: child.index}
}

func (s solverNode) Measure(space flexbox.AvailableSpace) (geometry.Size, bool) {
	m := s.engine.nodes[s.index].measure
	if m == nil {
		return geometry.Size{}, false
	}
	return m(space), true
}
