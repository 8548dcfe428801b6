package layout

import (
	"math"
	"testing"

	"github.com/arko-martian/NebulaUI-sub000/pkg/errors"
	"github.com/arko-martian/NebulaUI-sub000/pkg/flexbox"
	"github.com/arko-martian/NebulaUI-sub000/pkg/geometry"
)

func mustLeaf(t *testing.T, e *Engine, style flexbox.Style) NodeID {
	t.Helper()
	id, err := e.NewLeaf(style)
	if err != nil {
		t.Fatalf("NewLeaf failed: %v", err)
	}
	return id
}

func fixedLeaf(t *testing.T, e *Engine, w, h float64) NodeID {
	t.Helper()
	return mustLeaf(t, e, flexbox.Style{Size: flexbox.FixedSize(w, h)})
}

func wantKind(t *testing.T, err error, kind errors.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", kind)
	}
	if got := errors.KindOf(err); got != kind {
		t.Fatalf("expected %v error, got %v: %v", kind, got, err)
	}
}

func TestZeroNodeIDIsInvalid(t *testing.T) {
	var id NodeID
	if id.IsValid() {
		t.Fatal("zero NodeID must be invalid")
	}

	e := NewEngine()
	_, err := e.Style(id)
	wantKind(t, err, errors.KindInvalidHandle)
}

func TestLeafLayoutUsesStyledSize(t *testing.T) {
	e := NewEngine()
	leaf := fixedLeaf(t, e, 100, 50)

	result, err := e.ComputeLayout(leaf, flexbox.Unbounded())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}
	want := geometry.Size{Width: 100, Height: 50}
	if result.Size != want {
		t.Fatalf("got size %+v, want %+v", result.Size, want)
	}
	if result.Location != (geometry.Offset{}) {
		t.Fatalf("root location must be the origin, got %+v", result.Location)
	}
}

func TestComputeLayoutCachesCleanNodes(t *testing.T) {
	e := NewEngine()
	leaf := fixedLeaf(t, e, 100, 50)
	space := flexbox.Definite(400, 400)

	first, err := e.ComputeLayout(leaf, space)
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}
	if e.SolveCount() != 1 {
		t.Fatalf("expected 1 solve, got %d", e.SolveCount())
	}
	if e.DirtyCount() != 0 {
		t.Fatalf("expected clean tree after compute, got %d dirty nodes", e.DirtyCount())
	}

	second, err := e.ComputeLayout(leaf, space)
	if err != nil {
		t.Fatalf("cached ComputeLayout failed: %v", err)
	}
	if e.SolveCount() != 1 {
		t.Fatalf("clean repeat compute must not re-solve; solves = %d", e.SolveCount())
	}
	if first != second {
		t.Fatalf("cached result %+v differs from original %+v", second, first)
	}
}

func TestComputeLayoutSkipsMeasureWhenCached(t *testing.T) {
	e := NewEngine()
	measures := 0
	leaf, err := e.NewLeafWithMeasure(flexbox.Style{}, func(flexbox.AvailableSpace) geometry.Size {
		measures++
		return geometry.Size{Width: 30, Height: 10}
	})
	if err != nil {
		t.Fatalf("NewLeafWithMeasure failed: %v", err)
	}

	space := flexbox.Definite(200, 200)
	if _, err := e.ComputeLayout(leaf, space); err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}
	if measures == 0 {
		t.Fatal("measure function never invoked")
	}
	calls := measures

	if _, err := e.ComputeLayout(leaf, space); err != nil {
		t.Fatalf("cached ComputeLayout failed: %v", err)
	}
	if measures != calls {
		t.Fatalf("cached compute re-measured: %d calls, want %d", measures, calls)
	}
}

func TestComputeLayoutMissesCacheOnNewSpace(t *testing.T) {
	e := NewEngine()
	leaf := mustLeaf(t, e, flexbox.Style{Size: flexbox.Dimensions{
		Width:  flexbox.Percent(50),
		Height: flexbox.Points(10),
	}})

	first, err := e.ComputeLayout(leaf, flexbox.Definite(200, 100))
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}
	if first.Size.Width != 100 {
		t.Fatalf("got width %g, want 100", first.Size.Width)
	}

	second, err := e.ComputeLayout(leaf, flexbox.Definite(400, 100))
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}
	if second.Size.Width != 200 {
		t.Fatalf("got width %g, want 200", second.Size.Width)
	}
	if e.SolveCount() != 2 {
		t.Fatalf("different space must re-solve; solves = %d", e.SolveCount())
	}
}

func TestSetStyleInvalidatesAndRecomputes(t *testing.T) {
	e := NewEngine()
	leaf := fixedLeaf(t, e, 100, 50)
	space := flexbox.Unbounded()

	if _, err := e.ComputeLayout(leaf, space); err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}

	if err := e.SetStyle(leaf, flexbox.Style{Size: flexbox.FixedSize(200, 100)}); err != nil {
		t.Fatalf("SetStyle failed: %v", err)
	}
	dirty, err := e.IsDirty(leaf)
	if err != nil {
		t.Fatalf("IsDirty failed: %v", err)
	}
	if !dirty {
		t.Fatal("SetStyle must mark the node dirty")
	}

	result, err := e.ComputeLayout(leaf, space)
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}
	want := geometry.Size{Width: 200, Height: 100}
	if result.Size != want {
		t.Fatalf("got size %+v, want %+v", result.Size, want)
	}
	if e.SolveCount() != 2 {
		t.Fatalf("expected 2 solves, got %d", e.SolveCount())
	}
}

func TestVStackComposition(t *testing.T) {
	e := NewEngine()
	top := fixedLeaf(t, e, 100, 50)
	bottom := fixedLeaf(t, e, 100, 50)
	root, err := e.CreateVStack(top, bottom)
	if err != nil {
		t.Fatalf("CreateVStack failed: %v", err)
	}

	result, err := e.ComputeLayout(root, flexbox.Unbounded())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}
	if want := (geometry.Size{Width: 100, Height: 100}); result.Size != want {
		t.Fatalf("got container size %+v, want %+v", result.Size, want)
	}

	topLayout, err := e.Layout(top)
	if err != nil {
		t.Fatalf("Layout(top) failed: %v", err)
	}
	if topLayout.Location != (geometry.Offset{X: 0, Y: 0}) {
		t.Fatalf("top child at %+v, want origin", topLayout.Location)
	}
	bottomLayout, err := e.Layout(bottom)
	if err != nil {
		t.Fatalf("Layout(bottom) failed: %v", err)
	}
	if bottomLayout.Location != (geometry.Offset{X: 0, Y: 50}) {
		t.Fatalf("bottom child at %+v, want (0, 50)", bottomLayout.Location)
	}
}

func TestHStackComposition(t *testing.T) {
	e := NewEngine()
	left := fixedLeaf(t, e, 50, 100)
	right := fixedLeaf(t, e, 50, 100)
	root, err := e.CreateHStack(left, right)
	if err != nil {
		t.Fatalf("CreateHStack failed: %v", err)
	}

	result, err := e.ComputeLayout(root, flexbox.Unbounded())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}
	if want := (geometry.Size{Width: 100, Height: 100}); result.Size != want {
		t.Fatalf("got container size %+v, want %+v", result.Size, want)
	}
	rightLayout, err := e.Layout(right)
	if err != nil {
		t.Fatalf("Layout(right) failed: %v", err)
	}
	if rightLayout.Location != (geometry.Offset{X: 50, Y: 0}) {
		t.Fatalf("right child at %+v, want (50, 0)", rightLayout.Location)
	}
}

func TestHStackWithGap(t *testing.T) {
	e := NewEngine()
	left := fixedLeaf(t, e, 30, 30)
	right := fixedLeaf(t, e, 30, 30)
	root, err := e.NewWithChildren(flexbox.Style{Direction: flexbox.DirectionRow, Gap: 10}, left, right)
	if err != nil {
		t.Fatalf("NewWithChildren failed: %v", err)
	}

	result, err := e.ComputeLayout(root, flexbox.Unbounded())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}
	if want := (geometry.Size{Width: 70, Height: 30}); result.Size != want {
		t.Fatalf("got container size %+v, want %+v", result.Size, want)
	}
	rightLayout, err := e.Layout(right)
	if err != nil {
		t.Fatalf("Layout(right) failed: %v", err)
	}
	if rightLayout.Location.X != 40 {
		t.Fatalf("right child at x=%g, want 40", rightLayout.Location.X)
	}
}

func TestGrowDistribution(t *testing.T) {
	e := NewEngine()
	small := mustLeaf(t, e, flexbox.Style{
		Size:  flexbox.Dimensions{Height: flexbox.Points(50)},
		Grow:  1,
		Basis: flexbox.Points(0),
	})
	big := mustLeaf(t, e, flexbox.Style{
		Size:  flexbox.Dimensions{Height: flexbox.Points(50)},
		Grow:  2,
		Basis: flexbox.Points(0),
	})
	root, err := e.NewWithChildren(flexbox.Style{
		Direction: flexbox.DirectionRow,
		Size:      flexbox.FixedSize(300, 50),
	}, small, big)
	if err != nil {
		t.Fatalf("NewWithChildren failed: %v", err)
	}

	if _, err := e.ComputeLayout(root, flexbox.Unbounded()); err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}
	smallLayout, _ := e.Layout(small)
	bigLayout, _ := e.Layout(big)
	if smallLayout.Size.Width != 100 {
		t.Fatalf("grow 1 child width = %g, want 100", smallLayout.Size.Width)
	}
	if bigLayout.Size.Width != 200 {
		t.Fatalf("grow 2 child width = %g, want 200", bigLayout.Size.Width)
	}
}

func TestMutationDirtiesAncestors(t *testing.T) {
	e := NewEngine()
	leaf := fixedLeaf(t, e, 10, 10)
	mid, err := e.CreateVStack(leaf)
	if err != nil {
		t.Fatalf("CreateVStack failed: %v", err)
	}
	root, err := e.CreateVStack(mid)
	if err != nil {
		t.Fatalf("CreateVStack failed: %v", err)
	}

	if _, err := e.ComputeLayout(root, flexbox.Unbounded()); err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}
	if e.DirtyCount() != 0 {
		t.Fatalf("expected clean tree, got %d dirty nodes", e.DirtyCount())
	}

	if err := e.SetStyle(leaf, flexbox.Style{Size: flexbox.FixedSize(20, 20)}); err != nil {
		t.Fatalf("SetStyle failed: %v", err)
	}
	for _, id := range []NodeID{leaf, mid, root} {
		dirty, err := e.IsDirty(id)
		if err != nil {
			t.Fatalf("IsDirty(%v) failed: %v", id, err)
		}
		if !dirty {
			t.Fatalf("%v must be dirty after a descendant mutation", id)
		}
	}
}

func TestAddChildAndChildren(t *testing.T) {
	e := NewEngine()
	root, err := e.CreateVStack()
	if err != nil {
		t.Fatalf("CreateVStack failed: %v", err)
	}
	a := fixedLeaf(t, e, 10, 10)
	b := fixedLeaf(t, e, 10, 10)

	if err := e.AddChild(root, a); err != nil {
		t.Fatalf("AddChild failed: %v", err)
	}
	if err := e.AddChild(root, b); err != nil {
		t.Fatalf("AddChild failed: %v", err)
	}

	children, err := e.Children(root)
	if err != nil {
		t.Fatalf("Children failed: %v", err)
	}
	if len(children) != 2 || children[0] != a || children[1] != b {
		t.Fatalf("got children %v, want [%v %v]", children, a, b)
	}
}

func TestRemoveChild(t *testing.T) {
	e := NewEngine()
	a := fixedLeaf(t, e, 10, 10)
	b := fixedLeaf(t, e, 10, 10)
	root, err := e.CreateHStack(a, b)
	if err != nil {
		t.Fatalf("CreateHStack failed: %v", err)
	}

	removed, err := e.RemoveChild(root, a)
	if err != nil {
		t.Fatalf("RemoveChild failed: %v", err)
	}
	if removed != a {
		t.Fatalf("removed %v, want %v", removed, a)
	}
	count, err := e.ChildCount(root)
	if err != nil {
		t.Fatalf("ChildCount failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d children, want 1", count)
	}

	// The removed node stays alive and usable on its own.
	if _, err := e.ComputeLayout(a, flexbox.Unbounded()); err != nil {
		t.Fatalf("removed child must remain usable: %v", err)
	}
}

func TestRemoveChildNotAChild(t *testing.T) {
	e := NewEngine()
	a := fixedLeaf(t, e, 10, 10)
	stranger := fixedLeaf(t, e, 10, 10)
	root, err := e.CreateHStack(a)
	if err != nil {
		t.Fatalf("CreateHStack failed: %v", err)
	}

	_, err = e.RemoveChild(root, stranger)
	wantKind(t, err, errors.KindInvalidChild)

	children, _ := e.Children(root)
	if len(children) != 1 || children[0] != a {
		t.Fatalf("failed removal must leave children unchanged, got %v", children)
	}
}

func TestRemoveNodeInvalidatesHandles(t *testing.T) {
	e := NewEngine()
	leaf := fixedLeaf(t, e, 10, 10)
	root, err := e.CreateVStack(leaf)
	if err != nil {
		t.Fatalf("CreateVStack failed: %v", err)
	}

	if err := e.RemoveNode(leaf); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}

	_, err = e.Style(leaf)
	wantKind(t, err, errors.KindInvalidHandle)
	count, err := e.ChildCount(root)
	if err != nil {
		t.Fatalf("ChildCount failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("parent kept %d children after RemoveNode", count)
	}
}

func TestRemoveNodeRemovesSubtree(t *testing.T) {
	e := NewEngine()
	leaf := fixedLeaf(t, e, 10, 10)
	mid, err := e.CreateVStack(leaf)
	if err != nil {
		t.Fatalf("CreateVStack failed: %v", err)
	}
	root, err := e.CreateVStack(mid)
	if err != nil {
		t.Fatalf("CreateVStack failed: %v", err)
	}

	if err := e.RemoveNode(mid); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}

	if _, err := e.Style(leaf); errors.KindOf(err) != errors.KindInvalidHandle {
		t.Fatalf("descendant handle must be stale, got %v", err)
	}
	if e.NodeCount() != 1 {
		t.Fatalf("got %d live nodes, want 1", e.NodeCount())
	}
	if _, err := e.Style(root); err != nil {
		t.Fatalf("root must survive: %v", err)
	}
}

func TestStaleHandleSurvivesSlotReuse(t *testing.T) {
	e := NewEngine()
	old := fixedLeaf(t, e, 10, 10)
	if err := e.RemoveNode(old); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}

	// The next allocation reuses the tombstoned slot with a new generation.
	fresh := fixedLeaf(t, e, 20, 20)
	if fresh == old {
		t.Fatal("reused slot must carry a different generation")
	}

	_, err := e.Style(old)
	wantKind(t, err, errors.KindInvalidHandle)
	style, err := e.Style(fresh)
	if err != nil {
		t.Fatalf("fresh handle must resolve: %v", err)
	}
	if style.Size.Width.Value != 20 {
		t.Fatalf("fresh handle resolved to the wrong node: %+v", style)
	}
}

func TestLayoutBeforeCompute(t *testing.T) {
	e := NewEngine()
	leaf := fixedLeaf(t, e, 10, 10)

	_, err := e.Layout(leaf)
	wantKind(t, err, errors.KindMissingLayout)
}

func TestComputeLayoutRejectsInvalidSpace(t *testing.T) {
	e := NewEngine()
	leaf := fixedLeaf(t, e, 10, 10)

	_, err := e.ComputeLayout(leaf, flexbox.AvailableSpace{Width: math.NaN(), Height: 100})
	wantKind(t, err, errors.KindSolver)
}

func TestNewLeafRejectsInvalidStyle(t *testing.T) {
	e := NewEngine()
	_, err := e.NewLeaf(flexbox.Style{Grow: -1})
	wantKind(t, err, errors.KindSolver)
	if e.NodeCount() != 0 {
		t.Fatalf("failed allocation must not leak a node, count = %d", e.NodeCount())
	}
}

func TestNewWithChildrenRejectsForeignHandle(t *testing.T) {
	e := NewEngine()
	other := NewEngine()
	foreign := fixedLeaf(t, other, 10, 10)

	_, err := e.NewWithChildren(flexbox.Column(), foreign)
	wantKind(t, err, errors.KindInvalidHandle)
}

func TestReset(t *testing.T) {
	e := NewEngine()
	leaf := fixedLeaf(t, e, 10, 10)
	if _, err := e.ComputeLayout(leaf, flexbox.Unbounded()); err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}

	e.Reset()

	if e.NodeCount() != 0 || e.DirtyCount() != 0 || e.SolveCount() != 0 {
		t.Fatalf("Reset left state behind: nodes=%d dirty=%d solves=%d",
			e.NodeCount(), e.DirtyCount(), e.SolveCount())
	}
	_, err := e.Style(leaf)
	wantKind(t, err, errors.KindInvalidHandle)
}

func BenchmarkComputeLayoutCached(b *testing.B) {
	e := NewEngine()
	var rows []NodeID
	for i := 0; i < 100; i++ {
		leaf, err := e.NewLeaf(flexbox.Style{Size: flexbox.FixedSize(100, 20)})
		if err != nil {
			b.Fatal(err)
		}
		rows = append(rows, leaf)
	}
	root, err := e.CreateVStack(rows...)
	if err != nil {
		b.Fatal(err)
	}
	space := flexbox.Definite(800, 600)
	if _, err := e.ComputeLayout(root, space); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.ComputeLayout(root, space); err != nil {
			b.Fatal(err)
		}
	}
}
