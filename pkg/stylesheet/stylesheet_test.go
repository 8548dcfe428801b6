package stylesheet

import (
	"os"
	"path/filepath"
	"testing"

	nebulaerrors "github.com/arko-martian/NebulaUI-sub000/pkg/errors"
	"github.com/arko-martian/NebulaUI-sub000/pkg/flexbox"
)

const sampleDoc = `
styles:
  sidebar:
    width: 280
    direction: column
    padding: 12
    gap: 8
  hero:
    height: 40%
    justify: center
    align: stretch
  card:
    grow: 1
    basis: 120
    margin:
      left: 4
      top: 2
      right: 4
      bottom: 2
  overlay:
    position: absolute
    inset:
      left: 10
      top: 20
`

func mustParse(t *testing.T) *Sheet {
	t.Helper()
	sheet, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return sheet
}

func mustResolve(t *testing.T, sheet *Sheet, name string) flexbox.Style {
	t.Helper()
	style, err := sheet.Resolve(name)
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", name, err)
	}
	return style
}

func TestResolveDimensionsAndEdges(t *testing.T) {
	sheet := mustParse(t)

	sidebar := mustResolve(t, sheet, "sidebar")
	if sidebar.Size.Width != flexbox.Points(280) {
		t.Fatalf("sidebar width = %v, want 280px", sidebar.Size.Width)
	}
	if sidebar.Size.Height != flexbox.Auto() {
		t.Fatalf("absent height must stay auto, got %v", sidebar.Size.Height)
	}
	if sidebar.Direction != flexbox.DirectionColumn {
		t.Fatalf("sidebar direction = %v, want column", sidebar.Direction)
	}
	if sidebar.Padding != flexbox.UniformEdges(12) {
		t.Fatalf("scalar padding must apply to all edges, got %+v", sidebar.Padding)
	}
	if sidebar.Gap != 8 {
		t.Fatalf("sidebar gap = %g, want 8", sidebar.Gap)
	}
}

func TestResolvePercentAndEnums(t *testing.T) {
	sheet := mustParse(t)

	hero := mustResolve(t, sheet, "hero")
	if hero.Size.Height != flexbox.Percent(40) {
		t.Fatalf("hero height = %v, want 40%%", hero.Size.Height)
	}
	if hero.Justify != flexbox.JustifyCenter {
		t.Fatalf("hero justify = %v, want center", hero.Justify)
	}
	if hero.Align != flexbox.AlignStretch {
		t.Fatalf("hero align = %v, want stretch", hero.Align)
	}
}

func TestResolveFlexAndPerEdgeMargin(t *testing.T) {
	sheet := mustParse(t)

	card := mustResolve(t, sheet, "card")
	if card.Grow != 1 {
		t.Fatalf("card grow = %g, want 1", card.Grow)
	}
	if card.Basis != flexbox.Points(120) {
		t.Fatalf("card basis = %v, want 120px", card.Basis)
	}
	want := flexbox.EdgeValues{Left: 4, Top: 2, Right: 4, Bottom: 2}
	if card.Margin != want {
		t.Fatalf("card margin = %+v, want %+v", card.Margin, want)
	}
}

func TestResolveAbsoluteInset(t *testing.T) {
	sheet := mustParse(t)

	overlay := mustResolve(t, sheet, "overlay")
	if overlay.Position != flexbox.PositionAbsolute {
		t.Fatalf("overlay position = %v, want absolute", overlay.Position)
	}
	if overlay.Inset.Left != flexbox.Points(10) || overlay.Inset.Top != flexbox.Points(20) {
		t.Fatalf("overlay inset = %+v", overlay.Inset)
	}
	if overlay.Inset.Right != flexbox.Auto() {
		t.Fatalf("absent inset edge must stay auto, got %v", overlay.Inset.Right)
	}
}

func TestResolveUnknownName(t *testing.T) {
	sheet := mustParse(t)

	_, err := sheet.Resolve("missing")
	if err == nil {
		t.Fatal("expected error for unknown style name")
	}
	if nebulaerrors.KindOf(err) != nebulaerrors.KindStylesheet {
		t.Fatalf("got kind %v, want stylesheet", nebulaerrors.KindOf(err))
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("styles: [not a map"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if nebulaerrors.KindOf(err) != nebulaerrors.KindStylesheet {
		t.Fatalf("got kind %v, want stylesheet", nebulaerrors.KindOf(err))
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	docs := map[string]string{
		"bad dimension": "styles:\n  a:\n    width: wide\n",
		"bad percent":   "styles:\n  a:\n    width: x%\n",
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}

func TestResolveRejectsBadEnums(t *testing.T) {
	docs := map[string]string{
		"direction":  "styles:\n  a:\n    direction: diagonal\n",
		"justify":    "styles:\n  a:\n    justify: sideways\n",
		"align":      "styles:\n  a:\n    align: middle\n",
		"align_self": "styles:\n  a:\n    align_self: never\n",
		"position":   "styles:\n  a:\n    position: fixed\n",
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			sheet, err := Parse([]byte(doc))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if _, err := sheet.Resolve("a"); err == nil {
				t.Fatal("expected resolve error")
			}
		})
	}
}

func TestResolveRejectsInvalidStyle(t *testing.T) {
	sheet, err := Parse([]byte("styles:\n  a:\n    grow: -2\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, err := sheet.Resolve("a"); err == nil {
		t.Fatal("negative grow must fail validation")
	}
}

func TestEmptyDocument(t *testing.T) {
	sheet, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if sheet.Styles == nil {
		t.Fatal("empty document must still yield a usable sheet")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.yaml")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	sheet, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if _, ok := sheet.Styles["sidebar"]; !ok {
		t.Fatal("loaded sheet missing expected style")
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadFile must fail for a missing file")
	}
}

func TestLoadOptional(t *testing.T) {
	sheet, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOptional failed: %v", err)
	}
	if len(sheet.Styles) != 0 {
		t.Fatalf("missing file must yield an empty sheet, got %d styles", len(sheet.Styles))
	}
}
