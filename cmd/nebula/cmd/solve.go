package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arko-martian/NebulaUI-sub000/pkg/flexbox"
	"github.com/arko-martian/NebulaUI-sub000/pkg/layout"
	"github.com/arko-martian/NebulaUI-sub000/pkg/stylesheet"
	"github.com/arko-martian/NebulaUI-sub000/pkg/text"
)

func init() {
	RegisterCommand(&Command{
		Name:  "solve",
		Short: "Lay out a scene file and print the result",
		Long: `Solve loads a scene file, runs the flexbox solver over its tree,
and prints the computed rectangle of every node.

A scene file combines a stylesheet with a node tree:

    styles:
      app:
        direction: column
        padding: 16
      label:
        grow: 1
    tree:
      style: app
      children:
        - style: label
          text: "hello world"

Nodes with a "text" entry are measured with the built-in font face.
The optional width and height arguments bound the available space;
omitted axes are unconstrained.`,
		Usage: "nebula solve <scene.yaml> [width] [height]",
		Run:   runSolve,
	})
}

// scene is the YAML shape of a scene file.
type scene struct {
	Styles map[string]stylesheet.Definition `yaml:"styles"`
	Tree   *sceneNode                       `yaml:"tree"`
}

type sceneNode struct {
	Style    string       `yaml:"style"`
	Text     string       `yaml:"text"`
	Children []*sceneNode `yaml:"children"`
}

func runSolve(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: nebula solve <scene.yaml> [width] [height]")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var sc scene
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}
	if sc.Tree == nil {
		return fmt.Errorf("%s has no tree section", args[0])
	}

	space := flexbox.Unbounded()
	if len(args) > 1 {
		if space.Width, err = strconv.ParseFloat(args[1], 64); err != nil {
			return fmt.Errorf("invalid width %q", args[1])
		}
	}
	if len(args) > 2 {
		if space.Height, err = strconv.ParseFloat(args[2], 64); err != nil {
			return fmt.Errorf("invalid height %q", args[2])
		}
	}

	sheet := &stylesheet.Sheet{Styles: sc.Styles}
	engine := layout.NewEngine()
	measurer := text.NewMeasurer(nil)

	root, err := buildNode(engine, sheet, measurer, sc.Tree)
	if err != nil {
		return err
	}
	if _, err := engine.ComputeLayout(root, space); err != nil {
		return err
	}
	return printNode(engine, sc.Tree, root, 0)
}

// buildNode recursively allocates arena nodes for a scene subtree.
func buildNode(engine *layout.Engine, sheet *stylesheet.Sheet, measurer *text.Measurer, sn *sceneNode) (layout.NodeID, error) {
	style := flexbox.Style{}
	if sn.Style != "" {
		resolved, err := sheet.Resolve(sn.Style)
		if err != nil {
			return layout.NodeID{}, err
		}
		style = resolved
	}

	if len(sn.Children) == 0 {
		if sn.Text != "" {
			return engine.NewLeafWithMeasure(style, measurer.MeasureFunc(sn.Text))
		}
		return engine.NewLeaf(style)
	}

	children := make([]layout.NodeID, 0, len(sn.Children))
	for _, child := range sn.Children {
		id, err := buildNode(engine, sheet, measurer, child)
		if err != nil {
			return layout.NodeID{}, err
		}
		children = append(children, id)
	}
	return engine.NewWithChildren(style, children...)
}

// printNode walks the scene tree and the arena in lockstep, printing each
// node's computed rectangle indented by depth.
func printNode(engine *layout.Engine, sn *sceneNode, id layout.NodeID, depth int) error {
	l, err := engine.Layout(id)
	if err != nil {
		return err
	}

	fmt.Printf("%s%s  %gx%g at (%g, %g)\n",
		strings.Repeat("  ", depth), nodeLabel(sn),
		l.Size.Width, l.Size.Height, l.Location.X, l.Location.Y)

	children, err := engine.Children(id)
	if err != nil {
		return err
	}
	for i, child := range children {
		if err := printNode(engine, sn.Children[i], child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func nodeLabel(sn *sceneNode) string {
	switch {
	case sn.Style != "":
		return sn.Style
	case sn.Text != "":
		return fmt.Sprintf("text %q", truncate(sn.Text, 20))
	default:
		return "box"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
