package cmd

import (
	"fmt"
	"sort"

	"github.com/arko-martian/NebulaUI-sub000/pkg/stylesheet"
)

func init() {
	RegisterCommand(&Command{
		Name:  "styles",
		Short: "Validate a stylesheet file",
		Long: `Styles loads a stylesheet, resolves every named style through the
same path the runtime uses, and reports each one as valid or broken.
The exit status is non-zero when any style fails to resolve.`,
		Usage: "nebula styles <stylesheet.yaml>",
		Run:   runStyles,
	})
}

func runStyles(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: nebula styles <stylesheet.yaml>")
	}

	sheet, err := stylesheet.LoadFile(args[0])
	if err != nil {
		return err
	}
	if len(sheet.Styles) == 0 {
		fmt.Println("no styles defined")
		return nil
	}

	names := make([]string, 0, len(sheet.Styles))
	for name := range sheet.Styles {
		names = append(names, name)
	}
	sort.Strings(names)

	broken := 0
	for _, name := range names {
		style, err := sheet.Resolve(name)
		if err != nil {
			broken++
			fmt.Printf("  %-20s BROKEN: %v\n", name, err)
			continue
		}
		fmt.Printf("  %-20s %s, size %s x %s\n",
			name, style.Direction, style.Size.Width, style.Size.Height)
	}

	fmt.Printf("%d styles, %d broken\n", len(names), broken)
	if broken > 0 {
		return fmt.Errorf("%d broken styles", broken)
	}
	return nil
}
