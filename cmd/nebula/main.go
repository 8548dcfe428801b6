// Package main provides the nebula command line tool for inspecting
// stylesheets and layout trees without running an application.
package main

import (
	"os"

	"github.com/arko-martian/NebulaUI-sub000/cmd/nebula/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
