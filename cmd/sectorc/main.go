// Command sectorc encrypts and decrypts files with sector cipher modes.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/sectorc/internal/commands"
)

// Global variable for CI stamping.
var version = "unknown - unofficial & generated by unknown"

func main() {
	root := commands.NewRootCommand(version)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
