// Package main provides the slots CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/slots/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
