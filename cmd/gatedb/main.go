// Package main is the entry point for the gatedb CLI binary.
package main

import (
	"os"

	"github.com/gatedb/gatedb/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
