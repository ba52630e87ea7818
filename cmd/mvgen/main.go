// Package main is the entry point for the mvgen CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/mvgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
