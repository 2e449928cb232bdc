// Package main is the entry point for the nlq CLI binary.
package main

import (
	"os"

	cli "duck-insights/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
