// Package main provides the entry point for the gatotkaca CLI.
package main

import (
	"os"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/cmd/gatotkaca/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
