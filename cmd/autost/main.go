// Package main provides the entry point for the autost CLI.
package main

import (
	"fmt"
	"os"

	"github.com/delan/autost-go/cmd/autost/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
