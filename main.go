//go:build !js

package main

import (
	"os"

	"gobf/pkg/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
