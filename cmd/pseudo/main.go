package main

import (
	"os"

	"github.com/soypat/go-pseudo/cmd/pseudo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
