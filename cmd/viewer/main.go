package main

import (
	"os"

	"cgviewer/internal/viewercli"
)

var version = "0.1.0-dev"

func main() {
	if err := viewercli.NewRootCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}
