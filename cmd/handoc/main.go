package main

import (
	"fmt"
	"os"

	"github.com/roboco-io/handoc/internal/cli"
)

// Set by -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "오류: %v\n", err)
		os.Exit(1)
	}
}
