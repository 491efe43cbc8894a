package main

import (
	"fmt"
	"os"

	"github.com/runnerr0/histexport/internal/cli"
)

var version = "dev" // set with -ldflags "-X main.version=..."

func main() {
	if err := cli.Run(version); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "histexport: %v\n", err)
		}
		os.Exit(1)
	}
}
