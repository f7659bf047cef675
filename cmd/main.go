package main

import (
	"fmt"
	"os"

	"github.com/rony4d/go-rollup-restore/cmd/restore/launcher"
)

func main() {

	// Hand the full argument list to the launcher; it owns flag parsing
	if err := launcher.Launch(os.Args); err != nil {

		// Report the issue to stderr so stdout stays clean JSON
		fmt.Fprintln(os.Stderr, "Error:", err)

		// Exit with a non-zero status code to indicate failure
		os.Exit(1)
	}
}
