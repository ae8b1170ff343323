// Command notifykit manages Unity notification settings and patches
// exported mobile builds.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/notifykit/cmd/notifykit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
