// Command scherzod is the motion-control core's command line front end:
// compile a G-code file, run it against the in-process simulator, serve the
// HTTP job API, or talk to a real MCU over serial. It replaces the teacher's
// host/cmd/gopper-host entrypoint (a flag-based interactive shell) with a
// cobra subcommand tree, the way o9nn-echo.go's cmd package structures a
// multi-verb CLI around github.com/spf13/cobra.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
