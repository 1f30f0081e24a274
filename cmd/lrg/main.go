// Command lrg lists the largest (or smallest) files in a directory tree.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/idelchi/lrg/internal/cli"
)

// Global variable for CI stamping.
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		msg := err.Error()
		if !strings.HasPrefix(msg, "lrg: ") {
			msg = "lrg: " + msg
		}

		fmt.Fprintln(os.Stderr, msg)
		os.Exit(cli.ExitCode(err))
	}
}
