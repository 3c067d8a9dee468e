// Command sanctuary replays intake manifests against the sanctuary placement
// service and prints or exports the resulting census.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
