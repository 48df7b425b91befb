// Command mediashelf is the terminal browser for a chat's shared media.
package main

import (
	"fmt"
	"os"

	"github.com/rshade/mediashelf/internal/cli"
	"github.com/rshade/mediashelf/pkg/version"
)

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.Execute()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
