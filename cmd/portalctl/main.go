package main

import (
	"fmt"
	"github.com/skybi/portal-gateway/internal/cli/command"
	"os"
)

func main() {
	if err := command.App().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
