package main

import (
	"context"
	"io"
	"os"
)

var (
	// Version information (will be set by build flags)
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and maps its outcome to a process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := NewApp(stdout, stderr)
	if err := app.Run(ctx, args); err != nil {
		reportError(stderr, colorMode(app), err)
		return 1
	}
	return 0
}
