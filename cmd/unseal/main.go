package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dkoval/unseal/internal/cli"
	"github.com/dkoval/unseal/internal/util"
)

func main() {
	// Setup signal handling for graceful shutdown
	ctx := util.SetupSignalHandler()

	// Execute the CLI
	if err := cli.Execute(ctx); err != nil {
		slog.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, util.FriendlyError(err))
		os.Exit(1)
	}
}
