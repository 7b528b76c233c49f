// Command counterctl inspects and edits the Stream Counter settings file
// while the overlay is closed.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"streamcounter/internal/cli"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
