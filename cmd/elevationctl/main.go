package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ============================================================
// elevationctl
// ============================================================

type globalFlags struct {
	server string
}

func rootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "elevationctl",
		Short:         "Render and edit wall elevations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.server, "server", envOr("ELEVATION_SERVER", "http://localhost:3003/api/v1"), "Base URL of the elevation API")

	root.AddCommand(
		renderCommand(),
		fetchCommand(flags),
		moveCommand(flags),
		dragCommand(flags),
	)
	return root
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
