package main

import (
	"os"

	"github.com/spf13/cobra"

	"starproxy/internal/interfaces/cli/server"
	"starproxy/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "starproxy",
		Short:   "starproxy - a policy-enforcing reverse proxy for Trino-compatible clusters",
		Long:    `starproxy sits in front of a Trino-compatible query cluster, evaluating every inbound query against a configured rule set before forwarding, blocking, or tagging it.`,
		Version: version.Current,
	}

	rootCmd.Flags().BoolP("version", "v", false, "version for starproxy")

	rootCmd.AddCommand(
		server.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
