package main

import (
	"github.com/spf13/cobra"

	"github.com/Belphemur/MediaFinder/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mediafinder",
		Short:         "Search a media catalog and fetch posters, backdrops and social media",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newConsoleCommand(config.GetConfig))
	rootCmd.AddCommand(newSearchCommand(config.GetConfig))
	rootCmd.AddCommand(newExtractCommand(config.GetConfig))
	rootCmd.AddCommand(newServeCommand(config.GetConfig))
	return rootCmd
}
