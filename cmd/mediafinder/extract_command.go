package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/console"
	"github.com/Belphemur/MediaFinder/internal/scope"
	"github.com/Belphemur/MediaFinder/internal/social"
)

func newExtractCommand(loadConfig configSource) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "extract <url|@handle|shortcode>",
		Short: "Fetch the media of a social post, reel or profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			logger := config.GetLogger()
			extractor := social.NewExtractorFromConfig(cfg)

			return scope.WithScope(cmd.Context(), cfg.ScratchDir, func(sc *scope.Scope) error {
				result, err := extractor.Extract(cmd.Context(), sc, args[0])
				if err != nil {
					return err
				}
				defer func() { _ = sc.Release(result.LocalFilePath) }()

				for _, w := range result.Warnings {
					fmt.Fprintln(cmd.ErrOrStderr(), w)
				}
				saved, err := console.CopyFile(result.LocalFilePath, outDir)
				if err != nil {
					return err
				}
				logger.Info().Str("strategy", result.Strategy).Str("file", saved).Msg("Extracted media")
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", saved, result.Caption())
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory receiving the extracted file")
	return cmd
}
