package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
	"github.com/Belphemur/MediaFinder/internal/client"
	"github.com/Belphemur/MediaFinder/internal/console"
	"github.com/Belphemur/MediaFinder/internal/models"
)

func newSearchCommand(loadConfig configSource) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "search <movie|tv|other> <name...>",
		Short: "Search the catalog and print the ranked results",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := models.ParseMediaKind(args[0])
			if kind == models.MediaKindUnknown {
				return apperrors.NewValidationError("kind", fmt.Sprintf("unknown kind %q", args[0]))
			}
			var yearHint *int
			if year > 0 {
				yearHint = &year
			}

			catalog := client.NewClient(loadConfig())
			defer catalog.Close()

			results, err := catalog.Search(cmd.Context(), kind, strings.Join(args[1:], " "), yearHint)
			if apperrors.KindOf(err) == apperrors.KindNotFound {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
				return err
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), console.RenderResults(results))
			return err
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Release or first-air year hint")
	return cmd
}
