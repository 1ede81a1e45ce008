package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/console"
	"github.com/Belphemur/MediaFinder/internal/dialogue"
)

func newConsoleCommand(loadConfig configSource) *cobra.Command {
	var saveDir string

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Run the conversation on this terminal",
		Long: "Runs the full dialogue for a single local user. Options are picked by " +
			"typing their number; delivered files are copied into --save-dir.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			logger := config.GetLogger()

			release, err := acquireLock(cfg.LockFile)
			if err != nil {
				return err
			}
			defer release()

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			defer a.startMetrics()()

			presenter := console.NewPresenter(cmd.OutOrStdout(), saveDir)
			router := dialogue.NewRouter(cmd.Context(), a.machine, func(int64) dialogue.Presenter { return presenter })
			defer router.Close()

			logger.Info().Str("save_dir", saveDir).Msg("Console session started")
			return console.Run(cmd.Context(), cmd.InOrStdin(), router, a.machine.Store(), presenter)
		},
	}

	cmd.Flags().StringVar(&saveDir, "save-dir", defaultSaveDir(), "Directory receiving delivered files")
	return cmd
}

func defaultSaveDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
