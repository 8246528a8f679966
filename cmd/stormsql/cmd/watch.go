package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/stormsql/foundation/core/log"
	"github.com/msto63/stormsql/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <path>...",
	Short: "Re-check SQL files whenever they change",
	Long: `Checks every matching file once, then watches the given files and
directories and re-checks a file each time it is written.

Directories are not descended into. Matching extensions and the
debounce interval come from the [watch] config section.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	recorder := openRecorder(ctx)
	defer recorder.Close()

	w, err := watch.New(watch.Config{
		Paths:      args,
		Extensions: appConfig.Watch.Extensions,
		Debounce:   appConfig.Watch.Debounce.Duration,
		Engine:     newEngine(true),
		Recorder:   recorder,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Info("watching", mdwlog.Fields{"paths": args, "files": len(w.Files())})

	return w.Run(ctx, func(res watch.Result) {
		if res.Err != nil {
			printError(res.Path, res.Err)
			return
		}
		if err := r.Analysis(res.Path, res.Analysis); err != nil {
			printError("render", err)
		}
	})
}
