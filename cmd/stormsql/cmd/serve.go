package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/stormsql/foundation/core/log"
	"github.com/msto63/stormsql/internal/frontend/server"
	"github.com/msto63/stormsql/internal/history"
	"github.com/msto63/stormsql/pkg/core/version"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the front-end gRPC server",
	Long: `Starts the stormsql.v1.Frontend gRPC service together with the
standard gRPC health service.

The listen address comes from the [server] config section and can be
overridden with --host and --port.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveHost != "" {
		appConfig.Server.Host = serveHost
	}
	if servePort != 0 {
		appConfig.Server.Port = servePort
	}

	ctx := cmd.Context()

	// the server always records history when enabled; --no-history only
	// affects the local commands
	var recorder *history.Recorder
	if appConfig.History.Enabled {
		var err error
		recorder, err = history.Open(ctx, appConfig.History, logger)
		if err != nil {
			return err
		}
	}

	srv := server.New(server.ConfigFrom(appConfig, recorder, logger))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "%s listening on %s\n", version.String("stormsqld"), appConfig.ServerAddress())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		srv.Stop(context.Background())
		return err
	case sig := <-sigCh:
		logger.Info("shutdown signal received", mdwlog.Fields{"signal": sig.String()})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout.Duration)
	defer cancel()
	srv.Stop(shutdownCtx)
	return nil
}
