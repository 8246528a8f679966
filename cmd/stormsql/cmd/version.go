package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/msto63/stormsql/pkg/core/version"
)

var versionCheck string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	// config is not needed to print the version
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "StormSQL v%s\n", version.Toolkit)
		fmt.Fprintf(out, "  Protocol:   %s (accepts %s)\n", version.Protocol, version.ProtocolConstraint)
		fmt.Fprintf(out, "  Git Commit: %s\n", version.Commit)
		fmt.Fprintf(out, "  Build Date: %s\n", version.BuildDate)
		fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
		fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)

		if versionCheck == "" {
			return nil
		}
		ok, err := version.Compatible(versionCheck, version.ProtocolConstraint)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("protocol %s is not compatible with %s", versionCheck, version.ProtocolConstraint)
		}
		fmt.Fprintf(out, "  Protocol %s is compatible\n", versionCheck)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringVar(&versionCheck, "check", "", "check whether a client protocol version is accepted")
}
