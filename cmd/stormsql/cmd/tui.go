// ============================================================================
// StormSQL - SQL Front-End Toolkit
// ============================================================================
//
// Package:     cmd
// Description: CLI command for the StormSQL explorer TUI
// Author:      StormSQL Authors
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/stormsql/foundation/core/log"
	"github.com/msto63/stormsql/internal/tui/explorer"
)

var tuiInitial string

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"explore", "explorer"},
	Short:   "Start the interactive SQL explorer",
	Long: `Starts the interactive StormSQL explorer.

Type a statement and press Enter to see its tokens, the parsed
statement tree and the reconstructed source.

Keys:
  Enter       Analyze the input
  Tab         Switch between Tokens, Tree and Formatted
  Up/Down     Recall earlier input
  PgUp/PgDn   Scroll the result
  Ctrl+L      Clear
  Esc/Ctrl+C  Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().StringVarP(&tuiInitial, "execute", "e", "", "statement to analyze on start")
}

func runTUI(cmd *cobra.Command, args []string) error {
	// log lines would tear the alternate screen
	if !verbose {
		logger = mdwlog.NewNop()
	}

	recorder := openRecorder(cmd.Context())
	defer recorder.Close()

	return explorer.Run(explorer.Config{
		Engine:   newEngine(true),
		Recorder: recorder,
		Initial:  tuiInitial,
	})
}
