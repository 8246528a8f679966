package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/stormsql/internal/frontend/client"
	coreGrpc "github.com/msto63/stormsql/pkg/core/grpc"
	"github.com/msto63/stormsql/pkg/core/health"
)

const remoteHealthTimeout = 5 * time.Second

var (
	remoteAddr     string
	remoteInline   string
	remoteComments bool
	remoteQuery    client.HistoryQuery
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Run front-end operations on a stormsqld server",
	Long: `Sends sources to a running stormsqld server and prints the response.

Examples:
  stormsql remote check -e "SELECT 1;"
  stormsql remote lex --addr db-tools:9400 query.sql
  stormsql remote history --status ERROR --limit 10`,
}

func init() {
	rootCmd.AddCommand(remoteCmd)
	remoteCmd.PersistentFlags().StringVar(&remoteAddr, "addr", "", "server address (default: localhost and the configured port)")

	sourceCmds := []*cobra.Command{
		{Use: "lex [file...]", Short: "Tokenize on the server", RunE: remoteRun(remoteLex)},
		{Use: "parse [file...]", Short: "Parse on the server", RunE: remoteRun(remoteParse)},
		{Use: "format [file...]", Short: "Reconstruct on the server", RunE: remoteRun(remoteFormat)},
		{Use: "check [file...]", Short: "Check on the server", RunE: remoteRun(remoteCheck)},
	}
	for _, c := range sourceCmds {
		c.Flags().StringVarP(&remoteInline, "execute", "e", "", "SQL text to send instead of files")
		remoteCmd.AddCommand(c)
	}
	sourceCmds[0].Flags().BoolVar(&remoteComments, "comments", true, "keep comment tokens")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List analyses recorded by the server",
		Args:  cobra.NoArgs,
		RunE:  runRemoteHistory,
	}
	addHistoryFilterFlags(historyCmd, &remoteQuery.Origin, &remoteQuery.Operation, &remoteQuery.Status, &remoteQuery.Contains, &remoteQuery.Limit)
	remoteCmd.AddCommand(historyCmd)

	remoteCmd.AddCommand(&cobra.Command{
		Use:   "health [service]",
		Short: "Show the serving status of the server",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRemoteHealth,
	})
}

func remoteAddress() string {
	if remoteAddr != "" {
		return remoteAddr
	}
	return fmt.Sprintf("localhost:%d", appConfig.Server.Port)
}

func dialRemote() (*client.Client, error) {
	cfg := coreGrpc.DefaultClientConfig(remoteAddress())
	cfg.Logger = logger
	return client.New(cfg)
}

type remoteOp func(cmd *cobra.Command, c *client.Client, src source) (interface{}, error)

// remoteRun sends every source through op and prints the responses
func remoteRun(op remoteOp) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		sources, err := readSources(args, remoteInline, cmd.InOrStdin())
		if err != nil {
			return err
		}
		r, err := newRenderer(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		c, err := dialRemote()
		if err != nil {
			return err
		}
		defer c.Close()

		failed := false
		for _, src := range sources {
			resp, err := op(cmd, c, src)
			if err != nil {
				return err
			}
			if m, ok := resp.(map[string]interface{}); ok {
				if ok, _ := m["ok"].(bool); !ok {
					failed = true
				}
				m["name"] = src.name
			}
			if s, ok := resp.(string); ok {
				fmt.Fprintln(r.Out, s)
				continue
			}
			if err := r.Structured(resp); err != nil {
				return err
			}
		}
		if failed {
			return errSourcesFailed
		}
		return nil
	}
}

func remoteLex(cmd *cobra.Command, c *client.Client, src source) (interface{}, error) {
	return c.Lex(cmd.Context(), src.text, remoteComments)
}

func remoteParse(cmd *cobra.Command, c *client.Client, src source) (interface{}, error) {
	return c.Parse(cmd.Context(), src.text)
}

func remoteFormat(cmd *cobra.Command, c *client.Client, src source) (interface{}, error) {
	return c.Format(cmd.Context(), src.text)
}

func remoteCheck(cmd *cobra.Command, c *client.Client, src source) (interface{}, error) {
	return c.Check(cmd.Context(), src.text)
}

func runRemoteHistory(cmd *cobra.Command, args []string) error {
	r, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	c, err := dialRemote()
	if err != nil {
		return err
	}
	defer c.Close()

	entries, err := c.History(cmd.Context(), remoteQuery)
	if err != nil {
		return err
	}
	return r.Structured(map[string]interface{}{"entries": entries})
}

func runRemoteHealth(cmd *cobra.Command, args []string) error {
	service := ""
	if len(args) == 1 {
		service = args[0]
	}

	result := health.GRPCCheck("remote", remoteAddress(), service, remoteHealthTimeout).Check(cmd.Context())
	if status, ok := result.Details["serving_status"]; ok {
		fmt.Fprintln(cmd.OutOrStdout(), status)
	}
	if result.Status != health.StatusHealthy {
		return fmt.Errorf("server is %s: %s", result.Status, result.Message)
	}
	return nil
}
