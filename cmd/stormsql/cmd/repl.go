package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/stormsql/foundation/core/log"
	"github.com/msto63/stormsql/foundation/stormsql"
	mdwstringx "github.com/msto63/stormsql/foundation/utils/stringx"
	"github.com/msto63/stormsql/internal/history"
	"github.com/msto63/stormsql/internal/render"
)

var replPrompt string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Read SQL line by line and show tokens, reconstruction and parse result",
	Long: `Starts a line-oriented loop. Each line is lexed with comments,
its tokens and reconstruction are printed, and the comment-free token
stream is parsed. Type "exit" or send EOF to leave.`,
	RunE: runREPLCmd,
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().StringVar(&replPrompt, "prompt", "stormsql> ", "prompt printed before each line")
}

func runREPLCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	recorder := openRecorder(ctx)
	defer recorder.Close()

	r, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return repl{
		engine:   newEngine(true),
		renderer: r,
		recorder: recorder,
		logger:   logger.WithField("component", "repl"),
		prompt:   replPrompt,
		maxLine:  appConfig.Lexer.MaxSourceBytes,
	}.run(ctx, cmd.InOrStdin())
}

type repl struct {
	engine   *stormsql.Engine
	renderer *render.Renderer
	recorder *history.Recorder
	logger   *mdwlog.Logger
	prompt   string
	maxLine  int
}

func (l repl) run(ctx context.Context, in io.Reader) error {
	out := l.renderer.Out
	scanner := bufio.NewScanner(in)
	if l.maxLine > 0 {
		scanner.Buffer(make([]byte, 0, 4096), l.maxLine)
	}

	for {
		if l.prompt != "" {
			fmt.Fprint(out, l.prompt)
		}
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case "":
			continue
		case "exit", "quit", `\q`:
			return nil
		}

		if err := l.eval(ctx, line); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return scanner.Err()
}

func (l repl) eval(ctx context.Context, line string) error {
	out := l.renderer.Out
	a, err := l.engine.Analyze(line)
	if err != nil {
		return err
	}
	if _, err := l.recorder.Record(ctx, history.OriginREPL, "repl", "", a); err != nil && l.logger != nil {
		l.logger.WarnWithErr("failed to record line", err, mdwlog.Fields{"line": mdwstringx.Truncate(line, 40, "...")})
	}

	if len(a.LexErrors) > 0 {
		fmt.Fprintln(out, "Errors")
		return l.renderer.LexErrors(a.LexErrors)
	}

	fmt.Fprintln(out, "Tokens")
	if err := l.renderer.Tokens(a.Tokens); err != nil {
		return err
	}
	fmt.Fprintln(out, "Reconstructed")
	fmt.Fprintln(out, l.renderer.Highlight(a.Tokens, a.Reconstructed))

	if a.ParseError != nil {
		return l.renderer.SyntaxError(a.ParseError)
	}
	_, err = fmt.Fprintln(out, "Success")
	return err
}
