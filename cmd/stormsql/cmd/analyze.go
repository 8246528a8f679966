package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/stormsql/foundation/core/error"
	mdwlog "github.com/msto63/stormsql/foundation/core/log"
	"github.com/msto63/stormsql/internal/history"
)

// errSourcesFailed is returned when at least one source did not lex or parse
var errSourcesFailed = mdwerror.New("one or more sources failed").WithCode(mdwerror.CodeInvalidInput)

var (
	inlineSQL   string
	lexComments bool
	formatWrite bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file...]",
	Short: "Print the token stream of SQL sources",
	Long: `Tokenizes each source and prints one token per line:

  { "type": KEYWORD, "location": 1:1, "value": "select" }

Comments are kept unless --comments=false or lexer.include_comments is off.`,
	RunE: runLex,
}

var parseCmd = &cobra.Command{
	Use:   "parse [file...]",
	Short: "Parse SQL sources and print the statements",
	RunE:  runParse,
}

var formatCmd = &cobra.Command{
	Use:     "format [file...]",
	Aliases: []string{"fmt"},
	Short:   "Print the canonical reconstruction of SQL sources",
	Long: `Reconstructs each source from its tokens: keywords upper-cased,
original line and column layout preserved.

With --write, files are rewritten in place.`,
	RunE: runFormat,
}

var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Lex, parse and round-trip SQL sources",
	Long: `Runs every stage of the front-end on each source and reports the
first failure. Exits non-zero when any source fails. Results are
recorded in the history database unless --no-history is set.`,
	RunE: runCheck,
}

func init() {
	for _, c := range []*cobra.Command{lexCmd, parseCmd, formatCmd, checkCmd} {
		c.Flags().StringVarP(&inlineSQL, "execute", "e", "", "SQL text to process instead of files")
		rootCmd.AddCommand(c)
	}
	lexCmd.Flags().BoolVar(&lexComments, "comments", true, "keep comment tokens")
	formatCmd.Flags().BoolVarP(&formatWrite, "write", "w", false, "write the result back to the source file")
}

func runLex(cmd *cobra.Command, args []string) error {
	sources, err := readSources(args, inlineSQL, cmd.InOrStdin())
	if err != nil {
		return err
	}
	r, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	includeComments := appConfig.Lexer.IncludeComments
	if cmd.Flags().Changed("comments") {
		includeComments = lexComments
	}
	engine := newEngine(includeComments)

	failed := false
	for _, src := range sources {
		result, err := engine.Lex(src.text)
		if err != nil {
			return err
		}
		if !result.OK() {
			failed = true
			if err := r.LexErrors(result.Errors); err != nil {
				return err
			}
			continue
		}
		if err := r.Tokens(result.Tokens); err != nil {
			return err
		}
	}

	if failed {
		return errSourcesFailed
	}
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	sources, err := readSources(args, inlineSQL, cmd.InOrStdin())
	if err != nil {
		return err
	}
	r, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	engine := newEngine(false)

	failed := false
	for _, src := range sources {
		a, err := engine.Analyze(src.text)
		if err != nil {
			return err
		}
		switch {
		case len(a.LexErrors) > 0:
			failed = true
			err = r.LexErrors(a.LexErrors)
		case a.ParseError != nil:
			failed = true
			err = r.SyntaxError(a.ParseError)
		default:
			err = r.Statements(a.Statements)
		}
		if err != nil {
			return err
		}
	}

	if failed {
		return errSourcesFailed
	}
	return nil
}

func runFormat(cmd *cobra.Command, args []string) error {
	if formatWrite && (inlineSQL != "" || len(args) == 0) {
		return mdwerror.New("--write requires file arguments").WithCode(mdwerror.CodeInvalidInput)
	}

	sources, err := readSources(args, inlineSQL, cmd.InOrStdin())
	if err != nil {
		return err
	}
	engine := newEngine(true)
	out := cmd.OutOrStdout()

	failed := false
	for _, src := range sources {
		formatted, err := engine.Format(src.text)
		if err != nil {
			if !mdwerror.HasCode(err, mdwerror.CodeSQLLex) {
				return err
			}
			failed = true
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", src.name, err)
			continue
		}

		if formatWrite {
			if formatted == src.text {
				continue
			}
			if err := os.WriteFile(src.name, []byte(formatted), 0o644); err != nil {
				return mdwerror.Wrap(err, "failed to write file").
					WithCode(mdwerror.CodeInternal).
					WithDetail("path", src.name)
			}
			logger.Info("formatted", mdwlog.Fields{"path": src.name})
			continue
		}
		fmt.Fprintln(out, formatted)
	}

	if failed {
		return errSourcesFailed
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	sources, err := readSources(args, inlineSQL, cmd.InOrStdin())
	if err != nil {
		return err
	}
	r, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	recorder := openRecorder(ctx)
	defer recorder.Close()

	engine := newEngine(true)
	failed := false
	for _, src := range sources {
		a, err := engine.Analyze(src.text)
		if err != nil {
			return err
		}
		_, _ = recorder.Record(ctx, history.OriginCLI, "check", "", a)

		name := ""
		if len(sources) > 1 || src.name != "<stdin>" {
			name = src.name
		}
		if err := r.Analysis(name, a); err != nil {
			return err
		}
		if !a.OK() {
			failed = true
		}
	}

	if failed {
		return errSourcesFailed
	}
	return nil
}
