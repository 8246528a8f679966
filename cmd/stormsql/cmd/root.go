package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/stormsql/foundation/core/error"
	mdwlog "github.com/msto63/stormsql/foundation/core/log"
	"github.com/msto63/stormsql/foundation/stormsql"
	mdwstringx "github.com/msto63/stormsql/foundation/utils/stringx"
	"github.com/msto63/stormsql/internal/history"
	"github.com/msto63/stormsql/internal/render"
	"github.com/msto63/stormsql/pkg/core/config"
	"github.com/msto63/stormsql/pkg/core/logging"
)

var (
	cfgFile      string
	outputFormat string
	noColor      bool
	verbose      bool
	noHistory    bool

	appConfig *config.Config
	logger    *mdwlog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "stormsql",
	Short: "StormSQL - SQL front-end toolkit",
	Long: `StormSQL tokenizes, parses and reconstructs SQL.

Supported statements:
  SELECT columns [FROM table] [WHERE expression];
  INSERT INTO table VALUES (values);
  CREATE TABLE name (column INT|TEXT|BOOLEAN, ...);

Sources are read from files, from -e, or from stdin.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $STORMSQL_CONFIG or ./configs/stormsql.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not record analyses in the history database")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	logCfg := logging.FromConfig("stormsql", appConfig)
	if verbose {
		logCfg.Level = "debug"
	}
	logger = logging.NewLogger(logCfg)
	return nil
}

// source is one named SQL text to process
type source struct {
	name string
	text string
}

// readSources returns the inline text if set, the named files, or stdin
func readSources(args []string, inline string, stdin io.Reader) ([]source, error) {
	if inline != "" {
		return []source{{name: "<inline>", text: inline}}, nil
	}

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to read stdin").WithCode(mdwerror.CodeInvalidInput)
		}
		return []source{{name: "<stdin>", text: string(data)}}, nil
	}

	sources := make([]source, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to read file").
				WithCode(mdwerror.CodeNotFound).
				WithDetail("path", path)
		}
		sources = append(sources, source{name: filepath.ToSlash(path), text: string(data)})
	}
	return sources, nil
}

func newRenderer(out io.Writer) (*render.Renderer, error) {
	f, err := render.ParseFormat(mdwstringx.FirstNonBlank(outputFormat, appConfig.Output.Format))
	if err != nil {
		return nil, err
	}
	return render.New(out, f, appConfig.Output.Color && !noColor), nil
}

func newEngine(includeComments bool) *stormsql.Engine {
	return stormsql.New(stormsql.Options{
		IncludeComments: includeComments,
		MaxSourceBytes:  appConfig.Lexer.MaxSourceBytes,
		Logger:          logger,
	})
}

// openRecorder opens the history database. History is best effort on the
// command line, so failures are logged and a nil recorder is returned.
func openRecorder(ctx context.Context) *history.Recorder {
	if noHistory {
		return nil
	}
	recorder, err := history.Open(ctx, appConfig.History, logger)
	if err != nil {
		logger.WarnWithErr("history disabled", err)
		return nil
	}
	return recorder
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
