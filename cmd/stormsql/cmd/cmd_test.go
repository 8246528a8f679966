package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mdwerror "github.com/msto63/stormsql/foundation/core/error"
	mdwlog "github.com/msto63/stormsql/foundation/core/log"
	"github.com/msto63/stormsql/foundation/stormsql"
	"github.com/msto63/stormsql/internal/frontend/server"
	"github.com/msto63/stormsql/internal/history"
	"github.com/msto63/stormsql/internal/history/store"
	"github.com/msto63/stormsql/internal/render"
)

// execute runs the root command with fresh flag state
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORMSQL_CONFIG", "")
	t.Setenv("STORMSQL_HISTORY_PATH", filepath.Join(t.TempDir(), "history.db"))

	cfgFile, outputFormat, inlineSQL = "", "", ""
	noColor, verbose, noHistory, formatWrite = false, false, false, false
	versionCheck, remoteAddr = "", ""

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--no-color"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestReadSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.sql")
	if err := os.WriteFile(path, []byte("SELECT 1;"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		args   []string
		inline string
		stdin  string
		want   []source
	}{
		{"inline wins", []string{path}, "SELECT 2;", "", []source{{"<inline>", "SELECT 2;"}}},
		{"stdin", nil, "", "SELECT 3;", []source{{"<stdin>", "SELECT 3;"}}},
		{"dash", []string{"-"}, "", "SELECT 4;", []source{{"<stdin>", "SELECT 4;"}}},
		{"file", []string{path}, "", "", []source{{filepath.ToSlash(path), "SELECT 1;"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readSources(tt.args, tt.inline, strings.NewReader(tt.stdin))
			if err != nil {
				t.Fatalf("readSources() error = %v", err)
			}
			if len(got) != len(tt.want) || got[0] != tt.want[0] {
				t.Errorf("readSources() = %v, want %v", got, tt.want)
			}
		})
	}

	_, err := readSources([]string{filepath.Join(dir, "missing.sql")}, "", nil)
	if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestREPL(t *testing.T) {
	var out bytes.Buffer
	l := repl{
		engine:   stormsql.New(stormsql.Options{IncludeComments: true}),
		renderer: render.New(&out, render.FormatText, false),
	}

	input := "select a from t; -- all\n\nselect from t;\nselect 'oops\nexit\nselect 1;\n"
	if err := l.run(context.Background(), strings.NewReader(input)); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Tokens",
		`{ "type": COMMENT, "location": 1:18, "value": " all" }`,
		"Reconstructed\nSELECT a FROM t; -- all\n",
		"Success",
		"[1:8]: expected column identifiers, got: from",
		"Errors\nUnknownToken Error: 1:8: unable to lex token 'oops after select",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
	if n := strings.Count(got, "Success"); n != 1 {
		t.Errorf("Success printed %d times, want 1 (input after exit must be ignored)", n)
	}
}

func TestREPL_RecordFailureLogged(t *testing.T) {
	st, err := store.NewSQLiteStore(store.SQLiteConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	st.Close()

	var out, logs bytes.Buffer
	l := repl{
		engine:   stormsql.New(stormsql.Options{}),
		renderer: render.New(&out, render.FormatText, false),
		recorder: history.NewRecorder(st, nil),
		logger:   mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelWarn, Format: mdwlog.FormatText, Output: &logs}),
	}

	if err := l.run(context.Background(), strings.NewReader("select a from t;\n")); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Success") {
		t.Errorf("a failed record must not change the output:\n%s", out.String())
	}
	if !strings.Contains(logs.String(), "failed to record line") {
		t.Errorf("record failure not logged: %q", logs.String())
	}
}

func TestCheckCommand(t *testing.T) {
	out, err := execute(t, "", "check", "-e", "SELECT a FROM t WHERE b > 1;")
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if !strings.Contains(out, "<inline>: ok (1 statements") {
		t.Errorf("output = %q", out)
	}

	out, err = execute(t, "", "check", "-e", "SELECT FROM t;")
	if err != errSourcesFailed {
		t.Errorf("check error = %v, want errSourcesFailed", err)
	}
	if !strings.Contains(out, "expected column identifiers") {
		t.Errorf("output = %q", out)
	}
}

func TestLexCommand_JSON(t *testing.T) {
	out, err := execute(t, "", "lex", "-o", "json", "-e", "select 1;")
	if err != nil {
		t.Fatalf("lex error = %v", err)
	}

	var tokens []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &tokens); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(tokens) != 4 {
		t.Fatalf("got %d tokens, want 4", len(tokens))
	}
	if tokens[0]["type"] != "KEYWORD" || tokens[3]["type"] != "EOF" {
		t.Errorf("tokens = %v", tokens)
	}
}

func TestParseCommand_Stdin(t *testing.T) {
	out, err := execute(t, "insert into t values (1, 'x');", "parse")
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if !strings.Contains(out, "INSERT INTO t VALUES") {
		t.Errorf("output = %q", out)
	}
}

func TestFormatCommand_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.sql")
	if err := os.WriteFile(path, []byte("select a\n  from t;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "", "format", "-w", path); err != nil {
		t.Fatalf("format error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "SELECT a\n  FROM t;\n" {
		t.Errorf("formatted file = %q", got)
	}

	if _, err := execute(t, "", "format", "-w", "-e", "select 1;"); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("--write with -e error = %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version", "--check", "1.0.5")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "StormSQL v") || !strings.Contains(out, "is compatible") {
		t.Errorf("output = %q", out)
	}

	if _, err := execute(t, "", "version", "--check", "2.0.0"); err == nil {
		t.Error("protocol 2.0.0 should be rejected")
	}
}

func TestHistoryAfterCheck(t *testing.T) {
	t.Setenv("STORMSQL_CONFIG", "")
	historyPath := filepath.Join(t.TempDir(), "history.db")

	run := func(args ...string) string {
		t.Helper()
		cfgFile, outputFormat, inlineSQL = "", "", ""
		noColor, verbose, noHistory = false, false, false
		t.Setenv("STORMSQL_HISTORY_PATH", historyPath)

		var out bytes.Buffer
		rootCmd.SetIn(strings.NewReader(""))
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(append(args, "--no-color"))
		_ = rootCmd.Execute()
		return out.String()
	}

	run("check", "-e", "SELECT 1;")
	run("check", "-e", "SELECT;")

	out := run("history", "list", "--origin", "cli")
	if strings.Count(out, " check ") != 2 {
		t.Errorf("history list = %q", out)
	}
	if !strings.Contains(out, "ERROR") {
		t.Errorf("history list should show the failed check: %q", out)
	}
}

func TestRemoteHealth(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	cfg := server.DefaultConfig()
	cfg.GRPC.EnableReflection = false
	cfg.HealthInterval = 0
	srv := server.New(cfg)
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop(context.Background())

	out, err := execute(t, "", "remote", "health", "--addr", lis.Addr().String(), "--no-history")
	if err != nil {
		t.Fatalf("remote health error = %v", err)
	}
	if strings.TrimSpace(out) != "SERVING" {
		t.Errorf("output = %q, want SERVING", out)
	}

	unused, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	addr := unused.Addr().String()
	unused.Close()

	if _, err := execute(t, "", "remote", "health", "--addr", addr, "--no-history"); err == nil {
		t.Error("remote health against a closed port should fail")
	}
}
