package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/stormsql/foundation/core/error"
	"github.com/msto63/stormsql/internal/history"
	"github.com/msto63/stormsql/internal/history/store"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(Config{}); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("New() without paths error = %v", err)
	}

	missing := filepath.Join(t.TempDir(), "nope.sql")
	if _, err := New(Config{Paths: []string{missing}}); !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("New() with missing path error = %v", err)
	}
}

func TestHasExtension(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.sql", true},
		{"A.SQL", true},
		{"a.txt", false},
		{"sql", false},
	}
	for _, tt := range tests {
		if got := HasExtension(tt.path, []string{".sql"}); got != tt.want {
			t.Errorf("HasExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcher_FilesAndMatches(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.sql"), "SELECT 1;")
	writeFile(t, filepath.Join(dir, "a.sql"), "SELECT 1;")
	writeFile(t, filepath.Join(dir, "notes.txt"), "hello")
	single := filepath.Join(other, "one.sql")
	writeFile(t, single, "SELECT 1;")
	writeFile(t, filepath.Join(other, "ignored.sql"), "SELECT 1;")

	w, err := New(Config{Paths: []string{dir, single}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	files := w.Files()
	want := []string{filepath.Join(dir, "a.sql"), filepath.Join(dir, "b.sql"), single}
	if len(files) != len(want) {
		t.Fatalf("Files() = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("Files()[%d] = %q, want %q", i, files[i], want[i])
		}
	}

	if !w.Matches(filepath.Join(dir, "new.sql")) {
		t.Error("new file in a watched directory should match")
	}
	if w.Matches(filepath.Join(dir, "notes.txt")) {
		t.Error("non-sql file should not match")
	}
	if w.Matches(filepath.Join(other, "ignored.sql")) {
		t.Error("sibling of an explicitly watched file should not match")
	}
}

func TestWatcher_Check(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.sql")
	bad := filepath.Join(dir, "bad.sql")
	writeFile(t, good, "SELECT a FROM t;")
	writeFile(t, bad, "SELECT FROM;")

	s, err := store.NewSQLiteStore(store.SQLiteConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	recorder := history.NewRecorder(s, nil)
	defer recorder.Close()

	w, err := New(Config{Paths: []string{dir}, Recorder: recorder})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	ctx := context.Background()
	if r := w.Check(ctx, good); r.Err != nil || !r.Analysis.OK() {
		t.Errorf("Check(good) = %+v", r)
	}
	if r := w.Check(ctx, bad); r.Err != nil || r.Analysis.ParseError == nil {
		t.Errorf("Check(bad) should report a parse error: %+v", r)
	}
	if r := w.Check(ctx, filepath.Join(dir, "gone.sql")); !mdwerror.HasCode(r.Err, mdwerror.CodeNotFound) {
		t.Errorf("Check(missing) error = %v", r.Err)
	}

	entries, err := s.Query(ctx, store.Filter{Origin: history.OriginWatch})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("recorded %d entries, want 2", len(entries))
	}
}

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "query.sql")
	writeFile(t, path, "SELECT 1;")

	w, err := New(Config{Paths: []string{dir}, Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan Result, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(r Result) { results <- r })
	}()

	select {
	case r := <-results:
		if r.Path != path || !r.Analysis.OK() {
			t.Fatalf("initial result = %+v", r)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no initial result")
	}

	writeFile(t, path, "SELECT FROM;")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-results:
			if r.Analysis != nil && r.Analysis.ParseError != nil {
				cancel()
				if err := <-done; err != nil {
					t.Errorf("Run() error = %v", err)
				}
				return
			}
		case <-deadline:
			t.Fatal("change was not picked up")
		}
	}
}
