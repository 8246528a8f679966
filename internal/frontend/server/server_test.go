package server

import (
	"context"
	"net"
	"testing"
	"time"

	pb "github.com/msto63/stormsql/api/frontend"
	"github.com/msto63/stormsql/internal/frontend/client"
	"github.com/msto63/stormsql/internal/history"
	"github.com/msto63/stormsql/internal/history/store"
	"github.com/msto63/stormsql/pkg/core/config"
	coreGrpc "github.com/msto63/stormsql/pkg/core/grpc"
	"github.com/msto63/stormsql/pkg/core/health"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type harness struct {
	server *Server
	client *client.Client
	conn   *grpc.ClientConn
}

func newHarness(t *testing.T, protocol string) *harness {
	t.Helper()

	st, err := store.NewSQLiteStore(store.SQLiteConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}

	cfg := DefaultConfig()
	cfg.GRPC.EnableReflection = false
	cfg.HealthInterval = 0
	cfg.Service.Recorder = history.NewRecorder(st, nil)

	srv := New(cfg)
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()

	dialer := grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})

	clientCfg := coreGrpc.DefaultClientConfig("passthrough:///bufnet")
	clientCfg.Timeout = 5 * time.Second
	clientCfg.Protocol = protocol
	c, err := client.New(clientCfg, dialer)
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}

	conn, err := coreGrpc.Dial(clientCfg, dialer)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}

	t.Cleanup(func() {
		c.Close()
		conn.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Stop(ctx)
	})
	return &harness{server: srv, client: c, conn: conn}
}

func TestLex(t *testing.T) {
	h := newHarness(t, "1.1.0")

	resp, err := h.client.Lex(context.Background(), "select a -- c", true)
	if err != nil {
		t.Fatalf("Lex() error = %v", err)
	}
	if resp["ok"] != true {
		t.Errorf("ok = %v", resp["ok"])
	}
	tokens, _ := resp["tokens"].([]interface{})
	if len(tokens) != 4 {
		t.Fatalf("got %d tokens, want 4", len(tokens))
	}
	comment := tokens[2].(map[string]interface{})
	if comment["type"] != "COMMENT" || comment["value"] != " c" {
		t.Errorf("token 2 = %v", comment)
	}
}

func TestLex_ErrorsAsData(t *testing.T) {
	h := newHarness(t, "1.1.0")

	resp, err := h.client.Lex(context.Background(), "select #", false)
	if err != nil {
		t.Fatalf("Lex() error = %v", err)
	}
	if resp["ok"] != false {
		t.Errorf("ok = %v, want false", resp["ok"])
	}
	errs, _ := resp["lex_errors"].([]interface{})
	if len(errs) != 1 {
		t.Fatalf("lex_errors = %v", resp["lex_errors"])
	}
	if errs[0].(map[string]interface{})["description"] != "1:8: unable to lex token # after select" {
		t.Errorf("description = %v", errs[0])
	}
}

func TestParse(t *testing.T) {
	h := newHarness(t, "1.1.0")

	tests := []struct {
		name       string
		source     string
		ok         bool
		statements int
		reason     string
	}{
		{"valid", "select a, b from t where a = 1;", true, 1, ""},
		{"two statements", "create table t (a int); insert into t values (1);", true, 2, ""},
		{"syntax error", "select a from;", false, 0, "expected table identifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := h.client.Parse(context.Background(), tt.source)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if resp["ok"] != tt.ok {
				t.Errorf("ok = %v, want %v", resp["ok"], tt.ok)
			}
			stmts, _ := resp["statements"].([]interface{})
			if len(stmts) != tt.statements {
				t.Errorf("got %d statements, want %d", len(stmts), tt.statements)
			}
			if tt.reason != "" {
				pe, _ := resp["parse_error"].(map[string]interface{})
				if pe["reason"] != tt.reason {
					t.Errorf("parse_error = %v, want reason %q", pe, tt.reason)
				}
			}
		})
	}
}

func TestFormat(t *testing.T) {
	h := newHarness(t, "1.1.0")

	got, err := h.client.Format(context.Background(), "select a from t;")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got != "SELECT a FROM t;" {
		t.Errorf("Format() = %q", got)
	}

	_, err = h.client.Format(context.Background(), "select 'open")
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("Format() code = %v, want InvalidArgument", status.Code(err))
	}
}

func TestCheckAndHistory(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()

	resp, err := h.client.Check(ctx, "select a from t; -- note\n")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if resp["ok"] != true || resp["round_trip_ok"] != true {
		t.Errorf("Check() = %v", resp)
	}

	entries, err := h.client.History(ctx, client.HistoryQuery{Operation: "check"})
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("History() returned %d entries, want 1", len(entries))
	}
	entry := entries[0].(map[string]interface{})
	if entry["origin"] != history.OriginGRPC || entry["status"] != string(store.StatusOK) {
		t.Errorf("entry = %v", entry)
	}
	if entry["request_id"] == "" {
		t.Error("entry should carry the request ID")
	}
}

func TestMissingSource(t *testing.T) {
	h := newHarness(t, "1.1.0")

	api := pb.NewFrontendClient(h.conn)
	_, err := api.Check(context.Background(), &structpb.Struct{})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("Check() code = %v, want InvalidArgument", status.Code(err))
	}
}

func TestIncompatibleClient(t *testing.T) {
	h := newHarness(t, "2.0.0")

	_, err := h.client.Parse(context.Background(), "select a;")
	if status.Code(err) != codes.FailedPrecondition {
		t.Errorf("Parse() code = %v, want FailedPrecondition", status.Code(err))
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := newHarness(t, "1.1.0")

	api := pb.NewFrontendClient(h.conn)
	req, _ := structpb.NewStruct(map[string]interface{}{"source": "select 1;"})
	ctx := coreGrpc.WithRequestID(context.Background(), "req-abc")

	var header metadata.MD
	if _, err := api.Parse(ctx, req, grpc.Header(&header)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := header.Get(coreGrpc.RequestIDHeader); len(got) != 1 || got[0] != "req-abc" {
		t.Errorf("request ID header = %v, want req-abc", got)
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t, "1.1.0")

	report := h.server.RefreshHealth(context.Background())
	if report.Status != health.StatusHealthy {
		t.Fatalf("report = %v", report)
	}
	if len(report.Checks) != 2 {
		t.Errorf("got %d checks, want canary and history", len(report.Checks))
	}

	for _, service := range []string{"", pb.ServiceName} {
		got, err := h.client.Health(context.Background(), service)
		if err != nil {
			t.Fatalf("Health(%q) error = %v", service, err)
		}
		if got != "SERVING" {
			t.Errorf("Health(%q) = %v, want SERVING", service, got)
		}
	}
}

func TestStart_ListenerCheck(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GRPC.Host = "127.0.0.1"
	cfg.GRPC.Port = 0
	cfg.GRPC.EnableReflection = false
	cfg.HealthInterval = 0

	srv := New(cfg)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	defer srv.Stop(context.Background())

	deadline := time.Now().Add(5 * time.Second)
	for {
		report := srv.RefreshHealth(context.Background())
		if len(report.Checks) == 2 {
			if report.Status != health.StatusHealthy {
				t.Fatalf("report = %v", report)
			}
			var names []string
			for _, check := range report.Checks {
				names = append(names, check.Name)
			}
			if names[0] != "canary" || names[1] != "listener" {
				t.Errorf("checks = %v, want canary and listener", names)
			}
			return
		}
		select {
		case err := <-errCh:
			t.Fatalf("Start() error = %v", err)
		default:
		}
		if time.Now().After(deadline) {
			t.Fatalf("listener check not registered: %v", report)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStart_AddressInUse(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer lis.Close()

	cfg := DefaultConfig()
	cfg.GRPC.Host = "127.0.0.1"
	cfg.GRPC.Port = lis.Addr().(*net.TCPAddr).Port
	cfg.HealthInterval = 0

	if err := New(cfg).Start(); err == nil {
		t.Error("Start() on a used port should fail")
	}
}

func TestConfigFrom(t *testing.T) {
	app := config.Default()
	app.Server.Port = 9555
	app.Server.Reflection = true
	app.Lexer.MaxSourceBytes = 2048

	cfg := ConfigFrom(app, nil, nil)
	if cfg.GRPC.Port != 9555 || !cfg.GRPC.EnableReflection {
		t.Errorf("GRPC = %+v", cfg.GRPC)
	}
	if cfg.Service.MaxSourceBytes != 2048 {
		t.Errorf("MaxSourceBytes = %d, want 2048", cfg.Service.MaxSourceBytes)
	}
	if cfg.Service.Recorder != nil {
		t.Error("Recorder should be nil")
	}
	if cfg.HealthInterval != 30*time.Second {
		t.Errorf("HealthInterval = %v", cfg.HealthInterval)
	}
}
