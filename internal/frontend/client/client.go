// Package client is a typed client for the front-end gRPC service.
package client

import (
	"context"
	"fmt"
	"time"

	pb "github.com/msto63/stormsql/api/frontend"
	coreGrpc "github.com/msto63/stormsql/pkg/core/grpc"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client talks to a stormsqld server
type Client struct {
	conn    *grpc.ClientConn
	api     pb.FrontendClient
	health  healthpb.HealthClient
	timeout time.Duration
}

// New dials the server described by cfg
func New(cfg coreGrpc.ClientConfig, opts ...grpc.DialOption) (*Client, error) {
	conn, err := coreGrpc.Dial(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn:    conn,
		api:     pb.NewFrontendClient(conn),
		health:  healthpb.NewHealthClient(conn),
		timeout: cfg.Timeout,
	}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

type call func(context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error)

func (c *Client) do(ctx context.Context, fn call, req map[string]interface{}) (map[string]interface{}, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := fn(ctx, in)
	if err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

// Lex tokenizes source remotely
func (c *Client) Lex(ctx context.Context, source string, includeComments bool) (map[string]interface{}, error) {
	return c.do(ctx, c.api.Lex, map[string]interface{}{
		"source":           source,
		"include_comments": includeComments,
	})
}

// Parse parses source remotely
func (c *Client) Parse(ctx context.Context, source string) (map[string]interface{}, error) {
	return c.do(ctx, c.api.Parse, map[string]interface{}{"source": source})
}

// Check runs the full analysis remotely
func (c *Client) Check(ctx context.Context, source string) (map[string]interface{}, error) {
	return c.do(ctx, c.api.Check, map[string]interface{}{"source": source})
}

// Format returns the canonical reconstruction of source
func (c *Client) Format(ctx context.Context, source string) (string, error) {
	resp, err := c.do(ctx, c.api.Format, map[string]interface{}{"source": source})
	if err != nil {
		return "", err
	}
	formatted, _ := resp["formatted"].(string)
	return formatted, nil
}

// HistoryQuery selects remote history entries
type HistoryQuery struct {
	Origin    string
	Operation string
	Status    string
	Contains  string
	Limit     int
}

// History lists recorded analyses on the server
func (c *Client) History(ctx context.Context, q HistoryQuery) ([]interface{}, error) {
	resp, err := c.do(ctx, c.api.History, map[string]interface{}{
		"origin":    q.Origin,
		"operation": q.Operation,
		"status":    q.Status,
		"contains":  q.Contains,
		"limit":     q.Limit,
	})
	if err != nil {
		return nil, err
	}
	entries, _ := resp["entries"].([]interface{})
	return entries, nil
}

// Health returns the serving status of the server, or of one service
func (c *Client) Health(ctx context.Context, service string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return "", err
	}
	return resp.GetStatus().String(), nil
}
