package server

import (
	"context"

	pb "github.com/msto63/stormsql/api/frontend"
	"github.com/msto63/stormsql/internal/history/store"
	"github.com/msto63/stormsql/internal/render"
	coreGrpc "github.com/msto63/stormsql/pkg/core/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Ensure Server implements FrontendServer
var _ pb.FrontendServer = (*Server)(nil)

// Lex implements FrontendServer.Lex
func (s *Server) Lex(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	source, err := sourceField(req)
	if err != nil {
		return nil, err
	}
	includeComments := req.GetFields()["include_comments"].GetBoolValue()

	result, err := s.service.Lex(ctx, source, includeComments)
	if err != nil {
		return nil, err
	}

	return toStruct(map[string]interface{}{
		"ok":         result.OK(),
		"tokens":     render.TokensList(result.Tokens),
		"lex_errors": render.LexErrorsList(result.Errors),
	})
}

// Parse implements FrontendServer.Parse
func (s *Server) Parse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	source, err := sourceField(req)
	if err != nil {
		return nil, err
	}

	analysis, err := s.service.Parse(ctx, coreGrpc.GetRequestID(ctx), source)
	if err != nil {
		return nil, err
	}

	resp := map[string]interface{}{
		"ok":         len(analysis.LexErrors) == 0 && analysis.ParseError == nil,
		"statements": render.StatementsList(analysis.Statements),
		"lex_errors": render.LexErrorsList(analysis.LexErrors),
	}
	if analysis.ParseError != nil {
		resp["parse_error"] = render.SyntaxErrorMap(analysis.ParseError)
	}
	return toStruct(resp)
}

// Format implements FrontendServer.Format
func (s *Server) Format(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	source, err := sourceField(req)
	if err != nil {
		return nil, err
	}

	formatted, err := s.service.Format(ctx, coreGrpc.GetRequestID(ctx), source)
	if err != nil {
		return nil, err
	}
	return toStruct(map[string]interface{}{"formatted": formatted})
}

// Check implements FrontendServer.Check
func (s *Server) Check(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	source, err := sourceField(req)
	if err != nil {
		return nil, err
	}

	analysis, err := s.service.Check(ctx, coreGrpc.GetRequestID(ctx), source)
	if err != nil {
		return nil, err
	}
	return toStruct(render.AnalysisMap(analysis))
}

// History implements FrontendServer.History
func (s *Server) History(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	filter := store.Filter{
		Origin:    fields["origin"].GetStringValue(),
		Operation: fields["operation"].GetStringValue(),
		Status:    store.Status(fields["status"].GetStringValue()),
		Contains:  fields["contains"].GetStringValue(),
		RequestID: fields["request_id"].GetStringValue(),
		Limit:     int(fields["limit"].GetNumberValue()),
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	entries, err := s.service.History(ctx, filter)
	if err != nil {
		return nil, err
	}

	list := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		list = append(list, render.EntryMap(e))
	}
	return toStruct(map[string]interface{}{"entries": list})
}

func sourceField(req *structpb.Struct) (string, error) {
	v, ok := req.GetFields()["source"]
	if !ok {
		return "", status.Error(codes.InvalidArgument, "source is required")
	}
	if _, isString := v.GetKind().(*structpb.Value_StringValue); !isString {
		return "", status.Error(codes.InvalidArgument, "source must be a string")
	}
	return v.GetStringValue(), nil
}

func toStruct(m map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}
