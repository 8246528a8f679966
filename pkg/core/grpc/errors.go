package grpc

import (
	"errors"

	mdwerror "github.com/msto63/stormsql/foundation/core/error"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CodeFor maps a Foundation error code onto a gRPC status code
func CodeFor(code mdwerror.Code) codes.Code {
	switch code {
	case mdwerror.CodeInvalidInput, mdwerror.CodeSQLLex, mdwerror.CodeSQLSyntax:
		return codes.InvalidArgument
	case mdwerror.CodeNotFound:
		return codes.NotFound
	case mdwerror.CodeTimeout:
		return codes.DeadlineExceeded
	case mdwerror.CodeVersionMismatch:
		return codes.FailedPrecondition
	case mdwerror.CodeServiceUnavailable:
		return codes.Unavailable
	case mdwerror.CodeSQLRoundTrip:
		return codes.DataLoss
	default:
		return codes.Internal
	}
}

// ToStatus converts err into a gRPC status error. Errors that already carry
// a status pass through unchanged.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var coded *mdwerror.Error
	if errors.As(err, &coded) {
		return status.Error(CodeFor(coded.Code()), coded.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
