package grpc

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
)

// ErrorDomain is the ErrorInfo domain attached to bridge failures.
const ErrorDomain = "nativebridge"

var statusCodes = map[domain.ErrorCode]codes.Code{
	domain.CodeInvalidArgument:  codes.InvalidArgument,
	domain.CodeFileNotFound:     codes.NotFound,
	domain.CodeImageLoadError:   codes.FailedPrecondition,
	domain.CodeRecognitionError: codes.Internal,
	domain.CodeRequestError:     codes.Unavailable,
	domain.CodeShareError:       codes.Aborted,
}

func reply(channel, method string, out domain.Outcome) (*structpb.Value, error) {
	switch out.Kind {
	case domain.OutcomeSuccess:
		v, err := structpb.NewValue(out.Value)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "encode result: %v", err)
		}
		return v, nil
	case domain.OutcomeNotImplemented:
		return nil, status.Errorf(codes.Unimplemented, "method %q not implemented on channel %s", method, channel)
	}
	return nil, failureStatus(out.Err)
}

func failureStatus(e *domain.Error) error {
	if e == nil {
		return status.Error(codes.Unknown, "failure without error")
	}
	code, ok := statusCodes[e.Code]
	if !ok {
		code = codes.Unknown
	}
	st := status.New(code, e.Message)
	if withInfo, err := st.WithDetails(&errdetails.ErrorInfo{Reason: string(e.Code), Domain: ErrorDomain}); err == nil {
		st = withInfo
	}
	return st.Err()
}

func contextStatus(err error) error {
	return status.FromContextError(err).Err()
}

// ErrorFromStatus rebuilds the bridge error carried by a status, for clients.
func ErrorFromStatus(err error) (*domain.Error, bool) {
	st, ok := status.FromError(err)
	if !ok {
		return nil, false
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			return &domain.Error{Code: domain.ErrorCode(info.GetReason()), Message: st.Message()}, true
		}
	}
	return nil, false
}
