package grpc

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
)

// errorDomain tags the ErrorInfo detail of every returned status.
const errorDomain = "mediafinder"

// toStatus maps an error onto a gRPC status carrying an ErrorInfo detail
// whose reason is the error kind.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	kind := apperrors.KindOf(err)
	code := codeFor(kind)
	msg := apperrors.Excerpt(err.Error(), apperrors.DefaultExcerptLength)
	if kind == apperrors.KindInternal {
		msg = "internal error"
	}

	st := status.New(code, msg)
	detailed, detailErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: kind.String(),
		Domain: errorDomain,
	})
	if detailErr != nil {
		return st.Err()
	}
	return detailed.Err()
}

func codeFor(kind apperrors.Kind) codes.Code {
	switch kind {
	case apperrors.KindValidation, apperrors.KindInvalidURL:
		return codes.InvalidArgument
	case apperrors.KindNotFound:
		return codes.NotFound
	case apperrors.KindRateLimited:
		return codes.ResourceExhausted
	case apperrors.KindPrivateContent:
		return codes.PermissionDenied
	case apperrors.KindProvider:
		return codes.Unavailable
	case apperrors.KindExtractionFailed:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

// ReasonOf returns the error kind carried by a status built by this package.
func ReasonOf(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == errorDomain {
			return info.GetReason()
		}
	}
	return ""
}
