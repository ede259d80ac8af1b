package contiguous

import "errors"

// Container errors. Match with errors.Is; ErrIndexOutOfRange and
// ErrInvalidArgument are returned wrapped with the offending value.
var (
	ErrEmptyContainer  = errors.New("container is empty")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error kind names used in journal records and JSON output.
const (
	KindEmptyContainer  = "empty_container"
	KindIndexOutOfRange = "index_out_of_range"
	KindInvalidArgument = "invalid_argument"
	KindUnknown         = "unknown"
)

// Kind returns the kind name for err, or "" when err is nil.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyContainer):
		return KindEmptyContainer
	case errors.Is(err, ErrIndexOutOfRange):
		return KindIndexOutOfRange
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	default:
		return KindUnknown
	}
}
