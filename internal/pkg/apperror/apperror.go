package apperror

import "errors"

// Kind classifies an AppError independently of any transport.
type Kind int

const (
	Internal Kind = iota
	NotFound
	InvalidRequest
	Forbidden
	Conflict
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case InvalidRequest:
		return "invalid_request"
	case Forbidden:
		return "forbidden"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// AppError is the single error type returned by services for expected failures.
// Kind lets callers distinguish failures; the surface decides how each kind is rendered.
type AppError struct {
	Kind    Kind   // Failure class (e.g., NotFound, Forbidden)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a kind and message.
func New(kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the Kind of the first AppError in err's chain, or Internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
