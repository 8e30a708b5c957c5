package drive

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// ErrorKind is the machine-readable error class returned to callers.
type ErrorKind string

const (
	KindInvalidReference ErrorKind = "invalid_reference"
	KindConfiguration    ErrorKind = "configuration"
	KindAuth             ErrorKind = "auth"
	KindPermission       ErrorKind = "permission"
	KindTransient        ErrorKind = "transient"
	KindParse            ErrorKind = "parse"
)

// Error carries an error class plus an optional remediation hint. Callers
// never see raw stack traces; they see the kind, the message, and the hint.
type Error struct {
	Kind    ErrorKind
	Message string
	Hint    string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError builds an Error without a cause.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Classify maps a failed Drive call to the error taxonomy. HTTP 401 means
// the delegated token is expired or invalid; 403 and 404 are both treated
// as permission problems because the remediation is the same (the folder
// was never shared with the querying identity); everything else, including
// network failures and 5xx, is transient.
func Classify(err error, serviceIdentity string) *Error {
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401:
			return &Error{
				Kind:    KindAuth,
				Message: "access token is expired or invalid",
				Hint:    "re-authenticate to obtain a fresh token",
				cause:   err,
			}
		case 403, 404:
			hint := "share the folder with the querying identity"
			if serviceIdentity != "" {
				hint = fmt.Sprintf("share the folder with %s", serviceIdentity)
			}
			return &Error{
				Kind:    KindPermission,
				Message: "the folder is not accessible",
				Hint:    hint,
				cause:   err,
			}
		}
	}

	return &Error{
		Kind:    KindTransient,
		Message: "drive request failed",
		cause:   err,
	}
}
