package service

import "errors"

// Kind classifies a failed account operation.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindUpload
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindUpload:
		return "upload"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is the failure type returned by AccountService. Msg is safe to show
// to clients for the validation, conflict and auth kinds only.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrMissingDetails     = &Error{Kind: KindValidation, Msg: "Missing Details"}
	ErrAccountExists      = &Error{Kind: KindConflict, Msg: "Account already exists"}
	ErrInvalidCredentials = &Error{Kind: KindAuth, Msg: "Invalid credentials"}
)

func validationError(msg string, err error) error {
	return &Error{Kind: KindValidation, Msg: msg, Err: err}
}

func internalError(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf returns the Kind of err, KindInternal for errors not produced here.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns the text a client may see for err. Details of
// upload, lookup and internal failures stay server-side.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "Something went wrong"
	}
	switch e.Kind {
	case KindValidation, KindConflict, KindAuth:
		return e.Msg
	case KindUpload:
		return "Image upload failed"
	case KindNotFound:
		return "Account not found"
	default:
		return "Something went wrong"
	}
}
