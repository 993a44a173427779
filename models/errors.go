package models

// Typed errors carried from services to the HTTP helper, which maps each one
// to its status code.

type ErrorValidation struct{ Message string }

func (e ErrorValidation) Error() string { return e.Message }

type ErrorConflict struct{ Message string }

func (e ErrorConflict) Error() string { return e.Message }

type ErrorUnauthorized struct{ Message string }

func (e ErrorUnauthorized) Error() string { return e.Message }

type ErrorForbidden struct{ Message string }

func (e ErrorForbidden) Error() string { return e.Message }

type ErrorNotFound struct{ Message string }

func (e ErrorNotFound) Error() string { return e.Message }

// ErrorInternalServer keeps the cause for logging; only Message is sent to
// the client.
type ErrorInternalServer struct {
	Message string
	Err     error
}

func (e ErrorInternalServer) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e ErrorInternalServer) Unwrap() error { return e.Err }

func NewInternalError(err error) error {
	return ErrorInternalServer{Message: "Server error", Err: err}
}
