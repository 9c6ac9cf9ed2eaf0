package shared

import "errors"

var (
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateDocument indicates the document is already registered.
	ErrDuplicateDocument = errors.New("document already registered")
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountNotApproved indicates a correct login against an account
	// that has not passed the approval workflow.
	ErrAccountNotApproved = errors.New("account not approved")
	// ErrAlreadyProcessed indicates an approval decision on a record that
	// already left the pending state.
	ErrAlreadyProcessed = errors.New("already processed")
	// ErrForbidden indicates a missing permission for the requested action.
	ErrForbidden = errors.New("forbidden")
)
