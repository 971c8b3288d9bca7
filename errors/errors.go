package errors

import "fmt"

var (
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrTeamNotFound       = fmt.Errorf("team not found")
	ErrChannelNotFound    = fmt.Errorf("channel not found")
	ErrEmailTaken         = fmt.Errorf("email already taken")
	ErrUsernameTaken      = fmt.Errorf("username already taken")
	ErrAlreadyMember      = fmt.Errorf("user is already a member of this team")
	ErrNotMember          = fmt.Errorf("user is not a member of this team")
	ErrNotTeamAdmin       = fmt.Errorf("caller is not a team admin")
	ErrOwnsTeams          = fmt.Errorf("user still owns teams")
	ErrOwnerRemoval       = fmt.Errorf("team owner cannot be removed")
)

// Kind classifies a domain failure for the API envelope.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
)

// DomainError is a business-rule failure tied to a request field.
// Anything that is not a DomainError is treated as an internal fault
// and surfaces as a transport-level error instead of the envelope.
type DomainError struct {
	Kind    Kind
	Path    string
	Message string
	err     error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.err
}

func Validation(path, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Path: path, Message: message}
}

func Authorization(path, message string) *DomainError {
	return &DomainError{Kind: KindAuthorization, Path: path, Message: message}
}

func NotFound(path, message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Path: path, Message: message}
}

func Conflict(path, message string) *DomainError {
	return &DomainError{Kind: KindConflict, Path: path, Message: message}
}

// Wrap attaches a sentinel so callers can still match with errors.Is.
func (e *DomainError) Wrap(err error) *DomainError {
	e.err = err
	return e
}
