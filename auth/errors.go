package auth

import "net/http"

// Messages returned to clients on gate failures.
const (
	MsgUnauthorized = "unauthorized access"
	MsgForbidden    = "forbidden access"
)

type Kind int

const (
	// Unauthenticated means no Authorization header was sent.
	Unauthenticated Kind = iota + 1
	// Forbidden means the bearer token failed verification or has expired.
	Forbidden
	// OwnershipMismatch means the token email differs from the email being queried.
	OwnershipMismatch
)

type AuthError struct {
	Kind Kind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message() + ": " + e.Err.Error()
	}
	return e.Message()
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Message() string {
	if e.Kind == OwnershipMismatch {
		return MsgForbidden
	}
	return MsgUnauthorized
}

func (e *AuthError) Status() int {
	if e.Kind == Unauthenticated {
		return http.StatusUnauthorized
	}
	return http.StatusForbidden
}
