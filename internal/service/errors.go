package service

// AuthenticationError means the caller has no identity for an operation that
// requires one, or presented bad sign-in credentials. It surfaces to the
// client as a request-level failure; retrying without new credentials is
// pointless.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// ValidationError means the input itself is unacceptable, such as a sign-up
// with an email that is already registered.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func errNotSignedIn() error {
	return &AuthenticationError{Message: "Authentication Error. Please sign in"}
}

func errInvalidCredentials() error {
	return &AuthenticationError{Message: "Invalid credentials"}
}
