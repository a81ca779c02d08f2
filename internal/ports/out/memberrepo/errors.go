package memberrepo

import "errors"

var (
	// ErrNotFound indicates the requested member does not exist.
	ErrNotFound = errors.New("member not found")

	// ErrAlreadyExists indicates a member already exists with the provided ID.
	ErrAlreadyExists = errors.New("member already exists")

	// ErrEmailTaken indicates another member already uses the email (case-insensitive).
	ErrEmailTaken = errors.New("member email already in use")

	// ErrUsernameTaken indicates another member already uses the username (case-insensitive).
	ErrUsernameTaken = errors.New("member username already in use")
)
