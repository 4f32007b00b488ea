package domain

import "errors"

// ErrEmailTaken is returned by the user store when the unique email
// constraint rejects an insert.
var ErrEmailTaken = errors.New("email already registered")
