package domain

import "errors"

// ErrNoSuchUser failed to validate the credential
var ErrNoSuchUser = errors.New("No such user or password is incorrect")

// ErrDuplicatedUser unique key constraint violation
var ErrDuplicatedUser = errors.New("Email is already registered")

// ErrUserTooManyRetry login locked after too many failed attempts
var ErrUserTooManyRetry = errors.New("Too many failed attempts, please try again later")

// ErrInvalidResetToken reset token is unknown, used or expired
var ErrInvalidResetToken = errors.New("Reset link is invalid or expired")

// ErrPasswordMismatch the supplied current password is wrong
var ErrPasswordMismatch = errors.New("Password is incorrect")
