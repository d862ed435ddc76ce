// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"errors"
	"fmt"

	"github.com/staranto/regctl/internal/backend"
)

var (
	ErrDuplicateIdentifier = errors.New("registry: identifier already registered")
	ErrNotRegistered       = errors.New("registry: identifier not registered")
	ErrInvalidIdentifier   = errors.New("registry: invalid identifier")
	ErrBackendQuery        = errors.New("registry: backend query failed")
	ErrAssertion           = backend.ErrAssertion
)

// Error is returned for every failed registry operation. Message is the
// operation context followed by the backend's native message and Code is the
// backend's native error code.
type Error struct {
	Message string
	Code    int
	kind    error
	err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes both the error kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := []error{e.kind}
	if e.err != nil {
		errs = append(errs, e.err)
	}
	return errs
}

// newBackendError wraps a backend failure as "<context>: <native message>".
func newBackendError(context string, err error) *Error {
	code, msg := backend.ErrorInfo(err)
	kind := ErrBackendQuery
	if errors.Is(err, backend.ErrAssertion) {
		kind = ErrAssertion
	}
	return &Error{
		Message: context + ": " + msg,
		Code:    code,
		kind:    kind,
		err:     err,
	}
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		kind:    kind,
	}
}
