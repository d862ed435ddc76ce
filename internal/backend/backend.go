// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package backend

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports an expected absence. Adapters return it from Update
	// and Delete when no entity matched; lookups never return it.
	ErrNotFound = errors.New("backend: not found")

	// ErrAssertion reports a failed post-condition, e.g. a dropped section
	// that can still be read back.
	ErrAssertion = errors.New("backend: assertion failed")
)

// Record is a single stored entity. Data holds the decorated (encoded) value.
type Record struct {
	EntityID string
	Data     []byte
}

// Backend is the capability set the registry needs from a persistent store.
// Every method addresses exactly one section.
type Backend interface {
	// Fetch returns the records matching ids. Missing ids are simply absent
	// from the result.
	Fetch(ctx context.Context, section string, ids ...string) ([]Record, error)
	// FetchAll returns every record in the section.
	FetchAll(ctx context.Context, section string) ([]Record, error)
	Insert(ctx context.Context, section string, rec Record) error
	Update(ctx context.Context, section string, rec Record) error
	Delete(ctx context.Context, section string, id string) error
	// Drop removes the section's backing object (table, variable) entirely.
	Drop(ctx context.Context, section string) error
	// Exists reports whether the section's backing object is available.
	Exists(ctx context.Context, section string) (bool, error)
	String() string
}

// Provisioner is implemented by backends that need the section's backing
// object created before use.
type Provisioner interface {
	Provision(ctx context.Context, section string) error
}

// QueryError is the structured failure every adapter reports. Code is the
// store's native error code when one is available, 0 otherwise.
type QueryError struct {
	Op      string
	Section string
	Code    int
	Message string
	Err     error
}

func (e *QueryError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s %s: [%d] %s", e.Op, e.Section, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Section, e.Message)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// ErrorInfo extracts the native code and message from err. Errors that are
// not a QueryError report code 0 and their Error() text.
func ErrorInfo(err error) (code int, message string) {
	if err == nil {
		return 0, ""
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code, qe.Message
	}
	return 0, err.Error()
}
