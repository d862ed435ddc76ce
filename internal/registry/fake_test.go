// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"

	"github.com/staranto/regctl/internal/backend"
	"github.com/staranto/regctl/internal/backend/variable"
)

// faultyBackend wraps a working backend and fails the operations named in
// fail with err. calls counts every backend call by operation. missing makes
// Exists report the section as absent.
type faultyBackend struct {
	backend.Backend
	fail    map[string]error
	calls   map[string]int
	missing bool
}

func newFaultyBackend() *faultyBackend {
	be, err := variable.NewBackendVariable(variable.NewMemoryStore())
	if err != nil {
		panic(err)
	}
	return &faultyBackend{
		Backend: be,
		fail:    map[string]error{},
		calls:   map[string]int{},
	}
}

func (f *faultyBackend) check(op string) error {
	f.calls[op]++
	return f.fail[op]
}

func (f *faultyBackend) Fetch(ctx context.Context, section string, ids ...string) ([]backend.Record, error) {
	if err := f.check("fetch"); err != nil {
		return nil, err
	}
	return f.Backend.Fetch(ctx, section, ids...)
}

func (f *faultyBackend) FetchAll(ctx context.Context, section string) ([]backend.Record, error) {
	if err := f.check("fetchAll"); err != nil {
		return nil, err
	}
	return f.Backend.FetchAll(ctx, section)
}

func (f *faultyBackend) Insert(ctx context.Context, section string, rec backend.Record) error {
	if err := f.check("insert"); err != nil {
		return err
	}
	return f.Backend.Insert(ctx, section, rec)
}

func (f *faultyBackend) Update(ctx context.Context, section string, rec backend.Record) error {
	if err := f.check("update"); err != nil {
		return err
	}
	return f.Backend.Update(ctx, section, rec)
}

func (f *faultyBackend) Delete(ctx context.Context, section string, id string) error {
	if err := f.check("delete"); err != nil {
		return err
	}
	return f.Backend.Delete(ctx, section, id)
}

func (f *faultyBackend) Drop(ctx context.Context, section string) error {
	if err := f.check("drop"); err != nil {
		return err
	}
	return f.Backend.Drop(ctx, section)
}

func (f *faultyBackend) Exists(ctx context.Context, section string) (bool, error) {
	if err := f.check("exists"); err != nil {
		return false, err
	}
	if f.missing {
		return false, nil
	}
	return f.Backend.Exists(ctx, section)
}
