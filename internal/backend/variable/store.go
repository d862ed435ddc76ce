// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package variable

import (
	"context"
	"maps"
	"slices"
)

// Store is a byte-level variable store. Get reports a missing variable with
// ok=false and a nil error.
type Store interface {
	Get(ctx context.Context, name string) (value []byte, ok bool, err error)
	Set(ctx context.Context, name string, value []byte) error
	Delete(ctx context.Context, name string) error
	String() string
}

// MemoryStore keeps variables in process memory.
type MemoryStore struct {
	vars map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vars: map[string][]byte{}}
}

func (s *MemoryStore) Get(_ context.Context, name string) ([]byte, bool, error) {
	v, ok := s.vars[name]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (s *MemoryStore) Set(_ context.Context, name string, value []byte) error {
	s.vars[name] = slices.Clone(value)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	delete(s.vars, name)
	return nil
}

// Names returns the stored variable names, sorted.
func (s *MemoryStore) Names() []string {
	return slices.Sorted(maps.Keys(s.vars))
}

func (s *MemoryStore) String() string {
	return "memory"
}
