// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
)

// Store keeps each variable in its own file beneath a base directory. The
// file name is the hex MD5 of the variable name.
type Store struct {
	Dir string
}

// Option customizes a Store.
type Option func(*Store)

// WithDir sets the base directory, overriding Dir().
func WithDir(dir string) Option {
	return func(s *Store) {
		if dir != "" {
			s.Dir = dir
		}
	}
}

// NewStore resolves the base directory and makes sure it exists.
func NewStore(opts ...Option) (*Store, error) {
	s := &Store{}
	if dir, ok := Dir(); ok {
		s.Dir = dir
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Dir == "" {
		return nil, errors.New("local: unable to resolve a variable directory")
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create variable directory: %w", err)
	}
	return s, nil
}

// Dir resolves the default base directory.
// Precedence:
//  1. REGCTL_VAR_DIR, if set and non-empty
//  2. os.UserConfigDir()/regctl/vars
//
// Returns ("", false) if a base cannot be resolved.
func Dir() (string, bool) {
	if d, ok := os.LookupEnv("REGCTL_VAR_DIR"); ok && d != "" {
		return d, true
	}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "regctl", "vars"), true
	}
	return "", false
}

// Path returns the file backing the named variable.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, encodeKey(name))
}

func (s *Store) Get(_ context.Context, name string) ([]byte, bool, error) {
	b, err := os.ReadFile(s.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read variable %s: %w", name, err)
	}
	return bytes.TrimSpace(b), true, nil
}

// Set writes the variable through a temporary file and a rename so a failed
// write never leaves a truncated variable behind.
func (s *Store) Set(_ context.Context, name string, value []byte) error {
	p := s.Path(name)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, value, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write variable %s: %w", name, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write variable %s: %w", name, err)
	}
	log.Debugf("wrote variable %s to %s", name, p)
	return nil
}

func (s *Store) Delete(_ context.Context, name string) error {
	err := os.Remove(s.Path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete variable %s: %w", name, err)
	}
	return nil
}

func (s *Store) String() string {
	return "local:" + s.Dir
}

// encodeKey hashes k with MD5 and returns the hex string.
func encodeKey(k string) string {
	h := md5.New()
	_, _ = h.Write([]byte(k))
	return hex.EncodeToString(h.Sum(nil))
}
