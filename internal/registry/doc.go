// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package registry implements the sectioned key-value registry: an in-memory
// cache per section layered over a backend.Backend, with values passed through
// a decorator.Decorator on their way to and from storage.
//
// The cache is never the source of truth. Every mutation is confirmed by the
// backend, and a rejected mutation restores the entry it touched before the
// error is returned. A Registry is not safe for concurrent use.
package registry
