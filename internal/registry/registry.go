// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/regctl/internal/backend"
	"github.com/staranto/regctl/internal/decorator"
)

// Cache maps a section to its cached identifier -> value entries. One Cache
// may back several registries as long as their sections differ.
type Cache map[string]map[string]any

// NewCache returns an empty cache.
func NewCache() Cache {
	return Cache{}
}

// Option customizes a Registry.
type Option func(*Registry)

// WithCache makes the registry use c instead of a private cache.
func WithCache(c Cache) Option {
	return func(r *Registry) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithLimitEnforced makes GetContent honour its limit argument. Without it
// the limit is accepted and ignored.
func WithLimitEnforced() Option {
	return func(r *Registry) { r.enforceLimit = true }
}

// Registry is the cached key-value facade for a single section.
type Registry struct {
	section      string
	backend      backend.Backend
	decorator    decorator.Decorator
	cache        Cache
	enforceLimit bool
}

// New creates a Registry for section over be. The section name is lower
// cased. A nil dec selects the JSON decorator.
func New(section string, be backend.Backend, dec decorator.Decorator, opts ...Option) (*Registry, error) {
	section = strings.ToLower(strings.TrimSpace(section))
	if section == "" {
		return nil, errors.New("registry: section is required")
	}
	if be == nil {
		return nil, errors.New("registry: backend is nil")
	}
	if dec == nil {
		dec = decorator.JSON{}
	}

	r := &Registry{
		section:   section,
		backend:   be,
		decorator: dec,
		cache:     NewCache(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Section returns the normalized section name.
func (r *Registry) Section() string {
	return r.section
}

// String describes the registry and its backend.
func (r *Registry) String() string {
	return fmt.Sprintf("%s@%s", r.section, r.backend)
}

func (r *Registry) entries() map[string]any {
	e, ok := r.cache[r.section]
	if !ok || e == nil {
		e = map[string]any{}
		r.cache[r.section] = e
	}
	return e
}

func (r *Registry) logger() *log.Entry {
	return log.WithField("section", r.section)
}

// Register adds id with value. It fails with ErrDuplicateIdentifier when id
// is already known to the cache or the backend.
func (r *Registry) Register(ctx context.Context, id string, value any) error {
	if err := validateID(id); err != nil {
		return err
	}

	registered, err := r.IsRegistered(ctx, id)
	if err != nil {
		return err
	}
	if registered {
		return newError(ErrDuplicateIdentifier,
			"identifier %q is already registered in section %q", id, r.section)
	}

	data, canonical, err := r.encode(id, value)
	if err != nil {
		return err
	}

	entries := r.entries()
	entries[id] = canonical

	if err := r.backend.Insert(ctx, r.section, backend.Record{EntityID: id, Data: data}); err != nil {
		delete(entries, id)
		r.logger().WithError(err).Warnf("register %s rolled back", id)
		return newBackendError("Error occurred while registering an entity", err)
	}

	r.logger().Debugf("registered %s", id)
	return nil
}

// IsRegistered reports whether id exists. A cache miss falls through to a
// single-record backend fetch, so values that only live in the backend are
// found (and cached).
func (r *Registry) IsRegistered(ctx context.Context, id string) (bool, error) {
	if _, ok := r.entries()[id]; ok {
		return true, nil
	}
	_, found, err := r.lookup(ctx, id)
	return found, err
}

// GetContentByID returns the value for id. An empty cached value (nil, "",
// an empty sequence or mapping) is refetched from the backend, and def is
// returned when id is unknown or its value is still empty.
func (r *Registry) GetContentByID(ctx context.Context, id string, def any) (any, error) {
	if v, ok := r.entries()[id]; ok && !isEmpty(v) {
		r.logger().Debugf("cache hit %s", id)
		return v, nil
	}

	v, found, err := r.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found || isEmpty(v) {
		return def, nil
	}
	return v, nil
}

// GetContentByIDs fetches ids from the backend whether or not they are cached
// and merges the results into the cache by identifier. Unknown ids are absent
// from the returned map.
func (r *Registry) GetContentByIDs(ctx context.Context, ids ...string) (map[string]any, error) {
	content := map[string]any{}
	if len(ids) == 0 {
		return content, nil
	}

	records, err := r.backend.Fetch(ctx, r.section, ids...)
	if err != nil {
		return nil, newBackendError("Error occurred while querying the registry", err)
	}

	for _, rec := range records {
		v, err := r.decode(rec)
		if err != nil {
			return nil, err
		}
		content[rec.EntityID] = v
	}

	entries := r.entries()
	for id, v := range content {
		entries[id] = v
	}

	r.logger().Debugf("fetched %d of %d ids", len(content), len(ids))
	return content, nil
}

// Replace overwrites the value of a registered id. On backend failure the
// previous value is restored in the cache. An id that is not cached costs an
// extra backend fetch to confirm it is registered before the update.
func (r *Registry) Replace(ctx context.Context, id string, value any) error {
	if err := validateID(id); err != nil {
		return err
	}

	registered, err := r.IsRegistered(ctx, id)
	if err != nil {
		return err
	}
	if !registered {
		return newError(ErrNotRegistered,
			"identifier %q is not registered in section %q", id, r.section)
	}

	data, canonical, err := r.encode(id, value)
	if err != nil {
		return err
	}

	entries := r.entries()
	old := entries[id]
	entries[id] = canonical

	if err := r.backend.Update(ctx, r.section, backend.Record{EntityID: id, Data: data}); err != nil {
		entries[id] = old
		r.logger().WithError(err).Warnf("replace %s rolled back", id)
		return newBackendError("Failed to replace the entity in the registry", err)
	}

	r.logger().Debugf("replaced %s", id)
	return nil
}

// Unregister removes id. On backend failure the previous value is restored in
// the cache. An id that is not cached costs an extra backend fetch to confirm
// it is registered before the delete.
func (r *Registry) Unregister(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	registered, err := r.IsRegistered(ctx, id)
	if err != nil {
		return err
	}
	if !registered {
		return newError(ErrNotRegistered,
			"identifier %q is not registered in section %q", id, r.section)
	}

	entries := r.entries()
	old := entries[id]
	delete(entries, id)

	if err := r.backend.Delete(ctx, r.section, id); err != nil {
		entries[id] = old
		r.logger().WithError(err).Warnf("unregister %s rolled back", id)
		return newBackendError("Failed to remove the entity from the registry", err)
	}

	r.logger().Debugf("unregistered %s", id)
	return nil
}

// Destroy drops the section from the backend. The section's cache is cleared
// whether or not the backend succeeded. There is no rollback.
func (r *Registry) Destroy(ctx context.Context) error {
	err := r.backend.Drop(ctx, r.section)
	r.cache[r.section] = map[string]any{}

	if err != nil {
		return newBackendError("Unable to delete the registry section", err)
	}

	r.logger().Debugf("destroyed")
	return nil
}

// Init verifies the section exists in the backend and loads it into the cache
// when the cache is empty.
func (r *Registry) Init(ctx context.Context) (map[string]any, error) {
	ok, err := r.backend.Exists(ctx, r.section)
	if err != nil {
		return nil, newBackendError("The registry section could not be checked", err)
	}
	if !ok {
		return nil, newError(ErrBackendQuery, "The registry section does not exist: %s", r.section)
	}

	if len(r.entries()) == 0 {
		return r.GetContent(ctx, 0)
	}
	return maps.Clone(r.entries()), nil
}

// GetContent returns every entry of the section, loading it from the backend
// when the cache is empty.
//
// limit has no effect unless the registry was built WithLimitEnforced, in
// which case a positive limit returns the first limit entries by identifier.
func (r *Registry) GetContent(ctx context.Context, limit int) (map[string]any, error) {
	entries := r.entries()
	if len(entries) > 0 {
		return r.limited(entries, limit), nil
	}

	records, err := r.backend.FetchAll(ctx, r.section)
	if err != nil {
		return nil, newBackendError("Failed to fetch information from the registry", err)
	}

	for _, rec := range records {
		v, err := r.decode(rec)
		if err != nil {
			return nil, err
		}
		entries[rec.EntityID] = v
	}

	r.logger().Debugf("loaded %d entries", len(entries))
	return r.limited(entries, limit), nil
}

func (r *Registry) limited(entries map[string]any, limit int) map[string]any {
	if !r.enforceLimit || limit <= 0 || limit >= len(entries) {
		return maps.Clone(entries)
	}
	out := make(map[string]any, limit)
	for _, k := range decorator.Keys(entries)[:limit] {
		out[k] = entries[k]
	}
	return out
}

func (r *Registry) lookup(ctx context.Context, id string) (any, bool, error) {
	content, err := r.GetContentByIDs(ctx, id)
	if err != nil {
		return nil, false, err
	}
	v, ok := content[id]
	return v, ok, nil
}

func (r *Registry) encode(id string, value any) ([]byte, any, error) {
	canonical, err := decorator.Canonical(value)
	if err != nil {
		return nil, nil, &Error{
			Message: fmt.Sprintf("Unable to encode the value of %s: %v", id, err),
			kind:    decorator.ErrEncode,
			err:     err,
		}
	}
	data, err := r.decorator.Normalize(canonical)
	if err != nil {
		return nil, nil, &Error{
			Message: fmt.Sprintf("Unable to encode the value of %s: %v", id, err),
			kind:    decorator.ErrEncode,
			err:     err,
		}
	}
	return data, canonical, nil
}

// decode denormalizes a stored record. A record without data decodes to nil.
func (r *Registry) decode(rec backend.Record) (any, error) {
	if len(rec.Data) == 0 {
		return nil, nil
	}
	v, err := r.decorator.Denormalize(rec.Data)
	if err != nil {
		return nil, &Error{
			Message: fmt.Sprintf("Unable to decode the value of %s: %v", rec.EntityID, err),
			kind:    decorator.ErrDecode,
			err:     err,
		}
	}
	return v, nil
}

// isEmpty reports whether v carries no content.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return newError(ErrInvalidIdentifier, "identifier must not be empty")
	}
	return nil
}
