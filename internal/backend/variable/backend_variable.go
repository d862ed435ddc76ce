// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package variable

import (
	"context"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/staranto/regctl/internal/backend"
)

const emptyDocument = "{}"

// BackendVariable persists each section as a single variable in a Store.
type BackendVariable struct {
	store  Store
	prefix string
}

// Option customizes a BackendVariable.
type Option func(*BackendVariable)

// WithPrefix prepends prefix to every variable name, e.g. "registry_".
func WithPrefix(prefix string) Option {
	return func(be *BackendVariable) { be.prefix = prefix }
}

// NewBackendVariable returns a variable backend over store.
func NewBackendVariable(store Store, opts ...Option) (*BackendVariable, error) {
	if store == nil {
		return nil, fmt.Errorf("variable: store is nil")
	}
	be := &BackendVariable{store: store}
	for _, opt := range opts {
		opt(be)
	}
	return be, nil
}

func (be *BackendVariable) Fetch(ctx context.Context, section string, ids ...string) ([]backend.Record, error) {
	doc, err := be.load(ctx, "fetch", section)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var recs []backend.Record
	for _, rec := range records(doc) {
		if wanted[rec.EntityID] {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func (be *BackendVariable) FetchAll(ctx context.Context, section string) ([]backend.Record, error) {
	doc, err := be.load(ctx, "fetch", section)
	if err != nil {
		return nil, err
	}
	return records(doc), nil
}

func (be *BackendVariable) Insert(ctx context.Context, section string, rec backend.Record) error {
	doc, err := be.load(ctx, "insert", section)
	if err != nil {
		return err
	}
	if has(doc, rec.EntityID) {
		return &backend.QueryError{
			Op:      "insert",
			Section: section,
			Message: fmt.Sprintf("duplicate entity %q", rec.EntityID),
		}
	}
	return be.rewrite(ctx, "insert", section, doc, rec.EntityID, rec.Data)
}

func (be *BackendVariable) Update(ctx context.Context, section string, rec backend.Record) error {
	doc, err := be.load(ctx, "update", section)
	if err != nil {
		return err
	}
	if !has(doc, rec.EntityID) {
		return notFound("update", section, rec.EntityID)
	}
	return be.rewrite(ctx, "update", section, doc, rec.EntityID, rec.Data)
}

func (be *BackendVariable) Delete(ctx context.Context, section string, id string) error {
	doc, err := be.load(ctx, "delete", section)
	if err != nil {
		return err
	}
	if !has(doc, id) {
		return notFound("delete", section, id)
	}

	doc, err = sjson.DeleteBytes(doc, escapePath(id))
	if err != nil {
		return wrap("delete", section, err)
	}
	return be.save(ctx, "delete", section, doc)
}

// Drop deletes the section variable and asserts that it can no longer be
// read back.
func (be *BackendVariable) Drop(ctx context.Context, section string) error {
	name := be.name(section)
	if err := be.store.Delete(ctx, name); err != nil {
		return wrap("drop", section, err)
	}

	content, ok, err := be.store.Get(ctx, name)
	if err != nil {
		return wrap("drop", section, err)
	}
	if ok && len(records(content)) > 0 {
		return &backend.QueryError{
			Op:      "drop",
			Section: section,
			Message: fmt.Sprintf("Section %s could not be destroyed from the registry.", section),
			Err:     backend.ErrAssertion,
		}
	}

	log.Debugf("variable %s dropped from %s", name, be.store)
	return nil
}

// Exists reports whether the store is reachable. A variable that was never
// written is an empty section, not a missing one.
func (be *BackendVariable) Exists(ctx context.Context, section string) (bool, error) {
	if _, err := be.load(ctx, "exists", section); err != nil {
		return false, err
	}
	return true, nil
}

func (be *BackendVariable) String() string {
	return "variable:" + be.store.String()
}

func (be *BackendVariable) name(section string) string {
	return be.prefix + section
}

// load reads the section variable. A missing variable is an empty document.
func (be *BackendVariable) load(ctx context.Context, op, section string) ([]byte, error) {
	name := be.name(section)
	data, ok, err := be.store.Get(ctx, name)
	if err != nil {
		return nil, wrap(op, section, err)
	}
	if !ok || len(strings.TrimSpace(string(data))) == 0 {
		return []byte(emptyDocument), nil
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, &backend.QueryError{
			Op:      op,
			Section: section,
			Message: fmt.Sprintf("variable %s does not hold a JSON object", name),
		}
	}
	return data, nil
}

func (be *BackendVariable) rewrite(ctx context.Context, op, section string, doc []byte, id string, data []byte) error {
	doc, err := sjson.SetBytes(doc, escapePath(id), string(data))
	if err != nil {
		return wrap(op, section, err)
	}
	return be.save(ctx, op, section, doc)
}

func (be *BackendVariable) save(ctx context.Context, op, section string, doc []byte) error {
	name := be.name(section)
	if err := be.store.Set(ctx, name, doc); err != nil {
		return wrap(op, section, err)
	}
	log.Debugf("%s: variable %s rewritten (%d bytes)", op, name, len(doc))
	return nil
}

// records lists the entries of a variable document in document order.
func records(doc []byte) []backend.Record {
	var recs []backend.Record
	gjson.ParseBytes(doc).ForEach(func(key, value gjson.Result) bool {
		recs = append(recs, backend.Record{
			EntityID: key.String(),
			Data:     []byte(value.String()),
		})
		return true
	})
	return recs
}

func has(doc []byte, id string) bool {
	found := false
	gjson.ParseBytes(doc).ForEach(func(key, _ gjson.Result) bool {
		if key.String() == id {
			found = true
			return false
		}
		return true
	})
	return found
}

// wrap reports a store failure, keeping the store's native code when it
// supplied one.
func wrap(op, section string, err error) error {
	code, msg := backend.ErrorInfo(err)
	return &backend.QueryError{Op: op, Section: section, Code: code, Message: msg, Err: err}
}

func notFound(op, section, id string) error {
	return &backend.QueryError{
		Op:      op,
		Section: section,
		Message: fmt.Sprintf("entity %q not found", id),
		Err:     backend.ErrNotFound,
	}
}

// escapePath escapes id for use as a single sjson path component. Every ASCII
// byte other than letters, digits, '_' and '-' is backslash escaped.
func escapePath(id string) string {
	var sb strings.Builder
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 0x80,
			c >= 'a' && c <= 'z',
			c >= 'A' && c <= 'Z',
			c >= '0' && c <= '9',
			c == '_', c == '-':
		default:
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
