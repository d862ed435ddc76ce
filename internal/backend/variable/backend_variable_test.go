// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package variable

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/staranto/regctl/internal/backend"
)

// stickyStore ignores deletes, so a dropped variable can still be read back.
type stickyStore struct {
	*MemoryStore
}

func (stickyStore) Delete(context.Context, string) error { return nil }

// brokenStore fails every call with a coded QueryError.
type brokenStore struct{}

var errBroken = &backend.QueryError{Op: "get", Section: "store", Code: 503, Message: "SlowDown"}

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errBroken }
func (brokenStore) Set(context.Context, string, []byte) error        { return errBroken }
func (brokenStore) Delete(context.Context, string) error             { return errBroken }
func (brokenStore) String() string                                   { return "broken" }

func newTestBackend(t *testing.T, store Store, opts ...Option) *BackendVariable {
	t.Helper()
	be, err := NewBackendVariable(store, opts...)
	require.NoError(t, err)
	return be
}

func TestNewBackendVariable_NilStore(t *testing.T) {
	_, err := NewBackendVariable(nil)
	assert.Error(t, err)
}

func TestBackendVariable_SpecialIdentifiers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	be := newTestBackend(t, store)

	ids := []string{"fav.movie", "a#b", "1", "with space", `quo"te`, "back\\slash", "wild*card?", "ünï"}

	for i, id := range ids {
		t.Run(id, func(t *testing.T) {
			data := []byte(`"v` + string(rune('a'+i)) + `"`)
			require.NoError(t, be.Insert(ctx, "theme", backend.Record{EntityID: id, Data: data}))

			recs, err := be.Fetch(ctx, "theme", id)
			require.NoError(t, err)
			require.Len(t, recs, 1)
			assert.Equal(t, id, recs[0].EntityID)
			assert.Equal(t, data, recs[0].Data)
		})
	}

	recs, err := be.FetchAll(ctx, "theme")
	require.NoError(t, err)
	assert.Len(t, recs, len(ids))

	raw, ok, err := store.Get(ctx, "theme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, gjson.ValidBytes(raw))
	assert.True(t, gjson.ParseBytes(raw).IsObject())

	for _, id := range ids {
		require.NoError(t, be.Delete(ctx, "theme", id), id)
	}

	recs, err = be.FetchAll(ctx, "theme")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestBackendVariable_Operations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	be := newTestBackend(t, store, WithPrefix("registry_"))

	require.NoError(t, be.Insert(ctx, "theme", backend.Record{EntityID: "color", Data: []byte(`"blue"`)}))
	assert.Equal(t, []string{"registry_theme"}, store.Names())

	err := be.Insert(ctx, "theme", backend.Record{EntityID: "color", Data: []byte(`"red"`)})
	assert.Error(t, err)

	require.NoError(t, be.Update(ctx, "theme", backend.Record{EntityID: "color", Data: []byte(`{"fg":"red"}`)}))

	recs, err := be.Fetch(ctx, "theme", "color", "font")
	require.NoError(t, err)
	assert.Equal(t, []backend.Record{{EntityID: "color", Data: []byte(`{"fg":"red"}`)}}, recs)

	tests := []struct {
		name string
		call func() error
	}{
		{"update", func() error {
			return be.Update(ctx, "theme", backend.Record{EntityID: "font", Data: []byte(`1`)})
		}},
		{"delete", func() error { return be.Delete(ctx, "theme", "font") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), backend.ErrNotFound)
		})
	}

	ok, err := be.Exists(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = be.Exists(ctx, "never-written")
	require.NoError(t, err)
	assert.True(t, ok, "an unwritten variable is an empty section")

	require.NoError(t, be.Drop(ctx, "theme"))
	assert.Empty(t, store.Names())
	assert.Equal(t, "variable:memory", be.String())
}

func TestBackendVariable_DropAssertion(t *testing.T) {
	ctx := context.Background()
	be := newTestBackend(t, stickyStore{NewMemoryStore()})

	require.NoError(t, be.Insert(ctx, "theme", backend.Record{EntityID: "color", Data: []byte(`"blue"`)}))

	err := be.Drop(ctx, "theme")
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.ErrAssertion)

	_, msg := backend.ErrorInfo(err)
	assert.Equal(t, "Section theme could not be destroyed from the registry.", msg)
}

func TestBackendVariable_CorruptVariable(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"empty", "", false},
		{"blank", "  \n", false},
		{"object", `{"color":"\"blue\""}`, false},
		{"array", `["blue"]`, true},
		{"garbage", `{not json`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			require.NoError(t, store.Set(ctx, "theme", []byte(tt.content)))
			be := newTestBackend(t, store)

			_, err := be.FetchAll(ctx, "theme")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBackendVariable_StoreFailure(t *testing.T) {
	ctx := context.Background()
	be := newTestBackend(t, brokenStore{})

	_, err := be.FetchAll(ctx, "theme")
	require.Error(t, err)

	code, msg := backend.ErrorInfo(err)
	assert.Equal(t, 503, code)
	assert.Equal(t, "SlowDown", msg)

	var qe *backend.QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, "fetch", qe.Op)

	_, err = be.Exists(ctx, "theme")
	assert.Error(t, err)

	assert.Error(t, be.Drop(ctx, "theme"))
}

func TestEscapePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"color", "color"},
		{"fav.movie", `fav\.movie`},
		{"a#b", `a\#b`},
		{"snake_case-id", "snake_case-id"},
		{"*", `\*`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapePath(tt.in))
		})
	}
}
