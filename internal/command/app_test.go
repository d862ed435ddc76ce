// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/regctl/internal/config"
	"github.com/staranto/regctl/internal/registry"
)

// isolate keeps the user's config file and REGCTL_* settings out of a test.
func isolate(t *testing.T) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("REGCTL_CFG", "")
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("APPDATA", home)
	t.Setenv("HOME", home)
	for _, name := range []string{"backend", "store", "dsn", "dir", "prefix", "decorator", "output", "enforce-limit"} {
		t.Setenv(EnvVar(name), "")
		os.Unsetenv(EnvVar(name)) //nolint:errcheck
	}
	t.Setenv("REGCTL_VAR_DIR", filepath.Join(home, "vars"))

	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })
}

// run executes one regctl invocation and returns what it wrote.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	argv := append([]string{"regctl"}, args...)
	app, err := InitApp(context.Background(), argv)
	require.NoError(t, err)

	var buf bytes.Buffer
	app.Writer = &buf
	app.ErrWriter = io.Discard

	err = app.Run(context.Background(), argv)
	return buf.String(), err
}

// mustRun is run for invocations that are expected to succeed.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "regctl %s", strings.Join(args, " "))
	return out
}

func TestInitApp_Commands(t *testing.T) {
	isolate(t)

	app, err := InitApp(context.Background(), []string{"regctl", "ls"})
	require.NoError(t, err)

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)

		for i := 1; i < len(c.Flags); i++ {
			assert.LessOrEqual(t, c.Flags[i-1].Names()[0], c.Flags[i].Names()[0], "%s flags are sorted", c.Name)
		}
	}
	assert.Equal(t, []string{
		"init", "ls", "get", "mget", "has", "set", "replace", "rm", "destroy", "import", "diff", "completion",
	}, names)

	m := GetMeta(app.Commands[0])
	assert.NotNil(t, m.Cache)
	assert.Equal(t, []string{"regctl", "ls"}, m.Args)
}

func TestSetAndGet(t *testing.T) {
	isolate(t)
	mem := []string{"--store", "memory"}
	with := func(args ...string) []string {
		return append(append([]string{args[0]}, mem...), args[1:]...)
	}

	mustRun(t, with("set", "cmd_get", "color", "blue")...)
	mustRun(t, with("set", "cmd_get", "size", "12")...)
	mustRun(t, with("set", "cmd_get", "colors", `{"fg":"red"}`)...)
	mustRun(t, with("set", "-S", "cmd_get", "zip", "12")...)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "string", args: with("get", "cmd_get", "color"), want: "blue\n"},
		{name: "number", args: with("get", "-o", "json", "cmd_get", "size"), want: "12\n"},
		{name: "object", args: with("get", "cmd_get", "colors"), want: `{"fg":"red"}` + "\n"},
		{name: "forced string", args: with("get", "-o", "json", "cmd_get", "zip"), want: `"12"` + "\n"},
		{name: "yaml", args: with("get", "-o", "yaml", "cmd_get", "colors"), want: "fg: red\n"},
		{name: "missing", args: with("get", "cmd_get", "font"), want: "null\n"},
		{name: "missing with default", args: with("get", "--default", "mono", "cmd_get", "font"), want: "mono\n"},
		{name: "section is case insensitive", args: with("get", "CMD_Get", "color"), want: "blue\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustRun(t, tt.args...))
		})
	}
}

func TestSet_Duplicate(t *testing.T) {
	isolate(t)

	mustRun(t, "set", "--store", "memory", "cmd_dup", "color", "blue")
	_, err := run(t, "set", "--store", "memory", "cmd_dup", "color", "red")
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrDuplicateIdentifier)

	assert.Equal(t, "blue\n", mustRun(t, "get", "--store", "memory", "cmd_dup", "color"))
}

func TestSet_AutoID(t *testing.T) {
	isolate(t)

	out := mustRun(t, "set", "--store", "memory", "--auto-id", "cmd_auto", `{"user":"ann"}`)
	id := strings.TrimSpace(out)
	_, err := uuid.Parse(id)
	require.NoError(t, err, "printed id is a UUID")

	assert.Equal(t, `{"user":"ann"}`+"\n", mustRun(t, "get", "--store", "memory", "cmd_auto", id))

	_, err = run(t, "set", "--store", "memory", "--auto-id", "cmd_auto", "id", "value")
	assert.ErrorContains(t, err, "usage:")
}

func TestHas(t *testing.T) {
	isolate(t)

	mustRun(t, "set", "--store", "memory", "cmd_has", "color", "blue")
	assert.Equal(t, "true\n", mustRun(t, "has", "--store", "memory", "cmd_has", "color"))

	_, err := run(t, "has", "--store", "memory", "cmd_has", "font")
	assert.ErrorContains(t, err, "font is not registered in cmd_has")
}

func TestMget(t *testing.T) {
	isolate(t)

	mustRun(t, "set", "--store", "memory", "cmd_mget", "color", "blue")
	mustRun(t, "set", "--store", "memory", "cmd_mget", "size", "12")
	mustRun(t, "set", "--store", "memory", "cmd_mget", "font", "mono")

	out := mustRun(t, "mget", "--store", "memory", "-o", "raw", "cmd_mget", "color", "size", "ghost")
	assert.JSONEq(t, `{"color":"blue","size":12}`, out)
}

func TestReplaceAndRm(t *testing.T) {
	isolate(t)
	mem := "--store=memory"

	mustRun(t, "set", mem, "cmd_rep", "color", "blue")
	mustRun(t, "set", mem, "cmd_rep", "font", "mono")

	mustRun(t, "replace", mem, "cmd_rep", "color", "red")
	assert.Equal(t, "red\n", mustRun(t, "get", mem, "cmd_rep", "color"))

	_, err := run(t, "replace", mem, "cmd_rep", "size", "12")
	assert.ErrorIs(t, err, registry.ErrNotRegistered)

	mustRun(t, "rm", mem, "cmd_rep", "color", "font")
	assert.JSONEq(t, `{}`, mustRun(t, "ls", mem, "-o", "raw", "cmd_rep"))

	_, err = run(t, "rm", mem, "cmd_rep", "color")
	assert.ErrorIs(t, err, registry.ErrNotRegistered)
}

func TestDestroy(t *testing.T) {
	isolate(t)
	mem := "--store=memory"

	mustRun(t, "set", mem, "cmd_destroy", "color", "blue")

	_, err := run(t, "destroy", mem, "cmd_destroy")
	assert.ErrorContains(t, err, "--yes must be true")
	assert.Equal(t, "blue\n", mustRun(t, "get", mem, "cmd_destroy", "color"))

	mustRun(t, "destroy", mem, "--yes", "cmd_destroy")
	assert.JSONEq(t, `{}`, mustRun(t, "ls", mem, "-o", "raw", "cmd_destroy"))
}

func TestLs(t *testing.T) {
	isolate(t)
	mem := "--store=memory"

	mustRun(t, "set", mem, "cmd_ls", "color", "blue")
	mustRun(t, "set", mem, "cmd_ls", "size", "12")
	mustRun(t, "set", mem, "cmd_ls", "colors", `{"fg":"red","bg":"black"}`)

	t.Run("text", func(t *testing.T) {
		out := mustRun(t, "ls", mem, "--titles", "cmd_ls")
		for _, s := range []string{"id", "type", "color", "blue", "string", "number", "map"} {
			assert.Contains(t, out, s)
		}
	})

	t.Run("limit ignored without enforce-limit", func(t *testing.T) {
		out := mustRun(t, "ls", mem, "-o", "raw", "--limit", "1", "cmd_ls")
		assert.JSONEq(t, `{"color":"blue","colors":{"bg":"black","fg":"red"},"size":12}`, out)
	})

	t.Run("limit enforced", func(t *testing.T) {
		out := mustRun(t, "ls", mem, "-o", "raw", "--limit", "1", "--enforce-limit", "cmd_ls")
		assert.JSONEq(t, `{"color":"blue"}`, out)
	})

	t.Run("filter on type", func(t *testing.T) {
		out := mustRun(t, "ls", mem, "-o", "raw", "-f", "type=number", "cmd_ls")
		assert.JSONEq(t, `{"size":12}`, out)
	})

	t.Run("filter on value member", func(t *testing.T) {
		out := mustRun(t, "ls", mem, "-o", "raw", "-f", "value.fg=red", "cmd_ls")
		assert.JSONEq(t, `{"colors":{"bg":"black","fg":"red"}}`, out)
	})

	t.Run("json rows", func(t *testing.T) {
		out := mustRun(t, "ls", mem, "-o", "json", "-f", "id=color", "cmd_ls")
		assert.JSONEq(t, `[{"id":"color","type":"string","size":6,"value":"blue"}]`, out)
	})

	t.Run("attrs", func(t *testing.T) {
		out := mustRun(t, "ls", mem, "-o", "json", "-a", "!type,!size,value:v:U,value.fg:fg", "-f", "id^color", "-s", "id", "cmd_ls")
		assert.JSONEq(t, `[
			{"id":"color","v":"BLUE","fg":null},
			{"id":"colors","v":{"bg":"black","fg":"red"},"fg":"red"}
		]`, out)
	})

	t.Run("invalid attrs", func(t *testing.T) {
		_, err := run(t, "ls", mem, "-a", "id:a:b:c", "cmd_ls")
		assert.ErrorContains(t, err, "too many fields")
	})

	t.Run("output from env", func(t *testing.T) {
		t.Setenv("REGCTL_OUTPUT", "raw")
		out := mustRun(t, "ls", mem, "-f", "id=size", "cmd_ls")
		assert.JSONEq(t, `{"size":12}`, out)
	})

	t.Run("invalid output", func(t *testing.T) {
		_, err := run(t, "ls", mem, "-o", "xml", "cmd_ls")
		assert.Error(t, err)
	})
}

func TestLs_NamespacedConfig(t *testing.T) {
	isolate(t)

	cfg := filepath.Join(t.TempDir(), "regctl.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("store: memory\noutput: json\nls:\n  output: raw\n"), 0o600))
	t.Setenv("REGCTL_CFG", cfg)

	mustRun(t, "set", "cmd_cfg", "color", "blue")

	assert.JSONEq(t, `{"color":"blue"}`, mustRun(t, "ls", "cmd_cfg"))
	assert.Equal(t, `"blue"`+"\n", mustRun(t, "get", "cmd_cfg", "color"))
}

func TestImport(t *testing.T) {
	isolate(t)
	mem := "--store=memory"

	file := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(file, []byte("color: blue\nsize: 12\n"), 0o600))

	out := mustRun(t, "import", mem, "cmd_import", file)
	assert.Contains(t, out, "2 registered, 0 replaced")
	assert.JSONEq(t, `{"color":"blue","size":12}`, mustRun(t, "ls", mem, "-o", "raw", "cmd_import"))

	_, err := run(t, "import", mem, "cmd_import", file)
	assert.ErrorIs(t, err, registry.ErrDuplicateIdentifier)

	require.NoError(t, os.WriteFile(file, []byte("color: red\nfont: mono\n"), 0o600))
	out = mustRun(t, "import", mem, "--replace", "cmd_import", file)
	assert.Contains(t, out, "1 registered, 1 replaced")
	assert.JSONEq(t, `{"color":"red","font":"mono","size":12}`, mustRun(t, "ls", mem, "-o", "raw", "cmd_import"))

	_, err = run(t, "import", mem, "cmd_import", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDiff(t *testing.T) {
	isolate(t)
	mem := "--store=memory"

	mustRun(t, "set", mem, "cmd_diff_a", "color", "blue")
	mustRun(t, "set", mem, "cmd_diff_b", "color", "red")
	mustRun(t, "set", mem, "cmd_diff_same", "color", "blue")

	out := mustRun(t, "diff", mem, "cmd_diff_a", "cmd_diff_b")
	assert.Contains(t, out, `"color": "blue"`)
	assert.Contains(t, out, `"color": "red"`)

	out = mustRun(t, "diff", mem, "-o", "json", "cmd_diff_a", "cmd_diff_b")
	assert.JSONEq(t, `{"color":["blue","red"]}`, out)

	assert.Empty(t, mustRun(t, "diff", mem, "cmd_diff_a", "cmd_diff_same"))
}

func TestLocalStore(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	mustRun(t, "set", "--dir", dir, "cmd_local", "color", "blue")
	assert.Equal(t, "blue\n", mustRun(t, "get", "--dir", dir, "cmd_local", "color"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "one file per section")
}

func TestTableBackend(t *testing.T) {
	isolate(t)
	dsn := filepath.Join(t.TempDir(), "reg.db")
	tbl := []string{"--backend", "table", "--dsn", dsn}
	with := func(args ...string) []string {
		return append(append([]string{args[0]}, tbl...), args[1:]...)
	}

	assert.Contains(t, mustRun(t, with("init", "cmd_table")...), "ready with 0 entries")

	mustRun(t, with("set", "cmd_table", "color", "blue")...)
	mustRun(t, with("set", "cmd_table", "size", "12")...)
	assert.Equal(t, "blue\n", mustRun(t, with("get", "cmd_table", "color")...))
	assert.Contains(t, mustRun(t, with("init", "cmd_table")...), "ready with 2 entries")

	mustRun(t, with("destroy", "--yes", "cmd_table")...)
	assert.JSONEq(t, `{}`, mustRun(t, with("ls", "-o", "raw", "cmd_table")...))
}

func TestExamplesAndUsage(t *testing.T) {
	isolate(t)

	out := mustRun(t, "set", "--examples")
	assert.Contains(t, out, "regctl set theme color blue")

	_, err := run(t, "get", "--store", "memory", "cmd_usage")
	assert.ErrorContains(t, err, "usage: regctl get <section> <id>")

	_, err = run(t, "ls", "--store", "s3", "cmd_usage")
	assert.ErrorContains(t, err, "--bucket is required")
}

func TestCompletion(t *testing.T) {
	isolate(t)

	assert.Contains(t, mustRun(t, "completion", "bash"), "complete -F _regctl regctl")
	assert.Contains(t, mustRun(t, "completion", "zsh"), "compdef _regctl regctl")
}
