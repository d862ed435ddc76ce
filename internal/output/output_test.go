// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/regctl/internal/attrs"
	"github.com/staranto/regctl/internal/decorator"
)

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"name": "zebra", "count": 3.0, "type": "string"},
		{"name": "Alpha", "count": 1.0, "type": "map"},
		{"name": "beta", "count": 2.0, "type": "list"},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{
			name:      "ascending by name",
			spec:      "name",
			wantOrder: []string{"Alpha", "beta", "zebra"},
		},
		{
			name:      "descending by name",
			spec:      "-name",
			wantOrder: []string{"zebra", "beta", "Alpha"},
		},
		{
			name:      "ascending by count",
			spec:      "count",
			wantOrder: []string{"Alpha", "beta", "zebra"},
		},
		{
			name:      "descending by count",
			spec:      "-count",
			wantOrder: []string{"zebra", "beta", "Alpha"},
		},
		{
			name:      "case sensitive",
			spec:      "!name",
			wantOrder: []string{"Alpha", "beta", "zebra"},
		},
		{
			name:      "multiple fields",
			spec:      "type,name",
			wantOrder: []string{"beta", "Alpha", "zebra"},
		},
		{
			name:      "empty spec",
			spec:      "",
			wantOrder: []string{"zebra", "Alpha", "beta"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]interface{}, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, expectedName := range tt.wantOrder {
				assert.Equal(t, expectedName, data[i]["name"], "at index %d", i)
			}
		})
	}
}

func TestSortDataset_Mixed(t *testing.T) {
	data := []map[string]interface{}{
		{"id": "s", "value": "x"},
		{"id": "n", "value": nil},
		{"id": "f", "value": 2.5},
		{"id": "i", "value": 1},
	}

	SortDataset(data, "value")

	var ids []string
	for _, row := range data {
		ids = append(ids, row["id"].(string))
	}
	assert.Equal(t, []string{"n", "i", "f", "s"}, ids)
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal string
		want     string
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "int", value: 42, want: "42"},
		{name: "float64", value: 42.5, want: "42.5"},
		{name: "whole float64", value: 42.0, want: "42"},
		{name: "bool true", value: true, want: "true"},
		{name: "bool false", value: false, want: "false"},
		{name: "zero int", value: 0, want: "0"},
		{name: "nil default", value: nil, want: ""},
		{name: "nil custom", value: nil, emptyVal: "-", want: "-"},
		{name: "slice", value: []string{"a", "b"}, want: `["a","b"]`},
		{name: "map", value: map[string]int{"x": 1}, want: `{"x":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.emptyVal != "" {
				got = InterfaceToString(tt.value, tt.emptyVal)
			} else {
				got = InterfaceToString(tt.value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRows(t *testing.T) {
	content := map[string]any{
		"color":   "blue",
		"palette": map[string]any{"fg": "red"},
		"sizes":   []any{1.0, 2.0},
		"ratio":   0.5,
		"on":      true,
		"nothing": nil,
	}

	rows := Rows(content, decorator.JSON{})
	require.Len(t, rows, len(content))

	want := []struct {
		id   string
		typ  string
		size int
	}{
		{"color", "string", 6},
		{"nothing", "null", 4},
		{"on", "bool", 4},
		{"palette", "map", 12},
		{"ratio", "number", 3},
		{"sizes", "list", 5},
	}
	for i, w := range want {
		assert.Equal(t, w.id, rows[i][ColID])
		assert.Equal(t, w.typ, rows[i][ColType], w.id)
		assert.Equal(t, w.size, rows[i][ColSize], w.id)
		assert.Equal(t, content[w.id], rows[i][ColValue])
	}
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, "unknown", TypeOf(struct{}{}))
	assert.Equal(t, "number", TypeOf(3))
}

func TestSliceDiceSpit(t *testing.T) {
	content := map[string]any{
		"color": "blue",
		"font":  "mono",
		"size":  12.0,
	}

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "raw",
			opts: Options{Format: "raw"},
			want: `{"color":"blue","font":"mono","size":12}` + "\n",
		},
		{
			name: "raw filtered",
			opts: Options{Format: "raw", Filter: "type=string"},
			want: `{"color":"blue","font":"mono"}` + "\n",
		},
		{
			name: "json projected and sorted",
			opts: Options{Format: "json", Sort: "-id", Columns: []string{ColID, ColValue}},
			want: `[{"id":"size","value":12},{"id":"font","value":"mono"},{"id":"color","value":"blue"}]` + "\n",
		},
		{
			name: "json through attrs",
			opts: Options{Format: "json", Filter: "id=font", Attrs: attrs.AttrList{
				{Key: ColID, OutputKey: "name", Include: true},
				{Key: ColType, OutputKey: ColType},
				{Key: ColValue, OutputKey: "v", Include: true, TransformSpec: "U"},
			}},
			want: `[{"name":"font","v":"MONO"}]` + "\n",
		},
		{
			name: "raw ignores attrs",
			opts: Options{Format: "raw", Filter: "id=font", Attrs: attrs.AttrList{{Key: ColID, OutputKey: "name", Include: true}}},
			want: `{"font":"mono"}` + "\n",
		},
		{
			name: "yaml",
			opts: Options{Format: "yaml", Filter: "id=color", Columns: []string{ColID, ColValue}},
			want: "- id: color\n  value: blue\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := SliceDiceSpit(&buf, Rows(content, nil), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSliceDiceSpit_Text(t *testing.T) {
	t.Setenv("REGCTL_CFG", "/nonexistent/regctl.yaml")

	content := map[string]any{
		"color":   "blue",
		"palette": map[string]any{"fg": "red"},
	}

	var buf bytes.Buffer
	err := SliceDiceSpit(&buf, Rows(content, nil), Options{Format: "text", Titles: true})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "color")
	assert.Contains(t, out, "6 B")
	assert.Contains(t, out, `{"fg":"red"}`)

	buf.Reset()
	err = SliceDiceSpit(&buf, nil, Options{Format: "text"})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestSpitValue(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		format string
		want   string
	}{
		{"text string", "blue", "text", "blue\n"},
		{"text map", map[string]any{"fg": "red"}, "text", "{\"fg\":\"red\"}\n"},
		{"text nil", nil, "text", "null\n"},
		{"json string", "blue", "json", "\"blue\"\n"},
		{"yaml list", []any{"a", "b"}, "yaml", "- a\n- b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, SpitValue(&buf, tt.value, tt.format))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestDumpExamples(t *testing.T) {
	var buf bytes.Buffer
	DumpExamples(&buf, nil)
	assert.Empty(t, buf.String())

	DumpExamples(&buf, []Example{{"regctl get theme color", "read one entry"}})
	assert.Contains(t, buf.String(), "regctl get theme color")
	assert.Contains(t, buf.String(), "read one entry")
}

func TestIsTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}

func TestGetColors(t *testing.T) {
	t.Setenv("REGCTL_CFG", "/nonexistent/regctl.yaml")

	header, even, odd := getColors("colors")
	assert.Equal(t, "#f6be00", header)
	assert.Equal(t, "#ffffff", even)
	assert.Equal(t, "#00c8f0", odd)
}

func BenchmarkSortDataset(b *testing.B) {
	testData := []map[string]interface{}{
		{"name": "zebra", "count": 3.0},
		{"name": "alpha", "count": 1.0},
		{"name": "beta", "count": 2.0},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data := make([]map[string]interface{}, len(testData))
		copy(data, testData)
		SortDataset(data, "name")
	}
}
