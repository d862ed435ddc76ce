// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package seed

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	want := map[string]any{
		"color":   "blue",
		"size":    float64(12),
		"enabled": true,
		"palette": map[string]any{"fg": "red", "bg": "black"},
		"fonts":   []any{"mono", "sans"},
		"nothing": nil,
	}

	for _, file := range []string{"theme.hcl", "theme.yaml", "theme.json"} {
		t.Run(file, func(t *testing.T) {
			got, err := Load(filepath.Join("testdata", file))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantFmt bool
	}{
		{name: "missing file", file: "nope.yaml"},
		{name: "unsupported extension", file: "theme.csv", wantFmt: true},
		{name: "hcl blocks", file: "blocks.hcl"},
		{name: "hcl variables", file: "vars.hcl"},
		{name: "broken yaml", file: "broken.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(filepath.Join("testdata", tt.file))
			require.Error(t, err)
			if tt.wantFmt {
				assert.ErrorIs(t, err, ErrFormat)
			}
		})
	}
}
