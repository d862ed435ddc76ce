// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	"gopkg.in/yaml.v3"

	"github.com/staranto/regctl/internal/decorator"
)

// ErrFormat is returned for files whose extension has no parser.
var ErrFormat = errors.New("seed: unsupported file format")

// Load reads path and returns its top-level entries. The parser is chosen by
// extension: .hcl, .yaml/.yml or .json.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var entries map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		entries, err = parseHCL(path, data)
	case ".yaml", ".yml":
		entries, err = parseYAML(data)
	case ".json":
		entries, err = parseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	log.Debugf("loaded %d entries from %s", len(entries), path)
	return normalize(entries)
}

// parseHCL evaluates the top-level attributes of an HCL file without any
// variables or functions. Blocks are not allowed.
func parseHCL(path string, data []byte) (map[string]any, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, diags
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	entries := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(&hcl.EvalContext{})
		if diags.HasErrors() {
			return nil, diags
		}
		if !val.IsWhollyKnown() {
			return nil, fmt.Errorf("attribute %s is not a constant", name)
		}

		v, err := native(val)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		entries[name] = v
	}
	return entries, nil
}

// native converts an evaluated cty value to plain Go values.
func native(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, err
		}
		return f, nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0)
		for it := v.ElementIterator(); it.Next(); {
			_, e := it.Element()
			n, err := native(e)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			k, e := it.Element()
			n, err := native(e)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k.AsString(), err)
			}
			out[k.AsString()] = n
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported type %s", ty.FriendlyName())
}

func parseYAML(data []byte) (map[string]any, error) {
	var entries map[string]any
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseJSON(data []byte) (map[string]any, error) {
	var entries map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// normalize maps every entry onto the decorator value domain.
func normalize(entries map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(entries))
	for id, v := range entries {
		c, err := decorator.Canonical(v)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", id, err)
		}
		out[id] = c
	}
	return out, nil
}
