// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"github.com/staranto/regctl/internal/decorator"
)

// Row columns, in display order.
const (
	ColID    = "id"
	ColType  = "type"
	ColSize  = "size"
	ColValue = "value"
)

// Columns lists every row column in display order.
var Columns = []string{ColID, ColType, ColSize, ColValue}

// Rows builds one row per entry of content, ordered by id. size is the
// length of the value as dec would store it.
func Rows(content map[string]any, dec decorator.Decorator) []map[string]any {
	if dec == nil {
		dec = decorator.JSON{}
	}

	rows := make([]map[string]any, 0, len(content))
	for _, id := range decorator.Keys(content) {
		v := content[id]
		size := 0
		if data, err := dec.Normalize(v); err == nil {
			size = len(data)
		}
		rows = append(rows, map[string]any{
			ColID:    id,
			ColType:  TypeOf(v),
			ColSize:  size,
			ColValue: v,
		})
	}
	return rows
}

// TypeOf names the kind of a decorated value.
func TypeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case float64, float32, int, int64:
		return "number"
	case string:
		return "string"
	case []any:
		return "list"
	case map[string]any:
		return "map"
	}
	return "unknown"
}
