// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Result is the outcome of comparing two sections.
type Result struct {
	Modified bool
	// Text is the rendered diff, empty when nothing changed.
	Text string
}

// Diff compares left and right. format is "delta" for a JSON delta document,
// anything else renders an annotated listing of left with the changes marked
// and optionally colored.
func Diff(left, right map[string]any, format string, color bool) (Result, error) {
	// Round trip through JSON so both sides hold only JSON native types.
	l, err := roundTrip(left)
	if err != nil {
		return Result{}, fmt.Errorf("left: %w", err)
	}
	r, err := roundTrip(right)
	if err != nil {
		return Result{}, fmt.Errorf("right: %w", err)
	}

	d := gojsondiff.New().CompareObjects(l, r)
	log.Debugf("diff: %d deltas", len(d.Deltas()))
	if !d.Modified() {
		return Result{}, nil
	}

	var text string
	switch format {
	case "delta":
		text, err = formatter.NewDeltaFormatter().Format(d)
	default:
		f := formatter.NewAsciiFormatter(l, formatter.AsciiFormatterConfig{
			ShowArrayIndex: true,
			Coloring:       color,
		})
		text, err = f.Format(d)
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to format diff: %w", err)
	}

	return Result{Modified: true, Text: text}, nil
}

func roundTrip(m map[string]any) (map[string]interface{}, error) {
	if m == nil {
		return map[string]interface{}{}, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
