// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package decorator converts registry values to and from the representation
// a backend stores. Values are drawn from the JSON value domain: nil, bool,
// string, float64, []any and map[string]any, nested arbitrarily.
package decorator
