// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output turns registry content into rows and renders them as a
// table, JSON, YAML or raw decorated values.
package output
