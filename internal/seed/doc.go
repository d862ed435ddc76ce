// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package seed reads entries for bulk registration from HCL, YAML or JSON
// files.
package seed
