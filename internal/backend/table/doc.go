// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package table implements the relational backend: one table per section with
// an entityId key column and a data column holding the decorated value.
package table
