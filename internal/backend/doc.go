// Copyright (c) 2025 Steve Taranto staranto@gmail.com.
// SPDX-License-Identifier: Apache-2.0

// Package backend defines the persistence contract shared by the registry
// adapters (table and variable) and the structured error they report when a
// query against the underlying store fails.
package backend
