// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package variable implements the variable-store backend: a whole section is
// persisted as one named variable holding a JSON object of identifier to
// encoded value. Every mutation rewrites the variable.
package variable
