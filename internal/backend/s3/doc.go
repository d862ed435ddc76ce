// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package s3 provides an S3-backed variable store: one object per section.
package s3
