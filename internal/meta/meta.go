// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"context"

	"github.com/staranto/regctl/internal/config"
	"github.com/staranto/regctl/internal/registry"
)

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	// Cache is shared by every registry opened during one invocation, so
	// commands touching two sections (diff) reuse what was already loaded.
	Cache registry.Cache
}
