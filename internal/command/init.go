// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/regctl/internal/meta"
	"github.com/staranto/regctl/internal/output"
)

// InitCommandAction creates the section's storage where the backend needs it
// and loads the section.
func InitCommandAction(ctx context.Context, cmd *cli.Command) error {
	return WithSession(ctx, cmd, true, func(s *Session) error {
		content, err := s.Registry.Init(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(Writer(cmd), "%s ready with %d entries\n", s.Registry, len(content))
		return err
	})
}

// InitCommandBuilder constructs the cli.Command definition for the "init"
// command.
func InitCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&RegistryCommandBuilder{
		Name:      "init",
		Usage:     "create and load a section",
		UsageText: `regctl init <section> [options]`,
		Examples: []output.Example{
			{"regctl init theme", "create the theme section"},
			{"regctl init theme -b table --dsn reg.db", "create the theme table in reg.db"},
		},
		MinArgs: 1,
		MaxArgs: 1,
		Action:  InitCommandAction,
		Meta:    meta,
	}).Build()
}
