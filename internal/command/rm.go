// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/regctl/internal/meta"
	"github.com/staranto/regctl/internal/output"
)

// RmCommandAction unregisters identifiers in order and stops at the first
// failure.
func RmCommandAction(ctx context.Context, cmd *cli.Command) error {
	return WithSession(ctx, cmd, false, func(s *Session) error {
		for _, id := range cmd.Args().Tail() {
			if err := s.Registry.Unregister(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// RmCommandBuilder constructs the cli.Command definition for the "rm"
// command.
func RmCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&RegistryCommandBuilder{
		Name:      "rm",
		Usage:     "unregister identifiers",
		UsageText: `regctl rm <section> <id>... [options]`,
		Examples: []output.Example{
			{"regctl rm theme color font", "unregister two entries"},
		},
		MinArgs: 2,
		MaxArgs: -1,
		Action:  RmCommandAction,
		Meta:    meta,
	}).Build()
}
