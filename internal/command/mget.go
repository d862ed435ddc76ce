// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/regctl/internal/meta"
	"github.com/staranto/regctl/internal/output"
)

// MgetCommandAction fetches several identifiers in one backend round trip.
// Unknown identifiers are left out of the result.
func MgetCommandAction(ctx context.Context, cmd *cli.Command) error {
	return WithSession(ctx, cmd, false, func(s *Session) error {
		content, err := s.Registry.GetContentByIDs(ctx, cmd.Args().Tail()...)
		if err != nil {
			return err
		}
		return Spit(cmd, s, content)
	})
}

// MgetCommandBuilder constructs the cli.Command definition for the "mget"
// command.
func MgetCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&RegistryCommandBuilder{
		Name:      "mget",
		Usage:     "print the values of several identifiers",
		UsageText: `regctl mget <section> <id>... [options]`,
		Examples: []output.Example{
			{"regctl mget theme color font", "print two entries"},
		},
		MinArgs: 2,
		MaxArgs: -1,
		Action:  MgetCommandAction,
		Meta:    meta,
	}).Build()
}
