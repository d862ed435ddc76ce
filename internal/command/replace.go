// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/regctl/internal/meta"
	"github.com/staranto/regctl/internal/output"
)

// ReplaceCommandAction overwrites the value of a registered identifier.
func ReplaceCommandAction(ctx context.Context, cmd *cli.Command) error {
	return WithSession(ctx, cmd, true, func(s *Session) error {
		v := ParseValue(s.Decorator, cmd.Args().Get(2), cmd.Bool("string"))
		return s.Registry.Replace(ctx, cmd.Args().Get(1), v)
	})
}

// ReplaceCommandBuilder constructs the cli.Command definition for the
// "replace" command.
func ReplaceCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&RegistryCommandBuilder{
		Name:      "replace",
		Usage:     "overwrite the value of a registered identifier",
		UsageText: `regctl replace <section> <id> <value> [options]`,
		Flags: []cli.Flag{
			NewStringValueFlag(),
		},
		Examples: []output.Example{
			{"regctl replace theme color red", "change color to red"},
		},
		MinArgs: 3,
		MaxArgs: 3,
		Action:  ReplaceCommandAction,
		Meta:    meta,
	}).Build()
}
