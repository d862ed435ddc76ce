// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/regctl/internal/meta"
	"github.com/staranto/regctl/internal/output"
)

// GetCommandAction prints the value of one identifier, or --default when the
// identifier is not registered.
func GetCommandAction(ctx context.Context, cmd *cli.Command) error {
	return WithSession(ctx, cmd, false, func(s *Session) error {
		var def any
		if cmd.IsSet("default") {
			def = ParseValue(s.Decorator, cmd.String("default"), cmd.Bool("string"))
		}

		v, err := s.Registry.GetContentByID(ctx, cmd.Args().Get(1), def)
		if err != nil {
			return err
		}
		return output.SpitValue(Writer(cmd), v, cmd.String("output"))
	})
}

// GetCommandBuilder constructs the cli.Command definition for the "get"
// command.
func GetCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&RegistryCommandBuilder{
		Name:      "get",
		Usage:     "print the value of an identifier",
		UsageText: `regctl get <section> <id> [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "default",
				Usage: "value printed when the identifier is not registered",
			},
			NewStringValueFlag(),
		},
		Examples: []output.Example{
			{"regctl get theme color", "print the color entry"},
			{"regctl get theme font --default mono", "fall back to mono"},
		},
		MinArgs: 2,
		MaxArgs: 2,
		Action:  GetCommandAction,
		Meta:    meta,
	}).Build()
}
