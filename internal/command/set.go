// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/staranto/regctl/internal/meta"
	"github.com/staranto/regctl/internal/output"
)

// SetCommandAction registers a new identifier. With --auto-id the identifier
// is a random UUID and is printed.
func SetCommandAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Tail()

	var id, raw string
	switch {
	case cmd.Bool("auto-id") && len(args) == 1:
		id, raw = uuid.NewString(), args[0]
	case !cmd.Bool("auto-id") && len(args) == 2:
		id, raw = args[0], args[1]
	default:
		return fmt.Errorf("usage: %s", cmd.UsageText)
	}

	return WithSession(ctx, cmd, true, func(s *Session) error {
		if err := s.Registry.Register(ctx, id, ParseValue(s.Decorator, raw, cmd.Bool("string"))); err != nil {
			return err
		}
		if cmd.Bool("auto-id") {
			_, err := fmt.Fprintln(Writer(cmd), id)
			return err
		}
		return nil
	})
}

// SetCommandBuilder constructs the cli.Command definition for the "set"
// command.
func SetCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&RegistryCommandBuilder{
		Name:      "set",
		Usage:     "register a new identifier",
		UsageText: `regctl set <section> <id> <value> [options] | regctl set --auto-id <section> <value> [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "auto-id",
				Aliases:     []string{"u"},
				Usage:       "register under a generated UUID and print it",
				HideDefault: true,
			},
			NewStringValueFlag(),
		},
		Examples: []output.Example{
			{"regctl set theme color blue", "register a string"},
			{`regctl set theme size 12`, "register a number"},
			{`regctl set theme colors '{"fg":"red","bg":"black"}'`, "register an object"},
			{"regctl set theme zip 02134 -S", "keep the leading zero"},
			{"regctl set -u sessions '{\"user\":\"ann\"}'", "register under a new UUID"},
		},
		MinArgs: 2,
		MaxArgs: 3,
		Action:  SetCommandAction,
		Meta:    meta,
	}).Build()
}
