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

// HasCommandAction prints true when the identifier is registered and fails
// otherwise, so scripts can test the exit status.
func HasCommandAction(ctx context.Context, cmd *cli.Command) error {
	return WithSession(ctx, cmd, false, func(s *Session) error {
		id := cmd.Args().Get(1)
		ok, err := s.Registry.IsRegistered(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s is not registered in %s", id, s.Registry.Section())
		}
		_, err = fmt.Fprintln(Writer(cmd), ok)
		return err
	})
}

// HasCommandBuilder constructs the cli.Command definition for the "has"
// command.
func HasCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&RegistryCommandBuilder{
		Name:      "has",
		Usage:     "test whether an identifier is registered",
		UsageText: `regctl has <section> <id> [options]`,
		Examples: []output.Example{
			{"regctl has theme color && echo yes", "branch on registration"},
		},
		MinArgs: 2,
		MaxArgs: 2,
		Action:  HasCommandAction,
		Meta:    meta,
	}).Build()
}
