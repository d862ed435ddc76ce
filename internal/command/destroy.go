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

// DestroyCommandAction drops a whole section. It refuses to run without
// --yes.
func DestroyCommandAction(ctx context.Context, cmd *cli.Command) error {
	if err := FlagValidators(cmd.Bool("yes"), MustBeTrueValidator); err != nil {
		return fmt.Errorf("--yes %w to destroy a section", err)
	}

	return WithSession(ctx, cmd, false, func(s *Session) error {
		return s.Registry.Destroy(ctx)
	})
}

// DestroyCommandBuilder constructs the cli.Command definition for the
// "destroy" command.
func DestroyCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&RegistryCommandBuilder{
		Name:      "destroy",
		Usage:     "drop a section and everything in it",
		UsageText: `regctl destroy <section> --yes [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "confirm the destroy",
				HideDefault: true,
			},
		},
		Examples: []output.Example{
			{"regctl destroy theme --yes", "drop the theme section"},
		},
		MinArgs: 1,
		MaxArgs: 1,
		Action:  DestroyCommandAction,
		Meta:    meta,
	}).Build()
}
