// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/regctl/internal/differ"
	"github.com/staranto/regctl/internal/meta"
	"github.com/staranto/regctl/internal/output"
)

// DiffCommandAction compares the content of two sections of the same
// backend. Nothing is printed when they match.
func DiffCommandAction(ctx context.Context, cmd *cli.Command) error {
	return WithSession(ctx, cmd, false, func(s *Session) error {
		other, err := s.Section(ctx, cmd.Args().Get(1), false)
		if err != nil {
			return err
		}

		left, err := s.Registry.GetContent(ctx, 0)
		if err != nil {
			return err
		}
		right, err := other.GetContent(ctx, 0)
		if err != nil {
			return err
		}

		format := "ascii"
		if o := cmd.String("output"); o == "json" || o == "raw" {
			format = "delta"
		}

		res, err := differ.Diff(left, right, format, cmd.Bool("color"))
		if err != nil {
			return err
		}
		if !res.Modified {
			return nil
		}
		_, err = fmt.Fprintln(Writer(cmd), res.Text)
		return err
	})
}

// DiffCommandBuilder constructs the cli.Command definition for the "diff"
// command.
func DiffCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&RegistryCommandBuilder{
		Name:      "diff",
		Usage:     "show how one section differs from another",
		UsageText: `regctl diff <section> <other-section> [options]`,
		Examples: []output.Example{
			{"regctl diff theme theme_next", "ascii diff of two sections"},
			{"regctl diff theme theme_next -o json", "JSON delta of two sections"},
		},
		MinArgs: 2,
		MaxArgs: 2,
		Action:  DiffCommandAction,
		Meta:    meta,
	}).Build()
}
