// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/regctl/internal/meta"
	"github.com/staranto/regctl/internal/output"
)

// LsCommandAction lists every entry of a section.
func LsCommandAction(ctx context.Context, cmd *cli.Command) error {
	return WithSession(ctx, cmd, false, func(s *Session) error {
		content, err := s.Registry.GetContent(ctx, cmd.Int("limit"))
		if err != nil {
			return err
		}
		return Spit(cmd, s, content)
	})
}

// LsCommandBuilder constructs the cli.Command definition for the "ls"
// command.
func LsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&RegistryCommandBuilder{
		Name:      "ls",
		Usage:     "list the entries of a section",
		UsageText: `regctl ls <section> [options]`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "limit the number of entries, needs --enforce-limit",
				Value:   0,
			},
		},
		Examples: []output.Example{
			{"regctl ls theme", "list the theme section"},
			{"regctl ls theme -o raw", "dump the section as one JSON object"},
			{"regctl ls theme -f type=string -s -id", "strings only, by id descending"},
			{"regctl ls theme -f value.fg=red", "entries whose fg member is red"},
		},
		MinArgs: 1,
		MaxArgs: 1,
		Action:  LsCommandAction,
		Meta:    meta,
	}).Build()
}
