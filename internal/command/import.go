// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/regctl/internal/decorator"
	"github.com/staranto/regctl/internal/meta"
	"github.com/staranto/regctl/internal/output"
	"github.com/staranto/regctl/internal/registry"
	"github.com/staranto/regctl/internal/seed"
)

// ImportCommandAction registers every entry of a seed file, in identifier
// order. Entries that already exist fail the import unless --replace is set.
func ImportCommandAction(ctx context.Context, cmd *cli.Command) error {
	entries, err := seed.Load(cmd.Args().Get(1))
	if err != nil {
		return err
	}

	return WithSession(ctx, cmd, true, func(s *Session) error {
		var registered, replaced int
		for _, id := range decorator.Keys(entries) {
			err := s.Registry.Register(ctx, id, entries[id])
			switch {
			case err == nil:
				registered++
			case errors.Is(err, registry.ErrDuplicateIdentifier) && cmd.Bool("replace"):
				if err := s.Registry.Replace(ctx, id, entries[id]); err != nil {
					return err
				}
				replaced++
			default:
				return err
			}
			log.Debugf("imported %s", id)
		}

		_, err := fmt.Fprintf(Writer(cmd), "%s: %d registered, %d replaced\n",
			s.Registry, registered, replaced)
		return err
	})
}

// ImportCommandBuilder constructs the cli.Command definition for the
// "import" command.
func ImportCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&RegistryCommandBuilder{
		Name:      "import",
		Usage:     "register the entries of an HCL, YAML or JSON file",
		UsageText: `regctl import <section> <file> [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "replace",
				Aliases:     []string{"r"},
				Usage:       "replace entries that are already registered",
				HideDefault: true,
			},
		},
		Examples: []output.Example{
			{"regctl import theme theme.hcl", "seed from HCL attributes"},
			{"regctl import theme theme.yaml -r", "reseed, overwriting existing entries"},
		},
		MinArgs: 2,
		MaxArgs: 2,
		Action:  ImportCommandAction,
		Meta:    meta,
	}).Build()
}
