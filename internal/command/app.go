// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/regctl/internal/config"
	"github.com/staranto/regctl/internal/meta"
	"github.com/staranto/regctl/internal/registry"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	// The arg[1] immediately following the binary (arg[0]) is the regctl
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// A missing config file is normal, everything has a default.
	cfg, err := config.Load(ns)
	if err != nil {
		log.Debugf("config: %v", err)
	}

	meta := meta.Meta{
		Args:    args,
		Config:  cfg,
		Context: ctx,
		Cache:   registry.NewCache(),
	}

	app := &cli.Command{
		Name:  "regctl",
		Usage: "Sectioned Key-Value Registry Control",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "regctl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		InitCommandBuilder(app, meta),
		LsCommandBuilder(app, meta),
		GetCommandBuilder(app, meta),
		MgetCommandBuilder(app, meta),
		HasCommandBuilder(app, meta),
		SetCommandBuilder(app, meta),
		ReplaceCommandBuilder(app, meta),
		RmCommandBuilder(app, meta),
		DestroyCommandBuilder(app, meta),
		ImportCommandBuilder(app, meta),
		DiffCommandBuilder(app, meta),
		CompletionCommandBuilder(app, meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
