// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os"
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/regctl/internal/output"
)

var examplesFlag *cli.BoolFlag = &cli.BoolFlag{
	Name:        "examples",
	Usage:       "show example usages",
	HideDefault: true,
}

// EnvVar is the REGCTL_* environment variable read for a flag.
func EnvVar(name string) string {
	return "REGCTL_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// sources builds the value chain for a flag: environment first, then the
// command namespaced config key, then the global config key. extra env vars
// are consulted after the REGCTL_* one.
func sources(ns string, path string, name string, extra ...string) cli.ValueSourceChain {
	chain := cli.NewValueSourceChain(cli.EnvVar(EnvVar(name)))
	for _, e := range extra {
		chain.Chain = append(chain.Chain, cli.EnvVar(e))
	}
	chain.Chain = append(chain.Chain,
		yaml.YAML(ns+"."+name, altsrc.StringSourcer(path)),
		yaml.YAML(name, altsrc.StringSourcer(path)),
	)
	return chain
}

// NewGlobalFlags returns the backend and output flags shared by every
// registry command. ns is the command name and path the config file.
func NewGlobalFlags(ns string, path string) []cli.Flag {
	return append(NewBackendFlags(ns, path), NewOutputFlags(ns, path)...)
}

// NewBackendFlags returns the flags that select and configure the backend.
func NewBackendFlags(ns string, path string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "backend",
			Aliases: []string{"b"},
			Usage:   "backend kind (table or variable)",
			Sources: sources(ns, path, "backend"),
			Value:   "variable",
			Validator: func(value string) error {
				return FlagValidators(value, BackendValidator)
			},
		},
		&cli.StringFlag{
			Name:    "dsn",
			Usage:   "DuckDB database for the table backend, in-memory when empty",
			Sources: sources(ns, path, "dsn"),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "store",
			Usage:   "variable store (memory, local or s3)",
			Sources: sources(ns, path, "store"),
			Value:   "local",
			Validator: func(value string) error {
				return FlagValidators(value, StoreValidator)
			},
		},
		&cli.StringFlag{
			Name:    "dir",
			Usage:   "directory of the local variable store",
			Sources: sources(ns, path, "dir", "REGCTL_VAR_DIR"),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "bucket",
			Usage:   "bucket of the s3 variable store",
			Sources: sources(ns, path, "bucket"),
		},
		&cli.StringFlag{
			Name:    "region",
			Usage:   "AWS region of the s3 variable store",
			Sources: sources(ns, path, "region", "AWS_REGION"),
		},
		&cli.StringFlag{
			Name:    "profile",
			Usage:   "AWS shared config profile",
			Sources: sources(ns, path, "profile", "AWS_PROFILE"),
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "custom S3 endpoint, such as MinIO",
			Sources: sources(ns, path, "endpoint"),
		},
		&cli.BoolFlag{
			Name:    "retries",
			Usage:   "let the AWS SDK retry failed s3 requests",
			Sources: sources(ns, path, "retries"),
		},
		&cli.StringFlag{
			Name:    "prefix",
			Usage:   "prefix added to table and variable names",
			Sources: sources(ns, path, "prefix"),
		},
		&cli.StringFlag{
			Name:    "decorator",
			Aliases: []string{"d"},
			Usage:   "value encoding (json or yaml)",
			Sources: sources(ns, path, "decorator"),
			Value:   "json",
			Validator: func(value string) error {
				return FlagValidators(value, DecoratorValidator)
			},
		},
		&cli.BoolFlag{
			Name:    "enforce-limit",
			Usage:   "make --limit truncate results",
			Sources: sources(ns, path, "enforce-limit"),
		},
	}
	return
}

// NewOutputFlags returns the flags that shape rendered results.
func NewOutputFlags(ns string, path string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of key[:title[:transform]] columns to include in results",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"attrs", altsrc.StringSourcer(path)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"color", altsrc.StringSourcer(path)),
				yaml.YAML("color", altsrc.StringSourcer(path)),
			),
			Value: output.IsTerminal(os.Stdout),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: sources(ns, path, "output"),
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"sort", altsrc.StringSourcer(path)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"titles", altsrc.StringSourcer(path)),
				yaml.YAML("titles", altsrc.StringSourcer(path)),
			),
			Value: false,
		},
	}
	return
}

// NewStringValueFlag returns the flag that stores a value verbatim instead of
// decoding it with the decorator.
func NewStringValueFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "string",
		Aliases:     []string{"S"},
		Usage:       "treat the value as a plain string",
		HideDefault: true,
	}
}
