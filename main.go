// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/regctl/internal/command"
	"github.com/staranto/regctl/internal/config"
	mylog "github.com/staranto/regctl/internal/log"
	"github.com/staranto/regctl/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain(os.Args))
}

func realMain(args []string) int {
	mylog.InitLogger()

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// mangleArguments expands an argument set. "@name" anywhere after the command
// is replaced by the flags listed under <command>.<name> in the config file.
// Without one, <command>.defaults is expanded right after the command. Set
// flags are inserted ahead of the explicit arguments so that the latter win.
func mangleArguments(args []string) []string {
	// Short-circuit for --help/-h. If help is requested, just keep the
	// executable and command and add --help flag.
	if slices.Contains(args, "--help") || slices.Contains(args, "-h") {
		return append(slices.Clone(args[:2]), "--help")
	}

	// Flags before the command, or a command of "completion", have no sets.
	if strings.HasPrefix(args[1], "-") || args[1] == "completion" {
		return args
	}

	set := "defaults"
	rest := make([]string, 0, len(args)-2)
	for _, a := range args[2:] {
		if strings.HasPrefix(a, "@") && len(a) > 1 && set == "defaults" {
			set = a[1:]
			continue
		}
		rest = append(rest, a)
	}

	setArgs, _ := config.GetStringSlice(args[1] + "." + set)

	out := slices.Clone(args[:2])
	for _, arg := range setArgs {
		out = append(out, strings.Fields(arg)...)
	}
	out = append(out, rest...)

	log.Debugf("set=%s, args=%v", set, out)
	return out
}
