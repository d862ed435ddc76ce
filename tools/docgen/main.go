// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/urfave/cli/v3"

	"github.com/staranto/regctl/internal/command"
	"github.com/staranto/regctl/internal/output"
)

// Minimal doc generator, driven by the live command tree:
//   - docs/commands/regctl-<cmd>.md, the canonical markdown page
//   - docs/man/share/man1/regctl-<cmd>.1 via md2man
//   - docs/tldr/regctl-<cmd>.md from the usage and the command examples

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	commandsDir := filepath.Join(repoRoot, "docs", "commands")
	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(repoRoot, "docs", "tldr")

	for _, dir := range []string{commandsDir, manOutDir, tldrOutDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fatalf("creating output dir %s: %v", dir, err)
		}
	}

	app, err := command.InitApp(context.Background(), []string{"regctl"})
	if err != nil {
		fatalf("building command tree: %v", err)
	}

	var processed int
	for _, cmd := range app.Commands {
		md := renderMarkdown(cmd)

		mdPath := filepath.Join(commandsDir, fmt.Sprintf("regctl-%s.md", cmd.Name))
		if err := writeFileIfChanged(mdPath, []byte(md), writeOnlyIfChanged); err != nil {
			fatalf("writing markdown for %s: %v", cmd.Name, err)
		}

		manPath := filepath.Join(manOutDir, fmt.Sprintf("regctl-%s.1", cmd.Name))
		if err := writeFileIfChanged(manPath, md2man.Render([]byte(md)), writeOnlyIfChanged); err != nil {
			fatalf("writing man page for %s: %v", cmd.Name, err)
		}

		tldrPath := filepath.Join(tldrOutDir, fmt.Sprintf("regctl-%s.md", cmd.Name))
		if err := writeFileIfChanged(tldrPath, []byte(buildTLDR(cmd)), writeOnlyIfChanged); err != nil {
			fatalf("writing TLDR for %s: %v", cmd.Name, err)
		}

		processed++
	}

	if processed == 0 {
		fatalf("no commands found")
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

// examples returns the examples a command carries in its metadata.
func examples(cmd *cli.Command) []output.Example {
	if cmd.Metadata == nil {
		return nil
	}
	exs, _ := cmd.Metadata["examples"].([]output.Example)
	return exs
}

// renderMarkdown writes a man-page shaped markdown document for cmd.
func renderMarkdown(cmd *cli.Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "regctl-%s 1 \"\" \"\" \"regctl manual\"\n", cmd.Name)
	b.WriteString("=====\n\n")

	b.WriteString("# NAME\n\n")
	fmt.Fprintf(&b, "regctl-%s - %s\n\n", cmd.Name, cmd.Usage)

	b.WriteString("# SYNOPSIS\n\n")
	usage := cmd.UsageText
	if usage == "" {
		usage = "regctl " + cmd.Name
	}
	fmt.Fprintf(&b, "`%s`\n\n", usage)

	if len(cmd.Flags) > 0 {
		b.WriteString("# OPTIONS\n\n")
		for _, f := range cmd.Flags {
			names := make([]string, 0, len(f.Names()))
			for _, n := range f.Names() {
				if len(n) == 1 {
					names = append(names, "-"+n)
				} else {
					names = append(names, "--"+n)
				}
			}
			fmt.Fprintf(&b, "**%s**\n", strings.Join(names, ", "))
			if u, ok := f.(interface{ GetUsage() string }); ok && u.GetUsage() != "" {
				fmt.Fprintf(&b, ": %s\n", u.GetUsage())
			}
			b.WriteString("\n")
		}
	}

	if exs := examples(cmd); len(exs) > 0 {
		b.WriteString("# EXAMPLES\n\n")
		for _, ex := range exs {
			fmt.Fprintf(&b, "%s:\n\n    %s\n\n", ex[1], sanitizeCommand(ex[0]))
		}
	}

	return b.String()
}

func buildTLDR(cmd *cli.Command) string {
	var b strings.Builder
	// Header
	b.WriteString("# regctl-" + cmd.Name + "\n\n")
	if cmd.Usage != "" {
		b.WriteString("> " + strings.ToUpper(cmd.Usage[:1]) + cmd.Usage[1:] + ".\n")
	} else {
		b.WriteString("> regctl " + cmd.Name + "\n")
	}
	b.WriteString("> More information: https://github.com/staranto/regctl.\n\n")

	exs := examples(cmd)
	if len(exs) == 0 {
		// Fallback examples
		b.WriteString("- Show help for the command:\n\n")
		b.WriteString("`regctl " + cmd.Name + " --help`\n")
		b.WriteString("\n")
		return b.String()
	}

	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + strings.ToUpper(ex[1][:1]) + ex[1][1:] + ":\n\n")
		b.WriteString("`" + sanitizeCommand(ex[0]) + "`\n")
	}
	return b.String()
}

func sanitizeCommand(s string) string {
	// For now, just compress runs of whitespace
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
