// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/regctl/internal/attrs"
	"github.com/staranto/regctl/internal/aws"
	"github.com/staranto/regctl/internal/backend"
	"github.com/staranto/regctl/internal/backend/local"
	"github.com/staranto/regctl/internal/backend/s3"
	"github.com/staranto/regctl/internal/backend/table"
	"github.com/staranto/regctl/internal/backend/variable"
	"github.com/staranto/regctl/internal/decorator"
	"github.com/staranto/regctl/internal/meta"
	"github.com/staranto/regctl/internal/output"
	"github.com/staranto/regctl/internal/registry"
)

// memoryStore lives for the whole process so that every command run in it
// sees the same variables.
var memoryStore = variable.NewMemoryStore()

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// Writer returns where command output goes.
func Writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// OpenBackend builds the backend selected by --backend and --store. The
// returned closer releases whatever the backend holds open.
func OpenBackend(ctx context.Context, cmd *cli.Command) (backend.Backend, func() error, error) {
	nop := func() error { return nil }

	switch kind := cmd.String("backend"); kind {
	case "table":
		be, err := table.Open(ctx, cmd.String("dsn"), table.WithTablePrefix(cmd.String("prefix")))
		if err != nil {
			return nil, nop, err
		}
		log.Debugf("be: %v", be)
		return be, be.Close, nil
	case "variable", "":
		store, err := OpenStore(ctx, cmd)
		if err != nil {
			return nil, nop, err
		}
		be, err := variable.NewBackendVariable(store, variable.WithPrefix(cmd.String("prefix")))
		if err != nil {
			return nil, nop, err
		}
		log.Debugf("be: %v", be)
		return be, nop, nil
	default:
		return nil, nop, fmt.Errorf("unknown backend: %s", kind)
	}
}

// OpenStore builds the variable store selected by --store.
func OpenStore(ctx context.Context, cmd *cli.Command) (variable.Store, error) {
	switch kind := cmd.String("store"); kind {
	case "memory":
		return memoryStore, nil
	case "local", "":
		return local.NewStore(local.WithDir(cmd.String("dir")))
	case "s3":
		var opts []aws.Option
		if p := cmd.String("profile"); p != "" {
			opts = append(opts, aws.WithProfile(p))
		}
		if r := cmd.String("region"); r != "" {
			opts = append(opts, aws.WithRegion(r))
		}
		if e := cmd.String("endpoint"); e != "" {
			opts = append(opts, aws.WithEndpoint(e))
		}
		if cmd.Bool("retries") {
			opts = append(opts, aws.WithSDKRetries())
		}
		client, err := aws.NewS3Client(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 client: %w", err)
		}
		return s3.NewStore(client, cmd.String("bucket"))
	default:
		return nil, fmt.Errorf("unknown store: %s", kind)
	}
}

// Session is one opened backend plus the registry for the command's section.
type Session struct {
	Registry  *registry.Registry
	Backend   backend.Backend
	Decorator decorator.Decorator

	cmd   *cli.Command
	close func() error
}

// OpenSession opens the backend and a registry over section. provision
// creates the section's storage first when the backend needs that.
func OpenSession(ctx context.Context, cmd *cli.Command, section string, provision bool) (*Session, error) {
	dec, err := decorator.New(cmd.String("decorator"))
	if err != nil {
		return nil, err
	}

	be, closer, err := OpenBackend(ctx, cmd)
	if err != nil {
		return nil, err
	}

	s := &Session{Backend: be, Decorator: dec, cmd: cmd, close: closer}

	if s.Registry, err = s.Section(ctx, section, provision); err != nil {
		_ = closer()
		return nil, err
	}
	return s, nil
}

// Section returns a registry over another section of the same backend. All
// registries of an invocation share the cache in meta.
func (s *Session) Section(ctx context.Context, section string, provision bool) (*registry.Registry, error) {
	opts := []registry.Option{registry.WithCache(GetMeta(s.cmd).Cache)}
	if s.cmd.Bool("enforce-limit") {
		opts = append(opts, registry.WithLimitEnforced())
	}

	r, err := registry.New(section, s.Backend, s.Decorator, opts...)
	if err != nil {
		return nil, err
	}

	if p, ok := s.Backend.(backend.Provisioner); ok && provision {
		if err := p.Provision(ctx, r.Section()); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Close releases the backend.
func (s *Session) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// ParseValue decodes raw with the decorator. Text that does not decode, or
// any text when asString is set, is stored as a plain string.
func ParseValue(dec decorator.Decorator, raw string, asString bool) any {
	if asString {
		return raw
	}
	v, err := dec.Denormalize([]byte(raw))
	if err != nil {
		log.Debugf("storing %q as a string: %v", raw, err)
		return raw
	}
	return v
}

// BuildAttrs constructs an AttrList with the default columns and optional
// extras from --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command) (al attrs.AttrList, err error) {
	al = attrs.Defaults()
	if extras := cmd.String("attrs"); extras != "" {
		if err := al.Set(extras); err != nil {
			return nil, err
		}
	}
	err = al.SetGlobalTransformSpec()
	return
}

// RenderOptions collects the output flags.
func RenderOptions(cmd *cli.Command) (output.Options, error) {
	al, err := BuildAttrs(cmd)
	if err != nil {
		return output.Options{}, err
	}
	log.Debugf("attrs: %v", al.String())

	return output.Options{
		Format: cmd.String("output"),
		Filter: cmd.String("filter"),
		Sort:   cmd.String("sort"),
		Titles: cmd.Bool("titles"),
		Color:  cmd.Bool("color"),
		Attrs:  al,
	}, nil
}

// Spit renders content through the output flags.
func Spit(cmd *cli.Command, s *Session, content map[string]any) error {
	opts, err := RenderOptions(cmd)
	if err != nil {
		return err
	}
	return output.SliceDiceSpit(Writer(cmd), output.Rows(content, s.Decorator), opts)
}

// RegistryCommandBuilder constructs a cli.Command for the registry
// subcommands using a consistent pattern. The first positional argument is
// always the section. MinArgs and MaxArgs count it; MaxArgs < 0 means no
// upper bound.
type RegistryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Examples  []output.Example
	MinArgs   int
	MaxArgs   int
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (rcb *RegistryCommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      rcb.Name,
		Usage:     rcb.Usage,
		UsageText: rcb.UsageText,
		Metadata: map[string]any{
			"meta":     rcb.Meta,
			"examples": rcb.Examples,
		},
		Flags: append(rcb.Flags, append([]cli.Flag{
			examplesFlag,
		}, NewGlobalFlags(rcb.Name, rcb.Meta.Config.Source)...)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			m := GetMeta(c)
			log.Debugf("Executing action for %v", m.Args)

			if c.Bool("examples") {
				output.DumpExamples(Writer(c), rcb.Examples)
				return nil
			}

			if n := c.NArg(); n < rcb.MinArgs || (rcb.MaxArgs >= 0 && n > rcb.MaxArgs) {
				return fmt.Errorf("usage: %s", rcb.UsageText)
			}

			return rcb.Action(ctx, c)
		},
	}
}

// WithSession opens a session over the section argument, runs fn and closes
// the session.
func WithSession(ctx context.Context, cmd *cli.Command, provision bool, fn func(*Session) error) error {
	s, err := OpenSession(ctx, cmd, cmd.Args().First(), provision)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to close backend")
		}
	}()
	return fn(s)
}
