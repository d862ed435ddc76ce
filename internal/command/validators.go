// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/regctl/internal/decorator"
	"github.com/staranto/regctl/internal/output"
)

var (
	validBackendFlagValues = []string{"table", "variable"}
	validStoreFlagValues   = []string{"memory", "local", "s3"}
)

// GlobalFlagsValidator checks flag combinations that no single validator can.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.String("backend") == "variable" && c.String("store") == "s3" && c.String("bucket") == "" {
		return errors.New("--bucket is required with --store s3")
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func MustBeTrueValidator(value any) error {
	if !value.(bool) {
		return errors.New("must be true")
	}
	return nil
}

func OutputValidator(value any) error {
	return oneOf(value, output.Formats)
}

func BackendValidator(value any) error {
	return oneOf(value, validBackendFlagValues)
}

func StoreValidator(value any) error {
	return oneOf(value, validStoreFlagValues)
}

func DecoratorValidator(value any) error {
	if _, err := decorator.New(value.(string)); err != nil {
		return fmt.Errorf("must be one of %v", decorator.Names())
	}
	return nil
}

func oneOf(value any, valid []string) error {
	s, _ := value.(string)
	if !slices.Contains(valid, s) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}
