// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/regctl/internal/meta"
)

const bashCompletionScript = `# bash completion for regctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_regctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "init ls get mget has set replace rm destroy import diff completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local backend="--backend -b --dsn --store --dir --bucket --region --profile --endpoint --retries --prefix --decorator -d --enforce-limit"
    local common="$backend --attrs -a --color -c --filter -f --output -o --sort -s --titles -t --examples"

    case "$cmd" in
        ls)
            local opts="$common --limit -l"
            ;;
        get)
            local opts="$common --default --string -S"
            ;;
        set)
            local opts="$common --auto-id -u --string -S"
            ;;
        replace)
            local opts="$common --string -S"
            ;;
        destroy)
            local opts="$common --yes -y"
            ;;
        import)
            local opts="$common --replace -r"
            if [[ "$cur" != -* && ${COMP_CWORD} -eq 3 ]]; then
                COMPREPLY=( $(compgen -f -- "$cur") )
                return 0
            fi
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --backend|-b)
            COMPREPLY=( $(compgen -W "table variable" -- "$cur") )
            return 0
            ;;
        --store)
            COMPREPLY=( $(compgen -W "memory local s3" -- "$cur") )
            return 0
            ;;
        --decorator|-d)
            COMPREPLY=( $(compgen -W "json yaml" -- "$cur") )
            return 0
            ;;
        --dir|--dsn)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    fi
    return 0
}

complete -F _regctl regctl
`

const zshCompletionScript = `#compdef regctl

_regctl() {
  local -a cmds
  cmds=(
    'init:create and load a section'
    'ls:list the entries of a section'
    'get:print the value of an identifier'
    'mget:print the values of several identifiers'
    'has:test whether an identifier is registered'
    'set:register a new identifier'
    'replace:overwrite the value of a registered identifier'
    'rm:unregister identifiers'
    'destroy:drop a section and everything in it'
    'import:register the entries of an HCL, YAML or JSON file'
    'diff:show how one section differs from another'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-b --backend)'{-b,--backend}'[backend kind]:backend:(table variable)'
  '--dsn[DuckDB database]:dsn:_files'
  '--store[variable store]:store:(memory local s3)'
  '--dir[local store directory]:dir:_directories'
  '--bucket[s3 bucket]:bucket'
  '--region[AWS region]:region'
  '--profile[AWS profile]:profile'
  '--endpoint[S3 endpoint]:endpoint'
  '--retries[let the AWS SDK retry s3 requests]'
  '--prefix[name prefix]:prefix'
  '(-d --decorator)'{-d,--decorator}'[value encoding]:decorator:(json yaml)'
  '--enforce-limit[make --limit truncate]'
  '(-a --attrs)'{-a,--attrs}'[columns to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort columns]:columns'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--examples[show example usages]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'regctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    ls)
      _arguments -C $common '(-l --limit)'{-l,--limit}'[limit entries]:limit' '1:section'
      ;;
    get)
      _arguments -C $common '--default[fallback value]:value' '(-S --string)'{-S,--string}'[plain string]' '1:section' '2:id'
      ;;
    set)
      _arguments -C $common '(-u --auto-id)'{-u,--auto-id}'[generate the id]' '(-S --string)'{-S,--string}'[plain string]' '1:section' '*:id and value'
      ;;
    replace)
      _arguments -C $common '(-S --string)'{-S,--string}'[plain string]' '1:section' '2:id' '3:value'
      ;;
    destroy)
      _arguments -C $common '(-y --yes)'{-y,--yes}'[confirm]' '1:section'
      ;;
    import)
      _arguments -C $common '(-r --replace)'{-r,--replace}'[replace existing entries]' '1:section' '2:file:_files'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '1:section' '*:id'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _regctl regctl
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := Writer(cmd)
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(w, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(w, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: regctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "regctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
