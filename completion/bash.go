package completion

import (
	"fmt"
	"strings"
)

// Descriptions land inside compgen word lists, so quote and expansion
// characters must be escaped.
var bashEscaper = strings.NewReplacer(
	`"`, `\"`,
	`'`, `\'`,
	`$`, `\$`,
	`[`, `\[`,
	`]`, `\]`,
)

func escapeBash(desc string) string {
	return bashEscaper.Replace(desc)
}

type BashGenerator struct{}

func (g *BashGenerator) Generate(programName string, data Data) string {
	var script strings.Builder

	script.WriteString(fmt.Sprintf(`#!/bin/bash

function __%[1]s_completion() {
    local cur prev words cword cmd subcmd
    _init_completion || return

    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    cmd=""

    # Find the main command
    for ((i=1; i < COMP_CWORD; i++)); do
        if [[ "${COMP_WORDS[i]}" != -* ]]; then
            cmd="${COMP_WORDS[i]}"
            break
        fi
    done
`, programName))

	// Nested commands complete against their parent's subcommand list
	mainCmds := make(map[string][]string)
	for _, cmd := range data.Commands {
		if strings.Contains(cmd, " ") {
			parts := strings.SplitN(cmd, " ", 2)
			mainCmds[parts[0]] = append(mainCmds[parts[0]], parts[1])
		}
	}
	if len(mainCmds) > 0 {
		script.WriteString(`
    # Handle nested commands
    case "${cmd}" in`)
		for _, mainCmd := range data.Commands {
			if subCmds, ok := mainCmds[mainCmd]; ok {
				quoted := make([]string, len(subCmds))
				for i, sub := range subCmds {
					quoted[i] = fmt.Sprintf("%q", sub)
				}
				script.WriteString(fmt.Sprintf(`
        %s)
            COMPREPLY+=( $(compgen -W %s -- "$cur") )
            ;;`, mainCmd, strings.Join(quoted, " ")))
			}
		}
		script.WriteString(`
    esac
`)
	}

	script.WriteString(`
    # If we're completing a flag
    if [[ "$cur" == -* ]]; then
        local flags=()

        # Global flags`)

	for _, flag := range data.Flags {
		script.WriteString(fmt.Sprintf(`
        flags+=(%s[%s])`, flag.invocation(), escapeBash(flag.Description)))
	}

	script.WriteString(`

        # Command-specific flags
        case "${cmd}" in`)

	for _, cmd := range data.Commands {
		if flags, ok := data.CommandFlags[cmd]; ok && len(flags) > 0 {
			flagStrs := make([]string, len(flags))
			for i, flag := range flags {
				flagStrs[i] = fmt.Sprintf("%s[%s]", flag.invocation(), escapeBash(flag.Description))
			}
			script.WriteString(fmt.Sprintf(`
            %s)
                local cmd_flags=(%s)
                flags+=("${cmd_flags[@]}")
                ;;`, cmd, strings.Join(flagStrs, " ")))
		}
	}

	script.WriteString(`
        esac

        COMPREPLY=( $(compgen -W "${flags[*]%%%%[*}" -- "$cur") )
        return
    fi

    # Complete commands if no command is present yet
    if [[ -z "$cmd" ]]; then
        local commands=(`)

	cmdStrs := make([]string, 0, len(data.Commands))
	for _, cmd := range data.Commands {
		if strings.Contains(cmd, " ") {
			continue
		}
		desc := data.CommandDescriptions[cmd]
		cmdStrs = append(cmdStrs, fmt.Sprintf("%s[%s]", cmd, escapeBash(desc)))
	}
	script.WriteString(strings.Join(cmdStrs, " "))

	script.WriteString(fmt.Sprintf(`)
        COMPREPLY=( $(compgen -W "${commands[*]%%%%[*}" -- "$cur") )
    fi
}

complete -F __%[1]s_completion %[1]s`, programName))

	return script.String()
}
