package completion

import (
	"fmt"
	"strings"
)

// Descriptions are emitted inside _arguments optspecs, where brackets
// delimit the description itself.
var zshEscaper = strings.NewReplacer(
	`[`, `\[`,
	`]`, `\]`,
	`"`, `\"`,
)

func escapeZsh(desc string) string {
	return zshEscaper.Replace(desc)
}

type ZshGenerator struct{}

func (g *ZshGenerator) Generate(programName string, data Data) string {
	var script strings.Builder

	script.WriteString(fmt.Sprintf(`#compdef %[1]s

__%[1]s_completion() {
    local curcontext="$curcontext" state line
    typeset -A opt_args

    _arguments -C \`, programName))

	for _, flag := range data.Flags {
		desc := escapeZsh(flag.Description)
		script.WriteString(fmt.Sprintf(`
        '*%s[%s]' \`, flag.invocation(), desc))
	}

	script.WriteString(`
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _values 'commands' \`)

	for _, cmd := range data.Commands {
		if strings.Contains(cmd, " ") {
			continue
		}
		desc := escapeZsh(data.CommandDescriptions[cmd])
		script.WriteString(fmt.Sprintf(`
                '%s[%s]' \`, cmd, desc))
	}

	script.WriteString(`
            ;;
        args)
            case $words[1] in`)

	for _, cmd := range data.Commands {
		flags := data.CommandFlags[cmd]
		if len(flags) == 0 {
			continue
		}
		script.WriteString(fmt.Sprintf(`
                %s)
                    _arguments \`, cmd))
		for _, flag := range flags {
			desc := escapeZsh(flag.Description)
			script.WriteString(fmt.Sprintf(`
                        '*%s[%s]' \`, flag.invocation(), desc))
		}
		script.WriteString(`
                    ;;`)
	}

	script.WriteString(fmt.Sprintf(`
            esac
            ;;
    esac
}

__%[1]s_completion "$@"`, programName))

	return script.String()
}
