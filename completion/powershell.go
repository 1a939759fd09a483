package completion

import (
	"fmt"
	"strings"
)

// Descriptions are emitted inside double-quoted CompletionResult
// arguments, where backtick is PowerShell's escape character.
var powerShellEscaper = strings.NewReplacer(
	"`", "``",
	`"`, "`\"",
	`$`, "`$",
)

func escapePowerShell(desc string) string {
	return powerShellEscaper.Replace(desc)
}

type PowerShellGenerator struct{}

func (g *PowerShellGenerator) Generate(programName string, data Data) string {
	var script strings.Builder

	script.WriteString(fmt.Sprintf(`
Register-ArgumentCompleter -Native -CommandName %[1]s -ScriptBlock {
    param($commandName, $wordToComplete, $cursorPosition)
    $commandElements = $wordToComplete -split "\s+"

    # Handle empty word completion
    if ($wordToComplete -eq '') {
        @(`, programName))

	for _, cmd := range data.Commands {
		desc := data.CommandDescriptions[cmd]
		script.WriteString(fmt.Sprintf(`
            [CompletionResult]::new('%[1]s', '%[1]s', [CompletionResultType]::Command, '%[2]s')`,
			cmd, escapePowerShell(desc)))
	}

	script.WriteString(`
        )
        return
    }

    # Get current command
    $cmd = ""
    for ($i = 1; $i -lt $commandElements.Count; $i++) {
        if (!$commandElements[$i].StartsWith('-')) {
            $cmd = $commandElements[$i]
            break
        }
    }

    # Handle flags
    if ($wordToComplete.StartsWith('-')) {
        @(`)

	for _, flag := range data.Flags {
		script.WriteString(fmt.Sprintf(`
            [CompletionResult]::new('%s', '%s', [CompletionResultType]::ParameterName, '%s')`,
			flag.invocation(), flag.Long, escapePowerShell(flag.Description)))
	}

	if len(data.CommandFlags) > 0 {
		script.WriteString(`

        # Add command-specific flags
        switch ($cmd) {`)

		for _, cmd := range data.Commands {
			if flags, ok := data.CommandFlags[cmd]; ok && len(flags) > 0 {
				script.WriteString(fmt.Sprintf(`
            '%s' {`, cmd))
				for _, flag := range flags {
					script.WriteString(fmt.Sprintf(`
                [CompletionResult]::new('%s', '%s', [CompletionResultType]::ParameterName, '%s')`,
						flag.invocation(), flag.Long, escapePowerShell(flag.Description)))
				}
				script.WriteString(`
            }`)
			}
		}

		script.WriteString(`
        }`)
	}

	script.WriteString(`
        )
        return
    }
}`)

	return script.String()
}
