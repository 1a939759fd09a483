package completion

import (
	"fmt"
	"strings"
)

// Descriptions are emitted inside single-quoted -d arguments.
func escapeFish(desc string) string {
	return strings.ReplaceAll(desc, "'", "\\'")
}

type FishGenerator struct{}

func (g *FishGenerator) Generate(programName string, data Data) string {
	var script strings.Builder

	for _, flag := range data.Flags {
		script.WriteString(g.completeFlag(programName, "", flag))
	}

	// Commands (always disable file completion for commands)
	for _, cmd := range data.Commands {
		if !strings.Contains(cmd, " ") {
			desc := data.CommandDescriptions[cmd]
			script.WriteString(fmt.Sprintf(
				"complete -c %s -f -n '__fish_use_subcommand' -a '%s' -d '%s'\n",
				programName, cmd, escapeFish(desc)))
		}
	}

	// Subcommands
	for _, cmd := range data.Commands {
		if strings.Contains(cmd, " ") {
			parts := strings.SplitN(cmd, " ", 2)
			mainCmd, subCmd := parts[0], parts[1]
			desc := data.CommandDescriptions[cmd]
			script.WriteString(fmt.Sprintf(
				"complete -c %s -f -n '__fish_seen_subcommand_from %s' -a '%s' -d '%s'\n",
				programName, mainCmd, subCmd, escapeFish(desc)))
		}
	}

	// Command-specific flags
	for _, cmd := range data.Commands {
		for _, flag := range data.CommandFlags[cmd] {
			script.WriteString(g.completeFlag(programName, cmd, flag))
		}
	}

	return script.String()
}

func (g *FishGenerator) completeFlag(programName, cmd string, flag Flag) string {
	line := fmt.Sprintf("complete -c %s", programName)
	if !flag.TakesValue {
		line += " -f"
	}
	if cmd != "" {
		line += fmt.Sprintf(" -n '__fish_seen_subcommand_from %s'", cmd)
	}

	switch {
	case flag.Short != "" && flag.Long != "":
		line += fmt.Sprintf(" -l %s -s %s", flag.Long, flag.Short)
	case flag.Long != "":
		line += fmt.Sprintf(" -l %s", flag.Long)
	default:
		line += fmt.Sprintf(" -s %s", flag.Short)
	}

	return fmt.Sprintf("%s -d '%s'\n", line, escapeFish(flag.Description))
}
