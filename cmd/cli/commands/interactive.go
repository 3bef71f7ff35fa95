package commands

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// excludedFromSession are the root commands the interactive prompt does not offer
var excludedFromSession = map[string]bool{
	"interactive": true,
	"completion":  true,
	"help":        true,
	"serve":       true,
}

// InteractiveCmd creates the interactive command
func InteractiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (connect once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands against one
store connection. The session keeps running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			commands := make(map[string]*cobra.Command)
			for _, sub := range cmd.Root().Commands() {
				if !excludedFromSession[sub.Name()] {
					commands[sub.Name()] = sub
				}
			}
			return runSession(commands, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runSession(commands map[string]*cobra.Command, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "\n🚀 Starting interactive session...")
	fmt.Fprintln(out, "Type 'help' for available commands, 'exit' or 'quit' to leave")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts, err := parseCommandLine(line)
		if err != nil {
			fmt.Fprintf(out, "❌ Error parsing command: %v\n\n", err)
			continue
		}
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "exit", "quit":
			fmt.Fprintln(out, "👋 Goodbye!")
			return nil
		case "help":
			printInteractiveHelp(out, commands)
			continue
		}

		target, ok := commands[parts[0]]
		if !ok {
			fmt.Fprintf(out, "❌ Unknown command: %s (type 'help' for available commands)\n\n", parts[0])
			continue
		}

		if err := runInSession(target, parts[1:], out); err != nil {
			fmt.Fprintf(out, "❌ Error: %v\n\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

// runInSession calls the command's RunE directly so the root's
// PersistentPreRunE does not open a second store connection
func runInSession(target *cobra.Command, args []string, out io.Writer) error {
	target.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		if sv, ok := flag.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
			return
		}
		flag.Value.Set(flag.DefValue)
	})

	if err := target.ParseFlags(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	args = target.Flags().Args()

	if target.Args != nil {
		if err := target.Args(target, args); err != nil {
			return err
		}
	}

	target.SetOut(out)
	switch {
	case target.RunE != nil:
		return target.RunE(target, args)
	case target.Run != nil:
		target.Run(target, args)
	}
	return nil
}

func printInteractiveHelp(out io.Writer, commands map[string]*cobra.Command) {
	fmt.Fprintln(out, "\nAvailable commands:")
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		cmd := commands[name]
		fmt.Fprintf(out, "  %-44s %s\n", cmd.Use, cmd.Short)
	}
	fmt.Fprintf(out, "\n  %-44s %s\n", "help", "Show this help message")
	fmt.Fprintf(out, "  %-44s %s\n\n", "exit, quit", "Leave the interactive session")
}

// parseCommandLine splits a line into arguments. Single or double quotes group
// words into one argument.
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var quote rune
	inArg := false

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case unicode.IsSpace(r):
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", quote)
	}
	if inArg {
		args = append(args, current.String())
	}
	return args, nil
}
