package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every shell script is generated from flagRegistry.
type FlagCompletion struct {
	Long      string   // long flag name without the dash (e.g., "threads")
	Short     string   // short flag without the dash (e.g., "t")
	Help      string   // description text
	Values    []string // suggested values (nil = boolean or free-form)
	ValueName string   // label for the value in zsh (e.g., "seconds")
}

// flagRegistry lists every loadtimer flag in help order.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "sample-secs", Short: "s", Help: "Sample interval in seconds", Values: []string{"1", "2", "5", "10", "30"}, ValueName: "seconds"},
	{Long: "num-samples", Short: "n", Help: "Number of samples kept per process", Values: []string{"2", "5", "10", "30"}, ValueName: "count"},
	{Long: "break", Short: "b", Help: "Idle pause between samples", Values: []string{"1s", "5s", "30s", "1m"}, ValueName: "duration"},
	{Long: "threads", Short: "t", Help: "Also measure every thread"},
	{Long: "interactive", Short: "i", Help: "Refresh the table in place"},
	{Long: "tui", Help: "Launch the interactive dashboard"},
	{Long: "parallel", Help: "Sample processes concurrently"},
	{Long: "metrics-addr", Help: "Prometheus listen address", Values: []string{":9100", "localhost:9100"}, ValueName: "address"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "quiet", Short: "q", Help: "Print only the result table"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion writes a completion script for shell to out.
// Positional arguments complete to the pids of running processes.
func GenerateCompletion(out io.Writer, shell string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out)
	case "zsh":
		return generateZshCompletion(out)
	case "fish":
		return generateFishCompletion(out)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
}

// flagNames returns the dashed spellings of f, short form first.
func flagNames(f FlagCompletion) []string {
	var names []string
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	if f.Long != "" {
		names = append(names, "--"+f.Long)
	}
	return names
}

func generateBashCompletion(out io.Writer) error {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		names := flagNames(f)
		opts = append(opts, names...)
		if f.ValueName == "" {
			continue
		}
		fmt.Fprintf(&cases, "        %s)\n", strings.Join(names, "|"))
		fmt.Fprintf(&cases, "            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(f.Values, " "))
		cases.WriteString("            return 0\n            ;;\n")
	}

	script := fmt.Sprintf(`# Bash completion script for loadtimer
# Add this to your ~/.bashrc or ~/.bash_completion

_loadtimer_completions() {
    local cur prev opts pids
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi

    pids=$(ls /proc | grep -E '^[0-9]+$')
    COMPREPLY=( $(compgen -W "${pids}" -- "${cur}") )
}

complete -F _loadtimer_completions loadtimer
`, strings.Join(opts, " "), cases.String())

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

func generateZshCompletion(out io.Writer) error {
	var args []string
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	args = append(args, "        '*:pid:_pids'")

	script := fmt.Sprintf(`#compdef loadtimer

# Zsh completion script for loadtimer
# Add this to your ~/.zshrc or place in $fpath

_loadtimer() {
    _arguments -s \
%s
}

_loadtimer "$@"
`, strings.Join(args, " \\\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	if len(f.Values) > 0 {
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	}

	if f.Long != "" && f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func generateFishCompletion(out io.Writer) error {
	lines := []string{
		"# Fish completion script for loadtimer",
		"# Add this to ~/.config/fish/completions/loadtimer.fish",
		"",
		"# Positional arguments are pids",
		"complete -c loadtimer -f -a '(__fish_complete_pids)'",
		"",
	}
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f))
	}
	lines = append(lines, "")

	if _, err := fmt.Fprint(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion) string {
	parts := []string{"complete -c loadtimer"}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	if f.Long != "" {
		parts = append(parts, "-l "+f.Long)
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))
	if len(f.Values) > 0 {
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	}
	return strings.Join(parts, " ")
}
