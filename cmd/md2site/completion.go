package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagPlain flagType = iota // no value or free text
	flagFile                  // file path
	flagDir                   // directory
	flagEnum                  // predefined values
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long   string
	Short  string
	Type   flagType
	Desc   string
	Values []string
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	Args  []string // fixed positional values, e.g. command names for help
}

// completionMeta holds completion hints for flags that take a path or a
// fixed value. Names, shorthands and descriptions come from the FlagSet.
var completionMeta = map[string]struct {
	typ    flagType
	values []string
}{
	"config":          {typ: flagFile},
	"env-file":        {typ: flagFile},
	"write-config":    {typ: flagFile},
	"base":            {typ: flagDir},
	"staging":         {typ: flagDir},
	"highlight-style": {typ: flagEnum, values: []string{"github", "monokai", "dracula", "solarized-dark", "solarized-light"}},
	"date":            {typ: flagEnum, values: []string{"today", "today:iso", "today:compact", "today:month", "today:long"}},
}

// flagsOf extracts flag definitions from fs, sorted by long name.
func flagsOf(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}
		if meta, ok := completionMeta[f.Name]; ok {
			fd.Type = meta.typ
			fd.Values = meta.values
		}
		flags = append(flags, fd)
	})
	sort.Slice(flags, func(i, j int) bool { return flags[i].Long < flags[j].Long })
	return flags
}

// commandFlags registers a command's flags on a scratch FlagSet.
func commandFlags(name string, register func(*flag.FlagSet)) []flagDef {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	register(fs)
	return flagsOf(fs)
}

// getCommands returns the command registry for completion.
// Flags come from the same registration the commands parse with.
func getCommands() []commandDef {
	commands := []commandDef{
		{
			Name:  "build",
			Desc:  "Build the site into the staging folder",
			Flags: commandFlags("build", func(fs *flag.FlagSet) { registerBuildFlags(fs, &buildFlags{}) }),
		},
		{
			Name:  "init",
			Desc:  "Create a starter project",
			Flags: commandFlags("init", func(fs *flag.FlagSet) { registerInitFlags(fs, &initFlags{}) }),
		},
		{
			Name:  "new",
			Desc:  "Create an article with a complete header",
			Flags: commandFlags("new", func(fs *flag.FlagSet) { registerNewFlags(fs, &newFlags{}) }),
		},
		{
			Name:  "check",
			Desc:  "Verify the project and the CSS tool",
			Flags: commandFlags("check", func(fs *flag.FlagSet) { registerCheckFlags(fs, &checkFlags{}) }),
		},
		{
			Name:  "clean",
			Desc:  "Remove the project",
			Flags: commandFlags("clean", func(fs *flag.FlagSet) { registerCleanFlags(fs, &cleanFlags{}) }),
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish)},
		},
	}

	help := commandDef{Name: "help", Desc: "Show help for a command"}
	for _, c := range commands {
		help.Args = append(help.Args, c.Name)
	}
	return append(commands, help)
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	commands := getCommands()
	switch shell {
	case ShellBash:
		return generateBash(w, commands)
	case ShellZsh:
		if _, err := fmt.Fprintln(w, "autoload -U +X bashcompinit && bashcompinit"); err != nil {
			return err
		}
		return generateBash(w, commands)
	case ShellFish:
		return generateFish(w, commands)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

func generateBash(w io.Writer, commands []commandDef) error {
	var b strings.Builder
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.Name)
	}

	b.WriteString("# bash completion for md2site\n")
	b.WriteString("_md2site() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    if [ \"$COMP_CWORD\" -eq 1 ]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(names, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n")

	// Value completion for the previous flag.
	files, dirs, enums := flagPatterns(commands)
	b.WriteString("    case \"$prev\" in\n")
	if len(files) > 0 {
		fmt.Fprintf(&b, "        %s) COMPREPLY=( $(compgen -f -- \"$cur\") ); return ;;\n", strings.Join(files, "|"))
	}
	if len(dirs) > 0 {
		fmt.Fprintf(&b, "        %s) COMPREPLY=( $(compgen -d -- \"$cur\") ); return ;;\n", strings.Join(dirs, "|"))
	}
	for _, e := range enums {
		fmt.Fprintf(&b, "        %s) COMPREPLY=( $(compgen -W %q -- \"$cur\") ); return ;;\n", e.pattern, strings.Join(e.values, " "))
	}
	b.WriteString("    esac\n")

	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range commands {
		words := append([]string{}, c.Args...)
		for _, f := range c.Flags {
			words = append(words, "--"+f.Long)
			if f.Short != "" {
				words = append(words, "-"+f.Short)
			}
		}
		if len(words) == 0 {
			continue
		}
		fmt.Fprintf(&b, "        %s) COMPREPLY=( $(compgen -W %q -- \"$cur\") ) ;;\n", c.Name, strings.Join(words, " "))
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -F _md2site md2site\n")

	_, err := io.WriteString(w, b.String())
	return err
}

type enumPattern struct {
	pattern string
	values  []string
}

// flagPatterns groups flags taking values into bash case patterns.
func flagPatterns(commands []commandDef) (files, dirs []string, enums []enumPattern) {
	seen := make(map[string]bool)
	for _, c := range commands {
		for _, f := range c.Flags {
			if f.Type == flagPlain || seen[f.Long] {
				continue
			}
			seen[f.Long] = true
			pattern := "--" + f.Long
			if f.Short != "" {
				pattern += "|-" + f.Short
			}
			switch f.Type {
			case flagFile:
				files = append(files, pattern)
			case flagDir:
				dirs = append(dirs, pattern)
			case flagEnum:
				enums = append(enums, enumPattern{pattern: pattern, values: f.Values})
			}
		}
	}
	return files, dirs, enums
}

func generateFish(w io.Writer, commands []commandDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for md2site\n")
	b.WriteString("complete -c md2site -f\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "complete -c md2site -n __fish_use_subcommand -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}
	for _, c := range commands {
		cond := "__fish_seen_subcommand_from " + c.Name
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "complete -c md2site -n %s -a %s\n", fishQuote(cond), fishQuote(strings.Join(c.Args, " ")))
		}
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c md2site -n %s -l %s", fishQuote(cond), f.Long)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			switch f.Type {
			case flagFile:
				b.WriteString(" -r -F")
			case flagDir:
				b.WriteString(" -r -a '(__fish_complete_directories)'")
			case flagEnum:
				fmt.Fprintf(&b, " -r -a %s", fishQuote(strings.Join(f.Values, " ")))
			}
			fmt.Fprintf(&b, " -d %s\n", fishQuote(f.Desc))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// fishQuote single-quotes s for fish.
func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
		if errors.Is(err, ErrUnsupportedShell) {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return err
	}
	return nil
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script (through bashcompinit)")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash: add eval \"$(md2site completion bash)\" to ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:  add eval \"$(md2site completion zsh)\" to ~/.zshrc")
	fmt.Fprintln(w, "  Fish: md2site completion fish > ~/.config/fish/completions/md2site.fish")
}
