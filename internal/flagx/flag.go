// Package flagx lets several configuration loaders share one command line.
// Each loader parses only the flags it defines and ignores the rest.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// token is one command-line element: a flag with an optional value, or a
// positional argument.
type token struct {
	name       string   // "-c" or "--config"; empty for positional args
	raw        []string // the original elements, in order
	positional string
}

// tokenize splits args the way the loaders read them. "-f=v" is one flag;
// "-f v" consumes v unless v itself starts with '-'.
func tokenize(args []string) []token {
	out := make([]token, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if !strings.HasPrefix(arg, "-") {
			out = append(out, token{raw: []string{arg}, positional: arg})
			continue
		}

		if name, _, ok := strings.Cut(arg, "="); ok {
			out = append(out, token{name: name, raw: []string{arg}})
			continue
		}

		t := token{name: arg, raw: []string{arg}}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			t.raw = append(t.raw, args[i+1])
			i++
		}
		out = append(out, t)
	}
	return out
}

// FilterArgs keeps only allowedFlags (with their values) from args.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for _, t := range tokenize(args) {
		if _, ok := allowed[t.name]; ok && t.name != "" {
			filtered = append(filtered, t.raw...)
		}
	}
	return filtered
}

// Positional returns the arguments that are neither flags nor flag values,
// e.g. the "token alice" in "finlink-gateway -s key token alice".
func Positional(args []string) []string {
	var out []string
	for _, t := range tokenize(args) {
		if t.name == "" {
			out = append(out, t.positional)
		}
	}
	return out
}

// Parse parses the subset of args that fs defines, in both "-name" and
// "--name" spellings.
func Parse(fs *flag.FlagSet, args []string) error {
	var names []string
	fs.VisitAll(func(f *flag.Flag) {
		names = append(names, "-"+f.Name, "--"+f.Name)
	})
	return fs.Parse(FilterArgs(args, names))
}

// ConfigFile returns the JSON config path given via -c or -config, falling
// back to the envVar environment variable. Empty means no file.
func ConfigFile(envVar string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = Parse(fs, os.Args[1:])

	if config == "" && envVar != "" {
		config = os.Getenv(envVar)
	}

	return config
}
