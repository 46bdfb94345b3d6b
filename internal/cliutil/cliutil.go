// internal/cliutil/cliutil.go
package cliutil

import (
	"flag"
	"strings"
)

type boolFlag interface{ IsBoolFlag() bool }

// takesValue reports whether arg (a "-x" or "--name" token without "=")
// consumes the following argument. Unknown names take no value so that
// fs.Parse reports them.
func takesValue(fs *flag.FlagSet, arg string) bool {
	f := fs.Lookup(strings.TrimLeft(arg, "-"))
	if f == nil {
		return false
	}
	if bf, ok := f.Value.(boolFlag); ok && bf.IsBoolFlag() {
		return false
	}
	return true
}

// SplitFlagsAndPositionals lets positionals and flags interleave: it returns
// the flag tokens (with their values) for fs.Parse and the positionals in
// order. A lone "-" is a positional (stdout); everything after "--" is too.
func SplitFlagsAndPositionals(fs *flag.FlagSet, argv []string) (flagArgs, posArgs []string) {
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--":
			return flagArgs, append(posArgs, argv[i+1:]...)
		case arg == "-" || !strings.HasPrefix(arg, "-"):
			posArgs = append(posArgs, arg)
		case strings.Contains(arg, "="):
			flagArgs = append(flagArgs, arg)
		default:
			flagArgs = append(flagArgs, arg)
			if takesValue(fs, arg) && i+1 < len(argv) {
				i++
				flagArgs = append(flagArgs, argv[i])
			}
		}
	}
	return flagArgs, posArgs
}
