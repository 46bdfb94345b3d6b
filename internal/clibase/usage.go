// internal/clibase/usage.go
package clibase

import (
	"flag"
	"fmt"
	"io"

	"seqalign/internal/version"
)

// UsageCommon installs a shared Usage() handler on fs. synopsis follows the
// program name on the usage line; extra prints tool-specific sections before
// the flag listing.
func UsageCommon(fs *flag.FlagSet, name, tagline, synopsis string, extra func(out io.Writer)) {
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "%s: %s\n\n", name, tagline)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)
		fmt.Fprintf(out, "Usage: %s %s\n", name, synopsis)
		if extra != nil {
			fmt.Fprintln(out)
			extra(out)
		}
		fmt.Fprintln(out, "\nFlags:")
		fs.PrintDefaults()
	}
}
