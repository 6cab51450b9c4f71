// internal/cli/flagset.go
package cli

import (
	"flag"
	"fmt"
	"strings"

	"metaxsfr/internal/version"
)

// NewFlagSet returns a ContinueOnError FlagSet whose usage prints a short
// banner followed by the flag defaults.
func NewFlagSet(name, summary string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: %s

Version: %s

Usage of %s:
`, name, summary, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// LogFlags are shared by every tool.
type LogFlags struct {
	Verbose bool
	Quiet   bool
	JSON    bool
}

func (l *LogFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&l.Verbose, "verbose", false, "debug logging on stderr [false]")
	fs.BoolVar(&l.Quiet, "quiet", false, "only warnings and errors on stderr [false]")
	fs.BoolVar(&l.JSON, "log-json", false, "log as JSON lines [false]")
}

// common flags: -h and -v/--version.
type common struct {
	help    bool
	Version bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.BoolVar(&c.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&c.help, "h", false, "show this help message (shorthand) [false]")
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }

func parse(fs *flag.FlagSet, argv []string, c *common) error {
	if err := fs.Parse(argv); err != nil {
		return err
	}
	if c.help {
		return flag.ErrHelp
	}
	return nil
}
