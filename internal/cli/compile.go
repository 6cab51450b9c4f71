// internal/cli/compile.go
package cli

import (
	"errors"
	"flag"

	"metaxsfr/internal/cliutil"
)

// CompileOptions configures compile-summaries.
type CompileOptions struct {
	Summaries   []string
	Out         string
	Taxonomies  []string
	TaxonomyOut string

	Log LogFlags
	common
}

// ParseCompile registers and parses compile-summaries flags. Summary files
// may be given as positionals, --summaries lists, or globs.
func ParseCompile(fs *flag.FlagSet, argv []string) (CompileOptions, error) {
	var o CompileOptions
	o.common.register(fs)
	o.Log.register(fs)

	var sums, taxa stringSlice
	fs.Var(&sums, "summaries", "sample summary TSVs (repeatable, comma list or glob) [*]")
	fs.StringVar(&o.Out, "out", "", "compiled summary output path [*]")
	fs.Var(&taxa, "taxonomies", "taxonomy TSVs to concatenate (repeatable, comma list or glob)")
	fs.StringVar(&o.TaxonomyOut, "taxonomy-out", "", "concatenated taxonomy output path")

	flagArgs, pos := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := parse(fs, flagArgs, &o.common); err != nil || o.Version {
		return o, err
	}
	pos = append(pos, fs.Args()...)

	var err error
	if o.Summaries, err = cliutil.ExpandList(append([]string(sums), pos...)); err != nil {
		return o, err
	}
	if o.Taxonomies, err = cliutil.ExpandList(taxa); err != nil {
		return o, err
	}
	if o.Out == "" {
		return o, errors.New("--out is required")
	}
	if (len(o.Taxonomies) > 0) != (o.TaxonomyOut != "") {
		return o, errors.New("--taxonomies and --taxonomy-out must be supplied together")
	}
	return o, nil
}
