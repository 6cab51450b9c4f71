// cmd/metaxsfr/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"metaxsfr/internal/appshell"
	"metaxsfr/internal/compileapp"
	"metaxsfr/internal/generateapp"
	"metaxsfr/internal/processapp"
	"metaxsfr/internal/runapp"
	"metaxsfr/internal/version"
)

// passthrough wraps a tool so its own flag set parses everything after the
// subcommand name.
func passthrough(use, short string, run appshell.RunFunc, code *int) *cobra.Command {
	return &cobra.Command{
		Use:                use,
		Short:              short,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-h"}
			}
			*code = run(cmd.Context(), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return nil
		},
	}
}

func newRootCmd(code *int) *cobra.Command {
	root := &cobra.Command{
		Use:   "metaxsfr",
		Short: "Metagenome taxonomic explorer in a single-file report",
		Long: `metaxsfr turns kraken2, bracken and metaphlan4 reports into per-sample
summary and taxonomy tables, compiles them across samples and embeds the
result into a self-contained HTML report.`,
		Example:       "  metaxsfr run --report-type bracken --database gtdb --template report.html 'reports/*.txt'",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		passthrough("process", "Process one report into summary and taxonomy tables", processapp.RunContext, code),
		passthrough("compile", "Compile sample summaries into one wide table", compileapp.RunContext, code),
		passthrough("generate", "Generate the HTML report from compiled tables", generateapp.RunContext, code),
		passthrough("run", "Process, compile and generate in one go", runapp.RunContext, code),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "metaxsfr version %s\n", version.Version)
			},
		},
	)
	return root
}

func execute(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	code := 0
	root := newRootCmd(&code)
	root.SetArgs(argv)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	return code
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if ctx.Err() != nil && code == 0 {
		code = 130
	}
	stop()
	os.Exit(code)
}
