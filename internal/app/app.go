// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"acekit/internal/config"
	"acekit/internal/logging"
	"acekit/internal/version"
	"acekit/internal/writers"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

// usageError marks bad flags or arguments.
type usageError struct{ err error }

func (u usageError) Error() string { return u.err.Error() }
func (u usageError) Unwrap() error { return u.err }

func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// app carries what every command needs once the root flags are parsed.
type app struct {
	stdout, stderr io.Writer
	lookupEnv      func(string) (string, bool)

	configPath string
	logLevel   string
	quiet      bool

	cfg config.Config
	log *log.Logger
}

// Run executes the acekit command line and returns the process exit code.
func Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	return run(ctx, argv, stdout, stderr, os.LookupEnv)
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer, env func(string) (string, bool)) int {
	a := &app{
		stdout:    stdout,
		stderr:    stderr,
		lookupEnv: env,
		cfg:       config.Default(),
		log:       logging.New(stderr, "info", false),
	}
	root := a.rootCommand()
	root.SetArgs(argv)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	return a.exitCode(ctx, err)
}

func (a *app) exitCode(ctx context.Context, err error) int {
	var ue usageError
	switch {
	case err == nil, writers.IsBrokenPipe(err):
		return exitOK
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		a.log.Warn("interrupted")
		return exitInterrupted
	case errors.As(err, &ue):
		a.log.Error(err)
		fmt.Fprintln(a.stderr, "Run 'acekit --help' for usage.")
		return exitUsage
	default:
		a.log.Error(err)
		return exitFailure
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "acekit",
		Short: "Inspect and rewrite ACE assembly files",
		Long: `acekit reads consed/phrap ACE assemblies.

Input files may be gzip-compressed; "-" reads standard input.
Settings come from acekit.yaml (or --config), then ACEKIT_* variables,
then flags.`,
		Version:           version.Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		Args:              cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return usageError{errors.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())}
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file (default ./"+config.DefaultPath+" if present)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "Only log errors")

	root.AddCommand(
		a.statsCommand(),
		a.idsCommand(),
		a.getCommand(),
		a.rewriteCommand(),
		a.tilingCommand(),
		a.consensusCommand(),
		a.versionCommand(),
	)
	return root
}

// setup loads the config and builds the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath, a.lookupEnv)
	if err != nil {
		return usageError{err}
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg
	a.log = logging.New(a.stderr, cfg.LogLevel, a.quiet)
	a.log.Debug("effective config", "config", spew.Sdump(cfg))
	return nil
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(a.stdout, "acekit %s\n", version.Version)
			return err
		},
	}
}
