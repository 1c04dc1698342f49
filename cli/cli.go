package cli

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/formula/cli/cmd"
	"github.com/ardnew/formula/document"
	"github.com/ardnew/formula/pkg"
)

const baseConfig = "config"

// CLI is the top-level command-line interface for formula.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit"`

	Path []string `help:"Directories searched for documents (also ${pathEnv})" placeholder:"DIR" short:"P" type:"path"`

	Eval    cmd.Eval    `cmd:"" default:"withargs" help:"Evaluate a formula"`
	Parse   cmd.Parse   `cmd:""                    help:"Parse a formula and print its syntax tree"`
	Resolve cmd.Resolve `cmd:""                    help:"Resolve field paths in a document"`
	Check   cmd.Check   `cmd:""                    help:"Evaluate every formula field in a document"`
	Repl    cmd.Repl    `cmd:""                    help:"Start an interactive shell"`
}

// Run executes the formula CLI with the given context and arguments,
// writing command output to out. The exit function is called with the
// appropriate exit code when parsing ends the program early (for example
// --help).
func Run(
	ctx context.Context,
	out io.Writer,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	configFilePath := pkg.ConfigPath(baseConfig)

	vars := kong.Vars{
		"version":     pkg.Version(),
		"historyFile": pkg.CachePath("history"),
		"pathEnv":     pkg.EnvPrefix() + "PATH",
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before parsing so that parse errors are logged in
	// the requested format regardless of flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(out, os.Stderr),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindTo(out, (*io.Writer)(nil)),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath+".yaml"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	search := document.SearchPath(os.Getenv(pkg.EnvPrefix()+"PATH"), cli.Path...)
	ctx = cmd.WithSearchPath(ctx, search)

	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(&cli)
}
