package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/pagemark/mdtoc"
	"github.com/pagemark/mdtoc/internal/yamlutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// isCommand reports whether arg names a subcommand rather than an input.
func isCommand(arg string) bool {
	return arg == "version" || arg == "help"
}

// newLogger returns a stderr logger. Warnings by default, debug with
// --verbose, errors only with --quiet.
func newLogger(env *Environment, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(env.Stderr, &slog.HandlerOptions{Level: level}))
}

// runMain runs the CLI and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	if isCommand(args[1]) {
		switch args[1] {
		case "version":
			fmt.Fprintf(env.Stdout, "mdtoc %s\n", Version)
		case "help":
			printUsage(env.Stdout)
		}
		return ExitSuccess
	}

	flags, positional, err := parseConvertFlags(args[1:], env)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\nRun 'mdtoc help' for usage.\n", err)
		return ExitUsage
	}

	logger := newLogger(env, flags.common.quiet, flags.common.verbose)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))

	warnUnknownEnvVars(env.Environ(), logger)
	envCfg := loadEnvConfig(env.Getenv)

	if err := run(positional, flags, envCfg, env, logger); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// run resolves the batch settings and converts the input.
func run(positional []string, flags *convertFlags, envCfg *envConfig, env *Environment, logger *slog.Logger) error {
	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags, envCfg)
	if err != nil {
		return err
	}
	if out, err := yamlutil.Marshal(cfg); err == nil {
		logger.Debug("effective config", "yaml", string(out))
	}

	size := mdtoc.ResolvePoolSize(workers)
	logger.Debug("pool size resolved", "workers", size)

	pools := newPoolSet(size, timeout, logger)
	defer func() {
		if err := pools.Close(); err != nil {
			logger.Warn("closing converters", "error", err)
		}
	}()

	ctx, stop := notifyContext(context.Background())
	defer stop()

	return runConvert(ctx, positional, flags, cfg, pools, env, logger)
}
