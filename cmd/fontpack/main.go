package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"fontpack/bundle"
	"fontpack/config"
	"fontpack/misc"
	"fontpack/state"
)

// initializeAppContext runs after flags are parsed and fills LocalEnv with
// configuration, logger and (with --debug) report.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)
	configFile := cmd.String("config")

	cfg, err := config.LoadConfiguration(configFile)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	env.Cfg = cfg

	if cmd.Bool("debug") {
		if env.Rpt, err = cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		if configFile != "" {
			storeEffectiveConfig(env.Rpt, cfg, configFile)
		}
	}

	if env.Log, err = cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	log := env.Log
	log.Debug("Program started",
		zap.Strings("args", os.Args),
		zap.String("ver", misc.GetVersion()),
		zap.String("runtime", runtime.Version()),
		zap.String("hash", misc.GetGitHash()))
	if name := env.Rpt.Name(); name != "" {
		log.Info("Creating debug report", zap.String("location", name))
	}
	if configFile == "" {
		log.Info("Using defaults (no configuration file)")
	}
	log.Debug("Fetch settings",
		zap.Duration("timeout", cfg.Fetch.Timeout),
		zap.Int("concurrency", cfg.Fetch.Concurrency),
		zap.Int64("max_size", cfg.Fetch.MaxSize),
		zap.Bool("proxy", cfg.Fetch.Proxy != ""))
	return ctx, nil
}

// storeEffectiveConfig puts the merged configuration into report. Dump masks
// secrets.
func storeEffectiveConfig(rpt *config.Report, cfg *config.Config, configFile string) {
	data, err := config.Dump(cfg)
	if err != nil {
		return
	}
	rpt.StoreData("config/"+filepath.Base(configFile), data)
}

// destroyAppContext flushes logs first so the report gets them complete.
// From here on errors go to stderr only.
func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()

	var err error
	if er := env.Rpt.Close(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
	}
	if env.Cfg != nil {
		err = multierr.Append(err, removeEmptyPanicLog(&env.Cfg.Logging))
	}
	return err
}

func removeEmptyPanicLog(conf *config.LoggingConfig) error {
	if conf.FileLogger.Destination == "" {
		return nil
	}
	debug.SetCrashOutput(nil, debug.CrashOptions{})

	name := filepath.Join(filepath.Dir(conf.FileLogger.Destination), misc.GetAppName()+"-panic.log")
	if fi, err := os.Stat(name); err != nil || fi.Size() != 0 {
		return nil
	}
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("unable to remove empty panic log file '%s': %w", name, err)
	}
	return nil
}

// errLogged is set once a command error went to the log, so main does not
// print it again.
var errLogged bool

// exitErrHandler is called before After, while logger is still open.
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Error("Program ended with error", zap.Error(err))
		errLogged = true
	}
}

// usageErrorHandler returns parsing errors as is instead of printing usage.
func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
		return
	}
	fmt.Fprintf(os.Stderr, "Unknown command %q, nothing to do\n", name)
}

func main() {
	// interrupt cancels downloads in flight
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "packs web fonts declared in a stylesheet into a single archive",
		Version:         fmt.Sprintf("%s (%s) : %s", misc.GetVersion(), runtime.Version(), misc.GetGitHash()),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log everything and collect troubleshooting report archive"},
		},
		Commands: commands(),
	}

	err := app.Run(ctx, os.Args)
	stop()
	if err == nil {
		return
	}
	// logger may be gone or never created
	if !errLogged {
		fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
	}
	os.Exit(1)
}

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:         "build",
			Usage:        "Downloads fonts referenced by stylesheet and packs them into archive",
			OnUsageError: usageErrorHandler,
			Action:       bundle.Run,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "base-url", Aliases: []string{"b"}, Usage: "`URL` fonts will be served from, used in rewritten stylesheet"},
				&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "replace archive if it already exists"},
			},
			ArgsUsage: "SOURCE [DESTINATION]",
			CustomHelpTemplate: cli.CommandHelpTemplate + `
SOURCE:
    stylesheet with @font-face rules, either URL (http, https) or path to local file
    relative font URLs are resolved against stylesheet location

DESTINATION:
    directory for the archive, current working directory if absent
    archive name is derived from stylesheet name

Resulting archive contains "fonts/" directory with every font file and
"styles.css" with @font-face rules pointing to URL/<font file>.
`,
		},
		{
			Name:         "inspect",
			Usage:        "Lists font faces of stylesheet or verifies previously built archive",
			OnUsageError: usageErrorHandler,
			Action:       bundle.Inspect,
			ArgsUsage:    "SOURCE",
			CustomHelpTemplate: cli.CommandHelpTemplate + `
SOURCE:
    stylesheet URL or path to local file - prints font faces and files to download
    path to archive (.zip) - checks that styles.css and fonts/ match each other
`,
		},
		{
			Name:  "dumpconfig",
			Usage: "Dumps either default or actual configuration (YAML)",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
			},
			OnUsageError: usageErrorHandler,
			Action:       outputConfiguration,
			ArgsUsage:    "DESTINATION",
			CustomHelpTemplate: cli.CommandHelpTemplate + `
DESTINATION:
    file name to write configuration to, if absent - STDOUT

Without --default prints effective configuration: embedded defaults merged
with configuration file, secrets masked.
`,
		},
	}
}
