package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"fontpack/config"
	"fontpack/state"
)

// outputConfiguration writes either the built-in or the effective
// configuration to DESTINATION or standard output.
func outputConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	args := cmd.Args().Slice()
	if len(args) > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", args[1:]))
	}

	kind, data := "actual", []byte(nil)
	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	var (
		out  io.Writer = os.Stdout
		dest           = "STDOUT"
	)
	if len(args) > 0 && args[0] != "" {
		dest = args[0]
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", dest, err)
		}
		defer func() {
			err = errors.Join(err, f.Close())
		}()
		out = f
	}

	env.Log.Info("Writing configuration", zap.String("kind", kind), zap.String("destination", dest))
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
