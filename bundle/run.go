package bundle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"fontpack/archive"
	"fontpack/css"
	"fontpack/fetch"
	"fontpack/state"
)

// Run is the action of build command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("build")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}

	env.BaseURL = cmd.String("base-url")
	if len(env.BaseURL) == 0 {
		return errors.New("no base url has been specified")
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Overwrite = cmd.Bool("overwrite")

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.String("base", env.BaseURL))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, env, log)
}

// process handles the build independently of CLI framework.
func process(ctx context.Context, src, dst string, env *state.LocalEnv, log *zap.Logger) error {
	u, err := fetch.ResolveSource(src)
	if err != nil {
		return err
	}

	client, err := fetch.NewClient(&env.Cfg.Fetch, env.Log)
	if err != nil {
		return fmt.Errorf("unable to prepare http client: %w", err)
	}

	text, err := client.LoadStylesheet(ctx, u)
	if err != nil {
		return fmt.Errorf("unable to load stylesheet: %w", err)
	}
	storeSource(env, text)

	res, err := NewBuilder(client, env.Log).Build(ctx, Options{
		Stylesheet: text,
		BaseURL:    env.BaseURL,
		SourceURL:  u,
	})
	if err != nil {
		return err
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("styles.css", []byte(res.CSS))
		env.Rpt.StoreData("downloads.txt", downloadListing(res))
	}

	out := filepath.Join(dst, buildOutputName(u, &env.Cfg.Document))
	if err := writeArchive(res.Archive, out, env); err != nil {
		return err
	}
	log.Info("Archive created", zap.String("file", out), zap.Int("faces", len(res.Records)), zap.Int("files", res.Assets.Len()))
	return nil
}

// storeSource puts original stylesheet and its syntax tree into debug report.
func storeSource(env *state.LocalEnv, text string) {
	if env.Rpt == nil {
		return
	}
	env.Rpt.StoreData("source.css", []byte(text))
	env.Rpt.StoreData("source-tree.txt", []byte(css.Dump(css.NewParser(env.Log).Parse([]byte(text)))))
}

// downloadListing returns "name<TAB>url" lines in natural order of names.
func downloadListing(res *Result) []byte {
	downloads := res.Downloads.All()
	lines := make([]string, 0, len(downloads))
	for _, d := range downloads {
		lines = append(lines, d.Name+"\t"+d.URL)
	}
	sort.Sort(natural.StringSlice(lines))
	return []byte(strings.Join(lines, "\n") + "\n")
}

func writeArchive(data []byte, out string, env *state.LocalEnv) error {
	if _, err := os.Stat(out); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", out)
		}
		env.Log.Warn("Overwriting existing file", zap.String("file", out))
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("unable to check output file: %w", err)
	}

	dir := filepath.Dir(out)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if !env.Cfg.Document.FixZip {
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("unable to write archive: %w", err)
		}
		return nil
	}

	tmp, err := os.CreateTemp(dir, ".fontpack-*.zip")
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("unable to write temporary file: %w", err)
	}
	return archive.FixZip(tmp.Name(), out)
}
