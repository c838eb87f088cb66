package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"fontpack/fetch"
	"fontpack/fontface"
	"fontpack/state"
)

// Inspect is the action of inspect command. For stylesheet it lists font
// faces and files which would be downloaded, for archive it verifies that
// stylesheet and font files match.
func Inspect(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Mailformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	if strings.EqualFold(filepath.Ext(src), ".zip") {
		if fi, err := os.Stat(src); err == nil && fi.Mode().IsRegular() {
			return inspectArchive(os.Stdout, src, env)
		}
	}
	return inspectStylesheet(ctx, os.Stdout, src, env)
}

func inspectStylesheet(ctx context.Context, w io.Writer, src string, env *state.LocalEnv) error {
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

	records, dm, err := NewBuilder(nil, env.Log).Analyze(text, u.Redacted())
	if err != nil {
		return err
	}

	writeRecords(w, records)
	fmt.Fprintf(w, "\n%d file(s) to download:\n", dm.Len())
	for _, d := range dm.All() {
		fmt.Fprintf(w, "  %s <- %s\n", d.Name, d.URL)
	}
	return nil
}

func inspectArchive(w io.Writer, name string, env *state.LocalEnv) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("unable to read archive: %w", err)
	}

	c, err := NewBuilder(nil, env.Log).Check(data)
	if err != nil {
		return err
	}

	writeRecords(w, c.Records)
	fmt.Fprintf(w, "\n%d font file(s) in archive:\n", len(c.Fonts))
	for _, f := range c.Fonts {
		fmt.Fprintf(w, "  %s\n", f)
	}
	for _, f := range c.Missing {
		fmt.Fprintf(w, "missing: %s\n", f)
	}
	for _, f := range c.Orphans {
		fmt.Fprintf(w, "not referenced: %s\n", f)
	}
	if !c.Consistent() {
		return fmt.Errorf("archive %s is inconsistent: %d missing, %d not referenced", name, len(c.Missing), len(c.Orphans))
	}
	return nil
}

func writeRecords(w io.Writer, records []fontface.Record) {
	fmt.Fprintf(w, "%d font face(s):\n", len(records))
	for i := range records {
		rec := &records[i]
		fmt.Fprintf(w, "  %q weight=%s style=%s", rec.Name, rec.Weight, rec.Style)
		if rec.UnicodeRange != nil {
			fmt.Fprintf(w, " unicode-range=%s", *rec.UnicodeRange)
		}
		fmt.Fprintln(w)
		for _, src := range rec.Sources.All() {
			fmt.Fprintf(w, "    %s: %s\n", formatLabel(src.Format), src.URL)
		}
	}
}

func formatLabel(format string) string {
	if format == "" {
		return "(no format)"
	}
	return format
}
