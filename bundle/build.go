// Package bundle turns a stylesheet with @font-face rules into a self
// contained archive of font files and a rewritten stylesheet.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"fontpack/archive"
	"fontpack/css"
	"fontpack/fetch"
	"fontpack/fontface"
)

// Options describe single build.
type Options struct {
	// Stylesheet is the source stylesheet text.
	Stylesheet string
	// BaseURL prefixes every src url in the rewritten stylesheet.
	BaseURL string
	// SourceURL is where stylesheet came from, relative font urls are
	// resolved against it. When nil urls are used as is.
	SourceURL *url.URL
}

// Result holds everything produced by a build.
type Result struct {
	Records   []fontface.Record
	Downloads *fontface.DownloadMap
	Assets    *fetch.Assets
	CSS       string
	Archive   []byte
}

// Fetcher downloads all entries of the download map, *fetch.Client
// satisfies it.
type Fetcher interface {
	FetchAll(ctx context.Context, dm *fontface.DownloadMap, base *url.URL) (*fetch.Assets, error)
}

// Builder runs build pipeline.
type Builder struct {
	fetcher Fetcher
	parser  *css.Parser
	log     *zap.Logger
}

func NewBuilder(fetcher Fetcher, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		fetcher: fetcher,
		parser:  css.NewParser(log),
		log:     log.Named("bundle"),
	}
}

// Analyze parses stylesheet and extracts font faces without touching the
// network.
func (b *Builder) Analyze(stylesheet string, source string) ([]fontface.Record, *fontface.DownloadMap, error) {
	sheet := b.parser.Parse([]byte(stylesheet), source)
	records, err := fontface.Extract(sheet, b.log)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to extract font faces: %w", err)
	}
	return records, fontface.NewDownloadMap(records), nil
}

// Build runs complete pipeline. Any failure aborts the build and no archive
// is produced.
func (b *Builder) Build(ctx context.Context, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.fetcher == nil {
		return nil, errors.New("no fetcher has been configured")
	}

	var source string
	if opts.SourceURL != nil {
		source = opts.SourceURL.Redacted()
	}
	records, dm, err := b.Analyze(opts.Stylesheet, source)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		b.log.Warn("No @font-face rules found in stylesheet", zap.String("source", source))
	}
	b.log.Info("Downloading fonts", zap.Int("faces", len(records)), zap.Int("files", dm.Len()))

	assets, err := b.fetcher.FetchAll(ctx, dm, opts.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("unable to download fonts: %w", err)
	}

	text := fontface.Rewrite(records, opts.BaseURL)

	entries := make([]archive.Entry, 0, assets.Len())
	for _, a := range assets.All() {
		entries = append(entries, archive.Entry{Name: a.Name, Data: a.Data})
	}
	data, err := archive.AssembleBytes(entries, text)
	if err != nil {
		return nil, fmt.Errorf("unable to assemble archive: %w", err)
	}

	return &Result{
		Records:   records,
		Downloads: dm,
		Assets:    assets,
		CSS:       text,
		Archive:   data,
	}, nil
}
