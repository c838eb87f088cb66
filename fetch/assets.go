package fetch

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strings"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fontpack/fontface"
)

// Asset is a downloaded font file.
type Asset struct {
	Name string
	URL  string
	Data []byte
}

// Assets keeps downloaded files in download map order.
type Assets struct {
	items []Asset
}

func (a *Assets) Len() int {
	return len(a.items)
}

// All returns assets in order. Returned slice must not be modified.
func (a *Assets) All() []Asset {
	return a.items
}

// Get returns data of the named asset.
func (a *Assets) Get(name string) ([]byte, bool) {
	for i := range a.items {
		if a.items[i].Name == name {
			return a.items[i].Data, true
		}
	}
	return nil, false
}

// FetchAll downloads every entry of the download map concurrently. Relative
// URLs are resolved against base when it is not nil. The first failure
// cancels requests still in flight and is returned, no partial result is
// ever produced.
func (c *Client) FetchAll(ctx context.Context, dm *fontface.DownloadMap, base *url.URL) (*Assets, error) {
	downloads := dm.All()
	assets := &Assets{items: make([]Asset, len(downloads))}

	g, gctx := errgroup.WithContext(ctx)
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}

	for i, d := range downloads {
		g.Go(func() error {
			u, err := resolve(base, d.URL)
			if err != nil {
				return &Error{Name: d.Name, URL: d.URL, Err: err}
			}

			_, data, err := c.get(gctx, u)
			if err != nil {
				var fe *Error
				if errors.As(err, &fe) {
					fe.Name = d.Name
				}
				return err
			}

			if kind := expectedKind(d.Name); kind != "" && !filetype.Is(data, kind) {
				c.log.Warn("Downloaded font does not look like expected type",
					zap.String("name", d.Name), zap.String("url", u.Redacted()), zap.String("expected", kind))
			}
			c.log.Debug("Downloaded font", zap.String("name", d.Name), zap.String("url", u.Redacted()), zap.Int("bytes", len(data)))

			assets.items[i] = Asset{Name: d.Name, URL: u.String(), Data: data}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assets, nil
}

// resolve makes ref absolute against base. File URLs are accepted only when
// base is a file URL itself.
func resolve(base *url.URL, ref string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, err
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if err := checkLocalAccess(u, base); err != nil {
		return nil, err
	}
	return u, nil
}

// expectedKind returns filetype name to validate downloaded font against.
func expectedKind(name string) string {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")) {
	case "woff":
		return "woff"
	case "woff2":
		return "woff2"
	case "ttf", "truetype":
		return "ttf"
	case "otf":
		return "otf"
	default:
		return ""
	}
}
