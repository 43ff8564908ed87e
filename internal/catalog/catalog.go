// Package catalog builds the pair pool from a directory of image assets.
// Every image file becomes one pair: its stem is the id and, title-cased,
// the label the player reads.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/playperu/picmatch/internal/picmatch"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

type Catalog struct {
	dir     string
	baseURL string
	files   []string
	pairs   []picmatch.Pair
}

// Load scans dir once. baseURL is the public origin the assets are served
// from, e.g. http://localhost:8080.
func Load(dir, baseURL string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading assets dir %q: %w", dir, err)
	}

	c := &Catalog{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
	seen := make(map[string]bool)
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		c.files = append(c.files, name)

		ext := filepath.Ext(name)
		if !imageExts[strings.ToLower(ext)] {
			continue
		}
		stem := strings.TrimSuffix(name, ext)
		id := strings.ToLower(stem)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		c.pairs = append(c.pairs, picmatch.Pair{
			ID:        id,
			VisualRef: c.AssetURL(name),
			Label:     Label(stem),
		})
	}

	slices.Sort(c.files)
	slices.SortFunc(c.pairs, func(a, b picmatch.Pair) int { return strings.Compare(a.ID, b.ID) })
	return c, nil
}

func (c *Catalog) Dir() string { return c.dir }

// Pairs returns the pool sorted by id.
func (c *Catalog) Pairs() []picmatch.Pair { return slices.Clone(c.pairs) }

// AssetURLs lists the absolute URL of every file in the assets dir.
func (c *Catalog) AssetURLs() []string {
	urls := make([]string, len(c.files))
	for i, f := range c.files {
		urls[i] = c.AssetURL(f)
	}
	return urls
}

func (c *Catalog) AssetURL(file string) string {
	return c.baseURL + "/assets/" + url.PathEscape(file)
}

// Check reports whether the assets dir is still readable.
func (c *Catalog) Check(_ context.Context) error {
	info, err := os.Stat(c.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", c.dir)
	}
	return nil
}

// Label turns a file stem into display text: "hippo_baby" becomes "Hippo Baby".
func Label(stem string) string {
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}
