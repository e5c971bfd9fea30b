// Package i18n holds the localized texts shown by the login form.
package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported lists the languages that ship with built-in texts.
var Supported = []language.Tag{language.English, language.BrazilianPortuguese}

// Catalog is a reloadable message catalog. Overrides read from a JSON file
// take precedence over the built-in texts.
type Catalog struct {
	fs       afero.Fs
	fallback language.Tag
	matcher  language.Matcher
	tags     []language.Tag
	current  atomic.Pointer[catalog.Builder]
}

// New creates a catalog seeded with the built-in texts. The fallback tag is
// used when a request names no supported language.
func New(fs afero.Fs, fallback language.Tag) *Catalog {
	tags := append([]language.Tag{fallback}, Supported...)
	c := &Catalog{
		fs:       fs,
		fallback: fallback,
		matcher:  language.NewMatcher(tags),
		tags:     tags,
	}
	b, _ := build(nil)
	c.current.Store(b)
	return c
}

// overrides maps a BCP 47 tag to key/text pairs.
type overrides map[string]map[string]string

func build(extra overrides) (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, key := range Keys {
		text := key
		if t, ok := english[key]; ok {
			text = t
		}
		if err := b.SetString(language.English, key, text); err != nil {
			return nil, err
		}
	}
	for key, text := range portuguese {
		if err := b.SetString(language.BrazilianPortuguese, key, text); err != nil {
			return nil, err
		}
	}
	for rawTag, texts := range extra {
		tag, err := language.Parse(rawTag)
		if err != nil {
			return nil, fmt.Errorf("invalid language tag %q: %w", rawTag, err)
		}
		for key, text := range texts {
			if err := b.SetString(tag, key, text); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

// Load reads overrides from path and swaps them in. On error the previous
// catalog stays active.
func (c *Catalog) Load(path string) error {
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return fmt.Errorf("failed to read messages file: %w", err)
	}
	var extra overrides
	if err := json.Unmarshal(data, &extra); err != nil {
		return fmt.Errorf("failed to parse messages file: %w", err)
	}
	b, err := build(extra)
	if err != nil {
		return err
	}
	c.current.Store(b)
	return nil
}

// Printer returns a printer for the given language.
func (c *Catalog) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(c.current.Load()))
}

// Match picks the best supported language for an Accept-Language header.
func (c *Catalog) Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.fallback
	}
	return c.tags[idx]
}

// Watch reloads the overrides file whenever it changes, until ctx is done.
// The parent directory is watched because editors usually replace files
// rather than writing them in place.
func (c *Catalog) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file system watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := c.Load(path); err != nil {
					slog.Error("Failed to reload messages file", "path", path, "error", err)
					continue
				}
				slog.Info("Reloaded messages file", "path", path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("Messages file watcher error", "error", err)
			}
		}
	}()
	return nil
}
