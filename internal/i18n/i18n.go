// Package i18n resolves message keys to localized text.
//
// Catalogs are YAML maps of key to text/template source, embedded in the
// binary. Templates can use the sprout std and strings function registries.
package i18n

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/go-sprout/sprout"
	"github.com/go-sprout/sprout/registry/std"
	sproutstrings "github.com/go-sprout/sprout/registry/strings"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ErrUnknownLocale is returned when a locale is not a valid BCP 47 tag.
var ErrUnknownLocale = errors.New("unknown locale")

//go:embed locales/*.yaml
var localeFS embed.FS

// supported lists the embedded catalogs. The first entry is the fallback.
var supported = []language.Tag{
	language.English,
	language.French,
}

var matcher = language.NewMatcher(supported)

// Catalog holds the messages of one locale with English fallbacks.
type Catalog struct {
	tag      language.Tag
	messages map[string]*template.Template
	sources  map[string]string
}

// Load returns the catalog closest to locale, e.g. "fr-CA" loads French.
// Locales with no catalog fall back to English.
func Load(locale string) (*Catalog, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
	}

	_, idx, _ := matcher.Match(tag)
	chosen := supported[idx]

	funcs, err := templateFuncs()
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		tag:      chosen,
		messages: make(map[string]*template.Template),
		sources:  make(map[string]string),
	}

	fallback := supported[0]
	if err := c.merge(fallback, funcs); err != nil {
		return nil, err
	}
	if chosen != fallback {
		if err := c.merge(chosen, funcs); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// MustLoad is like Load but panics on error. Intended for tests and for
// locales known at compile time.
func MustLoad(locale string) *Catalog {
	c, err := Load(locale)
	if err != nil {
		panic(err)
	}
	return c
}

// Language returns the tag of the catalog that was selected.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// T renders the message for key. The first arg, if any, is the template
// data. An unknown key renders as the key itself.
func (c *Catalog) T(key string, args ...any) string {
	tmpl, ok := c.messages[key]
	if !ok {
		slog.Debug("missing translation", "key", key, "locale", c.tag.String())
		return key
	}

	var data any
	if len(args) > 0 {
		data = args[0]
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Debug("rendering translation", "key", key, "error", err)
		return c.sources[key]
	}

	return buf.String()
}

// Has reports whether key exists in the catalog.
func (c *Catalog) Has(key string) bool {
	_, ok := c.messages[key]
	return ok
}

func (c *Catalog) merge(tag language.Tag, funcs template.FuncMap) error {
	base, _ := tag.Base()
	name := "locales/" + base.String() + ".yaml"

	data, err := localeFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading catalog %s: %w", name, err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing catalog %s: %w", name, err)
	}

	for key, src := range raw {
		tmpl, err := template.New(key).Funcs(funcs).Parse(src)
		if err != nil {
			return fmt.Errorf("parsing message %s in %s: %w", key, name, err)
		}
		c.messages[key] = tmpl
		c.sources[key] = src
	}

	return nil
}

func templateFuncs() (template.FuncMap, error) {
	handler := sprout.New()
	if err := handler.AddRegistries(std.NewRegistry(), sproutstrings.NewRegistry()); err != nil {
		return nil, fmt.Errorf("registering template functions: %w", err)
	}
	return template.FuncMap(handler.Build()), nil
}
