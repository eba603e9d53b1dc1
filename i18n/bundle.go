// Package i18n resolves the localized labels shown in measure filter lists.
package i18n

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed messages/*.yaml
var defaultMessages embed.FS

// Bundle maps dotted message keys ("metric.ncloc.name") to text.
type Bundle struct {
	Locale   string
	messages map[string]string
}

// ObjectGetter reads an object from a bucket.
type ObjectGetter interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// New returns an empty bundle.
func New(locale string) *Bundle {
	return &Bundle{Locale: locale, messages: map[string]string{}}
}

// Default returns the bundle shipped with the binary.
func Default(locale string) (*Bundle, error) {
	data, err := defaultMessages.ReadFile("messages/" + locale + ".yaml")
	if err != nil {
		return nil, errors.Wrapf(err, "no built-in messages for locale %q", locale)
	}
	return Parse(locale, data)
}

// Parse reads a YAML bundle. Nested maps are flattened into dotted keys.
func Parse(locale string, data []byte) (*Bundle, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, errors.Wrap(err, "parse message bundle")
	}
	b := New(locale)
	flatten("", tree, b.messages)
	return b, nil
}

// LoadDir reads <dir>/<locale>.yaml.
func LoadDir(dir, locale string) (*Bundle, error) {
	data, err := os.ReadFile(filepath.Join(dir, locale+".yaml"))
	if err != nil {
		return nil, errors.Wrap(err, "read message bundle")
	}
	return Parse(locale, data)
}

// LoadObject reads <prefix><locale>.yaml from object storage.
func LoadObject(ctx context.Context, store ObjectGetter, prefix, locale string) (*Bundle, error) {
	key := prefix + locale + ".yaml"
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch message bundle %s", key)
	}
	return Parse(locale, data)
}

// Merge copies the messages of other over b.
func (b *Bundle) Merge(other *Bundle) *Bundle {
	for k, v := range other.messages {
		b.messages[k] = v
	}
	return b
}

// Message returns the text of key, or def when the key is unknown.
// A key defined with empty text resolves to "".
func (b *Bundle) Message(key, def string) string {
	if v, ok := b.messages[key]; ok {
		return v
	}
	return def
}

// Len returns the number of messages.
func (b *Bundle) Len() int {
	return len(b.messages)
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
			out[key] = ""
		case string:
			out[key] = val
		default:
			out[key] = strings.TrimSpace(fmt.Sprint(val))
		}
	}
}
