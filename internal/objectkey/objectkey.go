// Package objectkey names uploaded objects so that concurrent uploads of the
// same file never collide.
package objectkey

import (
	"errors"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// DefaultPrefix is the folder new uploads land in.
const DefaultPrefix = "uploads/"

// timestampFormat renders YYYYMMDD_HHMMSS.
const timestampFormat = "20060102_150405"

// ErrEmptyName is returned when a file name has nothing left after cleaning.
var ErrEmptyName = errors.New("objectkey: empty file name")

// Generator builds unique object keys of the form
// <prefix>YYYYMMDD_HHMMSS_<id>_<name><ext>, where id is the first eight hex
// digits of a random UUID.
type Generator struct {
	prefix string
	now    func() time.Time
	newID  func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithPrefix sets the key prefix. A trailing slash is added when missing;
// an empty prefix puts keys at the bucket root.
func WithPrefix(prefix string) Option {
	return func(g *Generator) {
		g.prefix = normalizePrefix(prefix)
	}
}

// WithClock replaces the clock used for the timestamp.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithIDSource replaces the random id source.
func WithIDSource(newID func() string) Option {
	return func(g *Generator) {
		g.newID = newID
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		prefix: DefaultPrefix,
		now:    time.Now,
		newID:  randomID,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Key returns a fresh key for filename. Only the base name is used, so
// client-supplied directories cannot escape the prefix.
func (g *Generator) Key(filename string) (string, error) {
	name := Clean(filename)
	if name == "" {
		return "", ErrEmptyName
	}
	var b strings.Builder
	b.WriteString(g.prefix)
	b.WriteString(g.now().UTC().Format(timestampFormat))
	b.WriteByte('_')
	b.WriteString(g.newID())
	b.WriteByte('_')
	b.WriteString(name)
	return b.String(), nil
}

// Prefix returns the normalized prefix.
func (g *Generator) Prefix() string {
	return g.prefix
}

// Clean reduces filename to a safe base name: directory parts are dropped,
// control characters removed and surrounding spaces trimmed. Everything else,
// including spaces and non-ASCII letters, is kept; the signer encodes it.
func Clean(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	base := path.Base(strings.TrimSpace(filename))
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	base = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			return -1
		}
		return r
	}, base)
	return strings.TrimSpace(base)
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimLeft(prefix, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

func randomID() string {
	return uuid.NewString()[:8]
}
