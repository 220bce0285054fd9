package objectkey

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed() time.Time {
	return time.Date(2024, 3, 15, 8, 30, 5, 0, time.UTC)
}

func TestKey(t *testing.T) {
	g := New(WithClock(fixed), WithIDSource(func() string { return "ab12cd34" }))

	key, err := g.Key("report final.pdf")
	require.NoError(t, err)
	assert.Equal(t, "uploads/20240315_083005_ab12cd34_report final.pdf", key)
}

func TestKeyFormat(t *testing.T) {
	g := New()
	re := regexp.MustCompile(`^uploads/\d{8}_\d{6}_[0-9a-f]{8}_photo\.JPG$`)

	key, err := g.Key("photo.JPG")
	require.NoError(t, err)
	assert.Regexp(t, re, key)
}

func TestKeyUnique(t *testing.T) {
	g := New(WithClock(fixed))
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		key, err := g.Key("same.txt")
		require.NoError(t, err)
		_, dup := seen[key]
		require.False(t, dup, "duplicate key %s", key)
		seen[key] = struct{}{}
	}
}

func TestKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("PDT", -7*60*60)
	g := New(
		WithClock(func() time.Time { return time.Date(2024, 3, 14, 23, 0, 0, 0, loc) }),
		WithIDSource(func() string { return "00000000" }),
	)

	key, err := g.Key("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "uploads/20240315_060000_00000000_a.txt", key)
}

func TestWithPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"incoming", "incoming/"},
		{"incoming/", "incoming/"},
		{"/tenant/a", "tenant/a/"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			assert.Equal(t, tt.want, New(WithPrefix(tt.prefix)).Prefix())
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"  spaced name.txt  ", "spaced name.txt"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\doc.pdf`, "doc.pdf"},
		{"dir/", "dir"},
		{"tab\tand\nnewline.txt", "tabandnewline.txt"},
		{"é日本.txt", "é日本.txt"},
		{"", ""},
		{"..", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestKeyEmptyName(t *testing.T) {
	_, err := New().Key("  ")
	assert.ErrorIs(t, err, ErrEmptyName)
}
