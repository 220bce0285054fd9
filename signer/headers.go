package signer

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"
)

// Rule defines an interface for header validation rules.
// Reference: AWS SDK v4 signer internal/v4/header_rules.go
type Rule interface {
	IsValid(value string) bool
}

// MapRule matches canonical header keys (textproto form).
type MapRule map[string]struct{}

// IsValid returns true if the value exists in the map.
func (m MapRule) IsValid(value string) bool {
	_, ok := m[http.CanonicalHeaderKey(value)]
	return ok
}

// ExcludeList is a rule that excludes values matching the inner rule.
type ExcludeList struct {
	Rule
}

// IsValid returns true if the value does NOT match the inner rule.
func (e ExcludeList) IsValid(value string) bool {
	return !e.Rule.IsValid(value)
}

// SignableHeaders decides which caller headers may join the signature.
// Host is always signed by the canonicalizer itself; the rest are rewritten by
// clients or proxies and would break the signature in transit.
var SignableHeaders Rule = ExcludeList{
	MapRule{
		"Host":              struct{}{},
		"Authorization":     struct{}{},
		"User-Agent":        struct{}{},
		"X-Amzn-Trace-Id":   struct{}{},
		"Expect":            struct{}{},
		"Transfer-Encoding": struct{}{},
		"Content-Length":    struct{}{},
	},
}

const hostHeader = "host"

// buildCanonicalHeaders returns the signed-headers list and canonical headers
// block for host plus the extra headers. Header names that differ only in case
// are rejected.
// Reference: AWS SDK v4 signer v4.go buildCanonicalHeaders
func buildCanonicalHeaders(host string, extra http.Header) (signedHeaders, canonicalHeaders string, err error) {
	values := map[string][]string{hostHeader: {host}}
	names := []string{hostHeader}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := extra[k]
		if k == "" {
			return "", "", fmt.Errorf("%w: empty header name", ErrInvalidParameter)
		}
		if !SignableHeaders.IsValid(k) {
			return "", "", fmt.Errorf("%w: header %q cannot be signed", ErrInvalidParameter, k)
		}
		if !utf8.ValidString(k) {
			return "", "", fmt.Errorf("%w: header name is not valid UTF-8", ErrEncodingFailure)
		}
		lower := strings.ToLower(k)
		if _, dup := values[lower]; dup {
			return "", "", fmt.Errorf("%w: header %q given more than once", ErrInvalidParameter, k)
		}
		names = append(names, lower)
		vals := make([]string, 0, len(v))
		for _, s := range v {
			if !utf8.ValidString(s) {
				return "", "", fmt.Errorf("%w: value of header %q is not valid UTF-8", ErrEncodingFailure, k)
			}
			vals = append(vals, stripExcessSpaces(s))
		}
		values[lower] = vals
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(strings.Join(values[name], ","))
		b.WriteByte('\n')
	}
	return strings.Join(names, ";"), b.String(), nil
}

// stripExcessSpaces trims leading and trailing spaces and collapses inner runs
// of spaces to one.
// Reference: AWS SDK v4 signer internal/v4/util.go StripExcessSpaces
func stripExcessSpaces(s string) string {
	s = strings.Trim(s, " ")
	if !strings.Contains(s, "  ") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			if space {
				continue
			}
			space = true
		} else {
			space = false
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
