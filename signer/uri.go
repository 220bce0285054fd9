package signer

import (
	"fmt"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/aws/smithy-go/encoding/httpbinding"
)

// EncodePath returns the canonical URI for an unencoded resource path given
// without its leading slash (an object key, or bucket/key for path-style
// endpoints). Every byte outside A-Z a-z 0-9 - _ . ~ is percent-encoded and '/'
// survives only as the segment separator. S3 paths are encoded exactly once, so
// a key that itself starts with '/' yields a URI starting with "//".
// Reference: AWS SDK v4 signer internal/v4/util.go EscapePath
func EncodePath(path string) (string, error) {
	if !utf8.ValidString(path) {
		return "", fmt.Errorf("%w: path is not valid UTF-8", ErrEncodingFailure)
	}
	return "/" + httpbinding.EscapePath(path, false), nil
}

// EncodeQueryComponent percent-encodes a query name or value. It differs from
// url.QueryEscape: space becomes %20 and '/' is always encoded.
func EncodeQueryComponent(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("%w: query component is not valid UTF-8", ErrEncodingFailure)
	}
	return httpbinding.EscapePath(s, true), nil
}

// VirtualHost derives the virtual-hosted style host
// {bucket}.{service}.{region}.{domain}.
func VirtualHost(bucket, service, region, domain string) string {
	if service == "" {
		service = DefaultService
	}
	if domain == "" {
		domain = DefaultDomain
	}
	return strings.Join([]string{bucket, service, region, domain}, ".")
}

// canonicalHost removes the port when it is the default for the scheme.
// Reference: AWS SDK v4 signer internal/v4/host.go SanitizeHostForHeader
func canonicalHost(scheme, host string) string {
	h, port, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}
	if isDefaultPort(scheme, port) {
		if strings.Contains(h, ":") {
			return "[" + h + "]"
		}
		return h
	}
	return host
}

// isDefaultPort checks if port is the default for the scheme.
func isDefaultPort(scheme, port string) bool {
	if port == "" {
		return true
	}
	switch strings.ToLower(scheme) {
	case "http":
		return port == "80"
	case "https", "":
		return port == "443"
	}
	return false
}
