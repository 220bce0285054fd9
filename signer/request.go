package signer

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// QueryParam is one query parameter covered by the signature.
type QueryParam struct {
	Name  string
	Value string
}

// SigningRequest describes the single request a presigned URL authorizes.
type SigningRequest struct {
	// Method is one of GET, PUT, POST, DELETE or HEAD.
	Method string

	// Scheme of the rendered URL. Defaults to https.
	Scheme string

	// Host is the request host, for example
	// example-bucket.s3.us-east-1.amazonaws.com. See VirtualHost.
	Host string

	// Path is the unencoded resource path without its leading slash: the object
	// key, or bucket/key for path-style endpoints.
	Path string

	// Query holds extra parameters to sign, such as response-content-type.
	// Names must be unique and must not collide with the X-Amz-* presign keys.
	Query []QueryParam

	// Headers the client will send with the request and that must be signed,
	// for example Content-Type on uploads. Host is always signed.
	Headers http.Header

	// Region is the signing region, for example us-east-1.
	Region string

	// Service is the signing service name. Defaults to "s3".
	Service string

	// Expires is the validity window, in whole seconds between 1s and 7 days.
	Expires time.Duration

	// Time is the signing timestamp. The zero value means now.
	Time time.Time
}

var supportedMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPut:    {},
	http.MethodPost:   {},
	http.MethodDelete: {},
	http.MethodHead:   {},
}

// normalizeMethod upper-cases method and checks it is supported.
func normalizeMethod(method string) (string, error) {
	m := strings.ToUpper(method)
	if _, ok := supportedMethods[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}
	return m, nil
}

// expiresSeconds validates the expiry and converts it to whole seconds.
func expiresSeconds(d time.Duration) (int64, error) {
	secs := int64(d / time.Second)
	if secs < 1 || secs > MaxExpires {
		return 0, fmt.Errorf("%w: %s is outside 1s..%ds", ErrInvalidExpiration, d, MaxExpires)
	}
	return secs, nil
}

func (r SigningRequest) scheme() string {
	if r.Scheme == "" {
		return DefaultScheme
	}
	return strings.ToLower(r.Scheme)
}

func (r SigningRequest) service() string {
	if r.Service == "" {
		return DefaultService
	}
	return r.Service
}

// isPresignKey reports whether name is owned by the assembler.
func isPresignKey(name string) bool {
	for _, k := range presignKeys {
		if strings.EqualFold(name, k) {
			return true
		}
	}
	return false
}
