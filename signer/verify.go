package signer

import (
	"crypto/hmac"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aws/smithy-go/encoding/httpbinding"
)

// MaxClockSkew is how far in the future X-Amz-Date may lie before a URL is
// rejected as not yet valid.
const MaxClockSkew = 15 * time.Minute

// CredentialsStore provides a way to look up credentials by access key.
type CredentialsStore interface {
	Lookup(accessKeyID string) (Credentials, bool)
}

// StaticCredentialsStore is an in-memory implementation of CredentialsStore.
type StaticCredentialsStore struct {
	creds map[string]Credentials
}

// NewStaticStore builds a StaticCredentialsStore. Entries without an access
// key or secret are skipped.
func NewStaticStore(creds ...Credentials) *StaticCredentialsStore {
	m := make(map[string]Credentials, len(creds))
	for _, c := range creds {
		if c.Validate() != nil {
			continue
		}
		m[c.AccessKeyID] = c
	}
	return &StaticCredentialsStore{creds: m}
}

// Lookup implements CredentialsStore.
func (s *StaticCredentialsStore) Lookup(accessKeyID string) (Credentials, bool) {
	if s == nil {
		return Credentials{}, false
	}
	c, ok := s.creds[accessKeyID]
	return c, ok
}

// Verification describes an accepted presigned request.
type Verification struct {
	AccessKeyID   string
	Region        string
	Service       string
	SignedAt      time.Time
	ExpiresAt     time.Time
	SignedHeaders []string
}

// Verify checks the presigned request r at time now.
func Verify(r *http.Request, store CredentialsStore, now time.Time) (*Verification, error) {
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	scheme := r.URL.Scheme
	if scheme == "" {
		scheme = "http"
		if r.TLS != nil {
			scheme = "https"
		}
	}
	return verify(r.Method, scheme, host, r.URL, r.Header, store, now)
}

// VerifyURL checks rawURL as it would be requested with method and header.
func VerifyURL(method, rawURL string, header http.Header, store CredentialsStore, now time.Time) (*Verification, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return verify(method, u.Scheme, u.Host, u, header, store, now)
}

// presignValues are the parsed X-Amz-* parameters of a presigned URL.
type presignValues struct {
	accessKeyID   string
	region        string
	service       string
	time          SigningTime
	expires       time.Duration
	signedHeaders string
	signature     string
}

func parsePresignValues(q url.Values) (presignValues, error) {
	var pv presignValues

	get := func(key string) (string, error) {
		vs := q[key]
		switch {
		case len(vs) == 0:
			return "", fmt.Errorf("%w: missing %s", ErrMalformed, key)
		case len(vs) > 1:
			return "", fmt.Errorf("%w: repeated %s", ErrMalformed, key)
		}
		return vs[0], nil
	}

	algo, err := get(AmzAlgorithmKey)
	if err != nil {
		return pv, err
	}
	if algo != SigningAlgorithm {
		return pv, fmt.Errorf("%w: unsupported algorithm %q", ErrMalformed, algo)
	}

	// Credential format: <AKID>/<Date>/<Region>/<Service>/aws4_request
	cred, err := get(AmzCredentialKey)
	if err != nil {
		return pv, err
	}
	parts := strings.Split(cred, "/")
	if len(parts) != 5 || parts[0] == "" || parts[4] != scopeTerminator {
		return pv, fmt.Errorf("%w: bad credential scope", ErrMalformed)
	}
	pv.accessKeyID, pv.region, pv.service = parts[0], parts[2], parts[3]

	date, err := get(AmzDateKey)
	if err != nil {
		return pv, err
	}
	if pv.time, err = ParseSigningTime(date); err != nil {
		return pv, fmt.Errorf("%w: bad %s: %v", ErrMalformed, AmzDateKey, err)
	}
	if pv.time.ShortTimeFormat() != parts[1] {
		return pv, fmt.Errorf("%w: credential date does not match %s", ErrMalformed, AmzDateKey)
	}

	exp, err := get(AmzExpiresKey)
	if err != nil {
		return pv, err
	}
	secs, err := strconv.ParseInt(exp, 10, 64)
	if err != nil || secs < 1 || secs > MaxExpires {
		return pv, fmt.Errorf("%w: bad %s %q", ErrMalformed, AmzExpiresKey, exp)
	}
	pv.expires = time.Duration(secs) * time.Second

	if pv.signedHeaders, err = get(AmzSignedHeadersKey); err != nil {
		return pv, err
	}
	if pv.signature, err = get(AmzSignatureKey); err != nil {
		return pv, err
	}
	return pv, nil
}

// canonicalURI re-encodes an escaped request path segment by segment so an
// escaped '/' inside a key stays part of its segment.
func canonicalURI(escaped string) (string, error) {
	if escaped == "" {
		return "/", nil
	}
	segments := strings.Split(escaped, "/")
	for i, seg := range segments {
		raw, err := url.PathUnescape(seg)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if !utf8.ValidString(raw) {
			return "", fmt.Errorf("%w: path is not valid UTF-8", ErrMalformed)
		}
		segments[i] = httpbinding.EscapePath(raw, true)
	}
	uri := strings.Join(segments, "/")
	if !strings.HasPrefix(uri, "/") {
		uri = "/" + uri
	}
	return uri, nil
}

func verify(method, scheme, host string, u *url.URL, header http.Header, store CredentialsStore, now time.Time) (*Verification, error) {
	// A raw '+' would decode as a space and canonicalize as %20.
	if strings.Contains(u.RawQuery, "+") {
		return nil, fmt.Errorf("%w: unencoded '+' in query", ErrMalformed)
	}
	uri, err := canonicalURI(u.EscapedPath())
	if err != nil {
		return nil, err
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	pv, err := parsePresignValues(q)
	if err != nil {
		return nil, err
	}

	if now.Before(pv.time.Add(-MaxClockSkew)) {
		return nil, ErrNotYetValid
	}
	expiresAt := pv.time.Add(pv.expires)
	if now.After(expiresAt) {
		return nil, ErrExpired
	}

	creds, ok := store.Lookup(pv.accessKeyID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccessKey, pv.accessKeyID)
	}

	params := make([]QueryParam, 0, len(q))
	for k, vs := range q {
		if k == AmzSignatureKey {
			continue
		}
		if len(vs) != 1 {
			return nil, fmt.Errorf("%w: repeated query parameter %q", ErrMalformed, k)
		}
		params = append(params, QueryParam{Name: k, Value: vs[0]})
	}

	names := strings.Split(pv.signedHeaders, ";")
	signed := make(http.Header, len(names))
	for _, name := range names {
		if name == hostHeader {
			continue
		}
		vs := header.Values(name)
		if len(vs) == 0 {
			return nil, fmt.Errorf("%w: signed header %q not sent", ErrMalformed, name)
		}
		signed[http.CanonicalHeaderKey(name)] = vs
	}

	cr, err := BuildCanonicalRequest(SigningRequest{
		Method:  method,
		Scheme:  scheme,
		Host:    host,
		Query:   params,
		Headers: signed,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	cr.URI = uri
	if cr.SignedHeaders != pv.signedHeaders {
		return nil, fmt.Errorf("%w: signed headers %q are not canonical", ErrMalformed, pv.signedHeaders)
	}

	expected := Sign(cr, creds, pv.time, pv.region, pv.service)
	if !hmac.Equal([]byte(expected), []byte(pv.signature)) {
		return nil, ErrSignatureMismatch
	}

	return &Verification{
		AccessKeyID:   pv.accessKeyID,
		Region:        pv.region,
		Service:       pv.service,
		SignedAt:      pv.time.Time,
		ExpiresAt:     expiresAt,
		SignedHeaders: names,
	}, nil
}
