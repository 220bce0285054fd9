package signer

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// PresignedURL is a URL that authorizes exactly one request until ExpiresAt.
type PresignedURL struct {
	// URL is the complete presigned URL.
	URL string

	// Method is the only HTTP method the URL authorizes.
	Method string

	// Signature is the hex-encoded X-Amz-Signature value.
	Signature string

	// SignedHeaders lists headers, other than Host, the client must send
	// unchanged for the signature to hold.
	SignedHeaders http.Header

	// ExpiresAt is the end of the validity window.
	ExpiresAt time.Time
}

// String returns the URL.
func (p PresignedURL) String() string {
	return p.URL
}

// Presign builds a presigned URL for req. A zero req.Time means now.
func Presign(req SigningRequest, creds Credentials) (PresignedURL, error) {
	return presign(req, creds, time.Now)
}

func presign(req SigningRequest, creds Credentials, now func() time.Time) (PresignedURL, error) {
	if err := creds.Validate(); err != nil {
		return PresignedURL{}, err
	}
	method, err := normalizeMethod(req.Method)
	if err != nil {
		return PresignedURL{}, err
	}
	secs, err := expiresSeconds(req.Expires)
	if err != nil {
		return PresignedURL{}, err
	}
	if req.Host == "" {
		return PresignedURL{}, fmt.Errorf("%w: host is required", ErrInvalidRequest)
	}
	if req.Region == "" {
		return PresignedURL{}, fmt.Errorf("%w: region is required", ErrInvalidRequest)
	}
	for _, p := range req.Query {
		if isPresignKey(p.Name) {
			return PresignedURL{}, fmt.Errorf("%w: %q is set by the signer", ErrInvalidParameter, p.Name)
		}
	}

	ts := req.Time
	if ts.IsZero() {
		ts = now()
	}
	t := NewSigningTime(ts)
	scheme := req.scheme()
	service := req.service()
	scope := CredentialScope(t, req.Region, service)

	signedHeaders, _, err := buildCanonicalHeaders(canonicalHost(scheme, req.Host), req.Headers)
	if err != nil {
		return PresignedURL{}, err
	}

	query := make([]QueryParam, 0, len(req.Query)+6)
	query = append(query, req.Query...)
	query = append(query,
		QueryParam{AmzAlgorithmKey, SigningAlgorithm},
		QueryParam{AmzCredentialKey, creds.AccessKeyID + "/" + scope},
		QueryParam{AmzDateKey, t.TimeFormat()},
		QueryParam{AmzExpiresKey, strconv.FormatInt(secs, 10)},
		QueryParam{AmzSignedHeadersKey, signedHeaders},
	)
	if creds.SessionToken != "" {
		query = append(query, QueryParam{AmzSecurityTokenKey, creds.SessionToken})
	}

	signing := req
	signing.Method = method
	signing.Scheme = scheme
	signing.Service = service
	signing.Query = query

	cr, err := BuildCanonicalRequest(signing)
	if err != nil {
		return PresignedURL{}, err
	}
	signature := Sign(cr, creds, t, req.Region, service)

	// The rendered query is the canonical query itself, so nothing is
	// re-encoded between signing and assembly.
	var u strings.Builder
	u.Grow(len(scheme) + 3 + len(req.Host) + len(cr.URI) + len(cr.Query) + len(AmzSignatureKey) + len(signature) + 3)
	u.WriteString(scheme)
	u.WriteString("://")
	u.WriteString(req.Host)
	u.WriteString(cr.URI)
	u.WriteByte('?')
	u.WriteString(cr.Query)
	u.WriteByte('&')
	u.WriteString(AmzSignatureKey)
	u.WriteByte('=')
	u.WriteString(signature)

	// buildCanonicalHeaders rejected case-variant names, so keys map one to one.
	headers := make(http.Header, len(req.Headers))
	for k, v := range req.Headers {
		headers[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}

	return PresignedURL{
		URL:           u.String(),
		Method:        method,
		Signature:     signature,
		SignedHeaders: headers,
		ExpiresAt:     t.Time.Add(time.Duration(secs) * time.Second),
	}, nil
}

// ObjectRequest names an object and the action a URL should authorize.
type ObjectRequest struct {
	Method  string
	Bucket  string
	Key     string
	Region  string
	Expires time.Duration
	Query   []QueryParam
	Headers http.Header
}

// Option is a functional option for configuring a Presigner.
type Option func(*Presigner)

// WithService sets the signing service name. Default is "s3".
func WithService(service string) Option {
	return func(p *Presigner) {
		p.service = service
	}
}

// WithDomain sets the domain used to derive virtual hosts.
// Default is "amazonaws.com".
func WithDomain(domain string) Option {
	return func(p *Presigner) {
		p.domain = domain
	}
}

// WithScheme sets the scheme of rendered URLs. Default is https.
func WithScheme(scheme string) Option {
	return func(p *Presigner) {
		p.scheme = scheme
	}
}

// WithEndpoint switches to path-style addressing against an S3-compatible
// endpoint such as MinIO or R2. The endpoint is host[:port], optionally
// prefixed with a scheme ("http://localhost:9000").
func WithEndpoint(endpoint string) Option {
	return func(p *Presigner) {
		if scheme, host, ok := strings.Cut(endpoint, "://"); ok {
			p.scheme = scheme
			endpoint = host
		}
		p.endpoint = strings.TrimSuffix(endpoint, "/")
	}
}

// WithClock replaces the wall clock used for X-Amz-Date.
func WithClock(now func() time.Time) Option {
	return func(p *Presigner) {
		p.now = now
	}
}

// Presigner turns object requests into presigned URLs. It holds immutable
// settings only and is safe for concurrent use.
type Presigner struct {
	service  string
	domain   string
	scheme   string
	endpoint string
	now      func() time.Time
}

// NewPresigner creates a Presigner with the given options.
func NewPresigner(opts ...Option) *Presigner {
	p := &Presigner{
		service: DefaultService,
		domain:  DefaultDomain,
		scheme:  DefaultScheme,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SigningRequest maps obj to the host and path it addresses.
func (p *Presigner) SigningRequest(obj ObjectRequest) (SigningRequest, error) {
	if obj.Bucket == "" {
		return SigningRequest{}, fmt.Errorf("%w: bucket is required", ErrInvalidRequest)
	}
	req := SigningRequest{
		Method:  obj.Method,
		Scheme:  p.scheme,
		Query:   obj.Query,
		Headers: obj.Headers,
		Region:  obj.Region,
		Service: p.service,
		Expires: obj.Expires,
	}
	if p.endpoint != "" {
		req.Host = p.endpoint
		req.Path = obj.Bucket + "/" + obj.Key
	} else {
		req.Host = VirtualHost(obj.Bucket, p.service, obj.Region, p.domain)
		req.Path = obj.Key
	}
	return req, nil
}

// PresignObject presigns obj with creds at the Presigner's current time.
func (p *Presigner) PresignObject(creds Credentials, obj ObjectRequest) (PresignedURL, error) {
	req, err := p.SigningRequest(obj)
	if err != nil {
		return PresignedURL{}, err
	}
	return presign(req, creds, p.now)
}
