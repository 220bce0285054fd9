package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/forestrie/go-presign/internal/metrics"
	"github.com/forestrie/go-presign/signer"
)

var (
	errNoKey         = errors.New("key or filename is required")
	errNoURL         = errors.New("url is required")
	errExtension     = errors.New("file extension is not allowed")
	errFileTooLarge  = errors.New("file exceeds the maximum size")
	errNegativeValue = errors.New("expires_in and size must not be negative")
)

// PresignRequest asks for a URL authorizing one request on the bucket.
type PresignRequest struct {
	Method string `json:"method"`

	// Key addresses an existing object. Filename generates a unique upload
	// key instead.
	Key      string `json:"key,omitempty"`
	Filename string `json:"filename,omitempty"`

	ExpiresIn   int    `json:"expires_in,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// Bind implements render.Binder.
func (p *PresignRequest) Bind(r *http.Request) error {
	p.Method = strings.ToUpper(strings.TrimSpace(p.Method))
	if p.Method == "" {
		p.Method = http.MethodPut
	}
	if p.Key == "" && p.Filename == "" {
		return errNoKey
	}
	if p.ExpiresIn < 0 || p.Size < 0 {
		return errNegativeValue
	}
	return nil
}

func (p *PresignRequest) isUpload() bool {
	return p.Method == http.MethodPut || p.Method == http.MethodPost
}

// PresignResponse carries the URL and the headers the client must send.
type PresignResponse struct {
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Key       string            `json:"key"`
	Bucket    string            `json:"bucket"`
	ExpiresAt time.Time         `json:"expires_at"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// Presign handles POST /v1/presign.
func (s *Server) Presign(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req PresignRequest
	if err := render.Bind(r, &req); err != nil {
		s.metrics.ObservePresign(req.Method, metrics.OutcomeInvalid, 0)
		render.Render(w, r, errBadRequest(err))
		return
	}

	if err := s.checkUpload(&req); err != nil {
		s.metrics.ObservePresign(req.Method, metrics.OutcomeInvalid, 0)
		render.Render(w, r, errBadRequest(err))
		return
	}

	key := req.Key
	if key == "" {
		var err error
		if key, err = s.keys.Key(req.Filename); err != nil {
			s.metrics.ObservePresign(req.Method, metrics.OutcomeInvalid, 0)
			render.Render(w, r, errBadRequest(err))
			return
		}
	}

	expires := s.upload.DefaultExpires()
	if req.ExpiresIn > 0 {
		expires = time.Duration(req.ExpiresIn) * time.Second
	}

	var headers http.Header
	if req.ContentType != "" && req.isUpload() {
		headers = http.Header{"Content-Type": {req.ContentType}}
	}

	u, err := s.presigner.PresignObject(s.creds, signer.ObjectRequest{
		Method:  req.Method,
		Bucket:  s.bucket,
		Key:     key,
		Region:  s.region,
		Expires: expires,
		Headers: headers,
	})
	log := s.log.WithFields(logrus.Fields{
		"method": req.Method,
		"bucket": s.bucket,
		"key":    key,
	})
	if err != nil {
		if signer.IsValidationError(err) {
			s.metrics.ObservePresign(req.Method, metrics.OutcomeInvalid, 0)
			render.Render(w, r, errBadRequest(err))
			return
		}
		s.metrics.ObservePresign(req.Method, metrics.OutcomeError, 0)
		log.WithError(err).Error("presign failed")
		render.Render(w, r, errInternal())
		return
	}
	s.metrics.ObservePresign(u.Method, metrics.OutcomeOK, time.Since(start))
	log.WithField("expires_at", u.ExpiresAt).Info("issued presigned URL")

	resp := PresignResponse{
		URL:       u.URL,
		Method:    u.Method,
		Key:       key,
		Bucket:    s.bucket,
		ExpiresAt: u.ExpiresAt,
	}
	if len(u.SignedHeaders) > 0 {
		resp.Headers = make(map[string]string, len(u.SignedHeaders))
		for k := range u.SignedHeaders {
			resp.Headers[k] = u.SignedHeaders.Get(k)
		}
	}
	render.JSON(w, r, resp)
}

// checkUpload applies the upload guardrails to PUT and POST requests.
func (s *Server) checkUpload(req *PresignRequest) error {
	if !req.isUpload() {
		return nil
	}
	name := req.Filename
	if name == "" {
		name = req.Key
	}
	if !s.upload.ExtensionAllowed(name) {
		return fmt.Errorf("%w: %q", errExtension, name)
	}
	if limit := s.upload.MaxFileSize(); limit > 0 && req.Size > limit {
		return fmt.Errorf("%w of %d MB", errFileTooLarge, s.upload.MaxFileSizeMB)
	}
	return nil
}

// VerifyRequest asks whether a URL would be accepted for method and headers.
type VerifyRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Bind implements render.Binder.
func (v *VerifyRequest) Bind(r *http.Request) error {
	v.Method = strings.ToUpper(strings.TrimSpace(v.Method))
	if v.Method == "" {
		v.Method = http.MethodGet
	}
	if v.URL == "" {
		return errNoURL
	}
	return nil
}

// VerifyResponse describes an accepted URL.
type VerifyResponse struct {
	Valid       bool      `json:"valid"`
	AccessKeyID string    `json:"access_key_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Verify handles POST /v1/verify.
func (s *Server) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := render.Bind(r, &req); err != nil {
		s.metrics.ObserveVerify(metrics.OutcomeInvalid)
		render.Render(w, r, errBadRequest(err))
		return
	}

	header := make(http.Header, len(req.Headers))
	for k, v := range req.Headers {
		header.Set(k, v)
	}

	v, err := signer.VerifyURL(req.Method, req.URL, header, s.store, s.now())
	if err != nil {
		if signer.IsVerificationError(err) {
			s.metrics.ObserveVerify(metrics.OutcomeRejected)
			s.log.WithError(err).WithField("method", req.Method).Info("rejected presigned URL")
			render.Render(w, r, errRejected(err))
			return
		}
		s.metrics.ObserveVerify(metrics.OutcomeError)
		s.log.WithError(err).Error("verify failed")
		render.Render(w, r, errInternal())
		return
	}

	s.metrics.ObserveVerify(metrics.OutcomeOK)
	render.JSON(w, r, VerifyResponse{
		Valid:       true,
		AccessKeyID: v.AccessKeyID,
		ExpiresAt:   v.ExpiresAt,
	})
}
