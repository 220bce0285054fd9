package signer

import (
	"crypto/hmac"
	"crypto/sha256"
)

// DeriveSigningKey performs the SigV4 key derivation:
//   - kDate = HMAC-SHA256("AWS4" + secret, date)
//   - kRegion = HMAC-SHA256(kDate, region)
//   - kService = HMAC-SHA256(kRegion, service)
//   - kSigning = HMAC-SHA256(kService, "aws4_request")
//
// The key is derived fresh on every call and never cached. Callers should
// clear the returned slice once the signature is computed.
// Reference: AWS SDK v4 signer internal/v4/cache.go deriveKey function
func DeriveSigningKey(secret string, t SigningTime, region, service string) []byte {
	seed := make([]byte, 0, len(keyPrefix)+len(secret))
	seed = append(seed, keyPrefix...)
	seed = append(seed, secret...)

	kDate := HMACSHA256(seed, []byte(t.ShortTimeFormat()))
	clear(seed)
	kRegion := HMACSHA256(kDate, []byte(region))
	clear(kDate)
	kService := HMACSHA256(kRegion, []byte(service))
	clear(kRegion)
	kSigning := HMACSHA256(kService, []byte(scopeTerminator))
	clear(kService)
	return kSigning
}

// HMACSHA256 computes HMAC-SHA256 of data with the given key.
// Reference: AWS SDK v4 signer internal/v4/hmac.go HMACSHA256
func HMACSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
