package signer

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CredentialScope builds the SigV4 credential scope.
// Format: date/region/service/aws4_request
// Reference: AWS SDK v4 signer internal/v4/scope.go
func CredentialScope(t SigningTime, region, service string) string {
	return strings.Join([]string{
		t.ShortTimeFormat(),
		region,
		service,
		scopeTerminator,
	}, "/")
}

// StringToSign builds the string to sign.
// Format: ALGORITHM\nTIMESTAMP\nSCOPE\nHEX(SHA256(CANONICAL_REQUEST))
// Reference: AWS SDK v4 signer v4.go buildStringToSign
func StringToSign(cr CanonicalRequest, t SigningTime, credentialScope string) string {
	hash := sha256.Sum256([]byte(cr.String()))
	return strings.Join([]string{
		SigningAlgorithm,
		t.TimeFormat(),
		credentialScope,
		hex.EncodeToString(hash[:]),
	}, "\n")
}

// Sign returns the lowercase hex signature of cr. It never fails: empty
// credentials or fields still produce a well-formed signature, and checking
// them is the caller's job.
func Sign(cr CanonicalRequest, creds Credentials, t SigningTime, region, service string) string {
	key := DeriveSigningKey(creds.SecretAccessKey, t, region, service)
	defer clear(key)

	sts := StringToSign(cr, t, CredentialScope(t, region, service))
	return hex.EncodeToString(HMACSHA256(key, []byte(sts)))
}
