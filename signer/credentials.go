package signer

import "fmt"

// Credentials holds the key pair used to sign a request.
// The engine reads them for the duration of one call and never keeps them.
type Credentials struct {
	// AccessKeyID is the AWS access key ID.
	AccessKeyID string

	// SecretAccessKey is the AWS secret access key. It is never logged.
	SecretAccessKey string

	// SessionToken is the optional token of temporary credentials. When set it
	// is signed into the URL as X-Amz-Security-Token.
	SessionToken string
}

// Validate checks that the access key and secret are set.
func (c Credentials) Validate() error {
	if c.AccessKeyID == "" {
		return fmt.Errorf("%w: access key ID is required", ErrMissingCredential)
	}
	if c.SecretAccessKey == "" {
		return fmt.Errorf("%w: secret access key is required", ErrMissingCredential)
	}
	return nil
}

// String redacts the secret and session token.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{AccessKeyID: %q, SecretAccessKey: %s, SessionToken: %s}",
		c.AccessKeyID, redact(c.SecretAccessKey), redact(c.SessionToken))
}

// GoString redacts the secret for %#v as well.
func (c Credentials) GoString() string {
	return c.String()
}

func redact(s string) string {
	if s == "" {
		return `""`
	}
	return "<redacted>"
}
