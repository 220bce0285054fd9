package signer

import "errors"

// Signing errors. Returned errors wrap one of these; test with errors.Is.
var (
	// ErrInvalidExpiration is returned when the expiry is outside 1s..7 days.
	ErrInvalidExpiration = errors.New("presign: invalid expiration")

	// ErrMissingCredential is returned when the access key or secret is empty.
	ErrMissingCredential = errors.New("presign: missing credential")

	// ErrEncodingFailure is returned when an input field cannot be percent-encoded,
	// which only happens for byte sequences that are not valid UTF-8.
	ErrEncodingFailure = errors.New("presign: encoding failure")

	// ErrUnsupportedMethod is returned for methods other than GET, PUT, POST,
	// DELETE and HEAD.
	ErrUnsupportedMethod = errors.New("presign: unsupported method")

	// ErrInvalidParameter is returned for duplicate, empty or reserved query
	// parameter names and for headers that cannot be signed.
	ErrInvalidParameter = errors.New("presign: invalid parameter")

	// ErrInvalidRequest is returned when host, region or service is missing.
	ErrInvalidRequest = errors.New("presign: invalid request")
)

// Verification errors.
var (
	// ErrMalformed is returned when a URL lacks presign parameters or carries
	// values that do not parse.
	ErrMalformed = errors.New("presign: malformed presigned request")

	// ErrUnknownAccessKey is returned when the credentials store has no secret
	// for the access key in the credential scope.
	ErrUnknownAccessKey = errors.New("presign: unknown access key")

	// ErrExpired is returned when the validity window has passed.
	ErrExpired = errors.New("presign: URL has expired")

	// ErrNotYetValid is returned when X-Amz-Date lies too far in the future.
	ErrNotYetValid = errors.New("presign: URL is not yet valid")

	// ErrSignatureMismatch is returned when the recomputed signature differs.
	ErrSignatureMismatch = errors.New("presign: signature mismatch")
)

// IsValidationError reports whether err is caused by caller input to the
// signing engine rather than an internal defect.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidExpiration) ||
		errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrUnsupportedMethod) ||
		errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrInvalidRequest)
}

// IsVerificationError reports whether err means a presigned URL was rejected.
func IsVerificationError(err error) bool {
	return errors.Is(err, ErrMalformed) ||
		errors.Is(err, ErrUnknownAccessKey) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrNotYetValid) ||
		errors.Is(err, ErrSignatureMismatch)
}
