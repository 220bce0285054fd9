package signer

// Signature Version 4 (SigV4) query-string authentication constants.
// Reference: https://docs.aws.amazon.com/AmazonS3/latest/API/sigv4-query-string-auth.html

const (
	// SigningAlgorithm is the SigV4 signing algorithm identifier.
	SigningAlgorithm = "AWS4-HMAC-SHA256"

	// UnsignedPayload is the payload hash sentinel used by presigned URLs.
	// The body does not exist yet when the URL is generated.
	UnsignedPayload = "UNSIGNED-PAYLOAD"

	// AmzAlgorithmKey is the query parameter key for signing algorithm.
	AmzAlgorithmKey = "X-Amz-Algorithm"

	// AmzCredentialKey is the query parameter key for credentials.
	// Format: ACCESS_KEY_ID/YYYYMMDD/REGION/SERVICE/aws4_request
	AmzCredentialKey = "X-Amz-Credential"

	// AmzDateKey is the query key for the request timestamp.
	// Format: YYYYMMDDTHHMMSSZ (e.g., 20231201T120000Z)
	AmzDateKey = "X-Amz-Date"

	// AmzExpiresKey is the query key for the validity window in seconds.
	AmzExpiresKey = "X-Amz-Expires"

	// AmzSignedHeadersKey is the query parameter key for signed headers.
	AmzSignedHeadersKey = "X-Amz-SignedHeaders"

	// AmzSecurityTokenKey carries the session token of temporary credentials.
	AmzSecurityTokenKey = "X-Amz-Security-Token"

	// AmzSignatureKey is the query parameter key for the signature.
	AmzSignatureKey = "X-Amz-Signature"

	// TimeFormat is the time format for X-Amz-Date.
	// Format: YYYYMMDDTHHMMSSZ
	TimeFormat = "20060102T150405Z"

	// ShortTimeFormat is the shortened time format for credential scope.
	// Format: YYYYMMDD
	ShortTimeFormat = "20060102"

	// keyPrefix is prepended to the secret to seed the key derivation chain.
	keyPrefix = "AWS4"

	// scopeTerminator closes every credential scope.
	scopeTerminator = "aws4_request"

	// MaxExpires is the longest validity window SigV4 accepts (7 days), in seconds.
	MaxExpires = 604800

	// DefaultService is the object storage service name.
	DefaultService = "s3"

	// DefaultDomain is the service domain used to derive virtual hosts.
	DefaultDomain = "amazonaws.com"

	// DefaultScheme is the scheme of rendered URLs.
	DefaultScheme = "https"
)

// presignKeys lists the query parameters the assembler owns. Callers may not
// supply them through SigningRequest.Query.
var presignKeys = []string{
	AmzAlgorithmKey,
	AmzCredentialKey,
	AmzDateKey,
	AmzExpiresKey,
	AmzSignedHeadersKey,
	AmzSecurityTokenKey,
	AmzSignatureKey,
}
