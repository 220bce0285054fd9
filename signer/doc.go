/*
Package signer builds AWS Signature Version 4 presigned URLs for object storage
without a vendor SDK. See the authoritative documentation at
https://docs.aws.amazon.com/AmazonS3/latest/API/sigv4-query-string-auth.html.

Presigning runs in three steps, each a pure function of its inputs.

Step 1, canonicalize (BuildCanonicalRequest): build
`<METHOD>\n<URI>\n<QUERY>\n<HEADERS>\n<SIGNED_HEADERS>\nUNSIGNED-PAYLOAD`.

  - `URI`: the object key with every byte outside `A-Z a-z 0-9 - _ . ~`
    percent-encoded. `/` is kept only as the segment separator, space is `%20`.
  - `QUERY`: every parameter, including the X-Amz-* presign parameters but not
    X-Amz-Signature, encoded with the same table plus `/`, sorted by encoded name.
  - `HEADERS`: `host:<host>\n`, plus any extra header the caller asked to sign.

Step 2, sign (Sign): hash the canonical request into the string to sign
`AWS4-HMAC-SHA256\n<TIMESTAMP>\n<DATE>/<REGION>/<SERVICE>/aws4_request\n<HASH>`
and HMAC it with the key derived by DeriveSigningKey:

	kDate    = hmacsha256("AWS4"+Secret, Date)
	kRegion  = hmacsha256(kDate, Region)
	kService = hmacsha256(kRegion, Service)
	kSigning = hmacsha256(kService, "aws4_request")
	sig      = hex(hmacsha256(kSigning, StringToSign))

Step 3, assemble (Presign): render `https://<host><URI>?<QUERY>&X-Amz-Signature=<sig>`.
The query in the URL is the canonical query verbatim; nothing is re-encoded
after signing.

Verify runs the same steps backwards for services that accept presigned URLs.
*/
package signer
