package oss

import (
	"fmt"
)

// Operation names carried by StatusError.
const (
	OpListObjects  = "ListObjects"
	OpGetObject    = "GetObject"
	OpGetObjectACL = "GetObjectACL"
	OpPutObject    = "PutObject"
	OpCopyObject   = "CopyObject"
	OpDeleteObject = "DeleteObject"
	OpListBuckets  = "ListBuckets"
)

// EncodingError reports caller input that cannot be put on the wire:
// a string that is not valid UTF-8, a header name that is not an HTTP
// token, or a header value containing bytes outside printable ASCII.
type EncodingError struct {
	// Field names what was being encoded, for example "header name"
	// or "verb".
	Field string

	// Value is the offending input, verbatim.
	Value string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("oss: %s cannot be encoded: %#v", e.Field, e.Value)
}

// CredentialError reports an access key pair that cannot be used for
// signing, such as an empty or non-UTF-8 secret.
type CredentialError struct {
	Reason string
}

func (e *CredentialError) Error() string {
	return "oss: unusable credential: " + e.Reason
}

// MalformedListingError reports an XML response that could not be
// decoded. Element is the element being read when decoding failed,
// or empty when the token stream itself was broken.
type MalformedListingError struct {
	Element string
	Reason  string
}

func (e *MalformedListingError) Error() string {
	if e.Element == "" {
		return "oss: malformed listing: " + e.Reason
	}
	return fmt.Sprintf("oss: malformed listing: element %s: %s", e.Element, e.Reason)
}

// StatusError reports a response with a status code outside the 2xx
// range. The body has already been drained and discarded when a
// StatusError is returned; StatusCode is kept verbatim so callers can
// distinguish, for example, a missing object from a throttled request.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("oss: %s failed with status %d", e.Op, e.StatusCode)
}
