package oss

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"sort"
	"strings"

	"github.com/palantir/stacktrace"
)

// loadFile reads the whole file at path into memory. Uploads send the
// complete payload in a single request, so there is no streaming
// variant.
func loadFile(path string) ([]byte, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, stacktrace.Propagate(err, "Failed to read %#v", path)
	}
	return data, nil
}

// isTokenByte indicates whether c is a tchar and thus allowed in an
// HTTP header field name.
func isTokenByte(c byte) bool {
	if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}

// checkHeader verifies that a name/value pair can be sent verbatim.
// The name must be a non-empty HTTP token; the value may contain only
// printable ASCII plus horizontal tab. A bad pair is reported as an
// EncodingError instead of being silently dropped or mangled.
func checkHeader(name, value string) error {
	if name == "" {
		return &EncodingError{Field: "header name", Value: name}
	}
	for i := 0; i < len(name); i++ {
		if !isTokenByte(name[i]) {
			return &EncodingError{Field: "header name", Value: name}
		}
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '\t' && (c < 0x20 || c > 0x7e) {
			return &EncodingError{Field: "header value", Value: value}
		}
	}
	return nil
}

// toHeaders converts a caller-supplied header map into an http.Header,
// validating every entry. Names that differ only in case collapse into
// one field whose value joins the inputs with commas, sorted, which
// keeps the result independent of map iteration order and in agreement
// with the signature. The input map is left untouched.
func toHeaders(headers map[string]string) (http.Header, error) {
	grouped := make(map[string][]string, len(headers))
	for name, value := range headers {
		if err := checkHeader(name, value); err != nil {
			return nil, err
		}
		key := http.CanonicalHeaderKey(name)
		grouped[key] = append(grouped[key], value)
	}
	finalized := make(http.Header, len(grouped)+2)
	for key, values := range grouped {
		sort.Strings(values)
		finalized[key] = []string{strings.Join(values, ",")}
	}
	return finalized, nil
}

// isUnreserved indicates whether c is in the RFC 3986 unreserved set:
// ALPHA / DIGIT / "-" / "." / "_" / "~".
func isUnreserved(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

// encodeQuery percent-encodes s for use as a query parameter name or
// value. Every byte outside the unreserved set becomes an upper-case
// percent escape; a space is %20, never "+".
func encodeQuery(s string) string {
	var result strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			result.WriteByte(c)
		} else {
			fmt.Fprintf(&result, "%%%02X", c)
		}
	}
	return result.String()
}

// encodePath percent-encodes an object key for use in a request path.
// Slashes separate key segments and pass through unencoded; within a
// segment every byte outside the unreserved set is escaped upper-case.
func encodePath(s string) string {
	var result strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '/' || isUnreserved(c) {
			result.WriteByte(c)
		} else {
			fmt.Fprintf(&result, "%%%02X", c)
		}
	}
	return result.String()
}
