package oss

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// authScheme is the Authorization scheme name. The service matches
	// the scheme, the following space, and the ":" separator literally.
	authScheme = "OSS"

	// ossHeaderPrefix marks the vendor metadata headers that take part
	// in signing. Matching happens on the lower-cased header name.
	ossHeaderPrefix = "x-oss-"

	headerAuthorization = "Authorization"
	headerContentMD5    = "Content-MD5"
	headerContentType   = "Content-Type"
	headerDate          = "Date"
	headerCopySource    = "x-oss-copy-source"

	// defaultContentType is applied to body-carrying requests whose
	// caller did not choose a type.
	defaultContentType = "application/octet-stream"
)

// subresources is the closed set of query parameter names that take
// part in the signature. Names outside this set still reach the
// request URL but never the canonical string; the service applies the
// same split when it recomputes the signature.
var subresources = map[string]bool{
	"acl":                          true,
	"append":                       true,
	"asyncfetch":                   true,
	"bucketinfo":                   true,
	"callback":                     true,
	"callback-var":                 true,
	"cname":                        true,
	"comp":                         true,
	"continuation-token":           true,
	"cors":                         true,
	"delete":                       true,
	"endtime":                      true,
	"inventory":                    true,
	"inventoryid":                  true,
	"lifecycle":                    true,
	"live":                         true,
	"location":                     true,
	"logging":                      true,
	"objectmeta":                   true,
	"partnumber":                   true,
	"position":                     true,
	"qos":                          true,
	"referer":                      true,
	"replication":                  true,
	"replicationlocation":          true,
	"replicationprogress":          true,
	"response-cache-control":       true,
	"response-content-disposition": true,
	"response-content-encoding":    true,
	"response-content-language":    true,
	"response-content-type":        true,
	"response-expires":             true,
	"restore":                      true,
	"security-token":               true,
	"sequential":                   true,
	"starttime":                    true,
	"stat":                         true,
	"status":                       true,
	"symlink":                      true,
	"tagging":                      true,
	"transferacceleration":         true,
	"uploadid":                     true,
	"uploads":                      true,
	"vod":                          true,
	"website":                      true,
	"worm":                         true,
	"wormextend":                   true,
	"wormid":                       true,
	"x-oss-process":                true,
	"x-oss-rename":                 true,
}

// lowerHeaders folds a header map to lower-cased names. When names
// differ only in case their values are joined with commas in sorted
// order, so the view is deterministic regardless of map iteration
// order. Every name and value must be valid UTF-8.
func lowerHeaders(headers map[string]string) (map[string]string, error) {
	grouped := make(map[string][]string, len(headers))
	for name, value := range headers {
		if !utf8.ValidString(name) {
			return nil, &EncodingError{Field: "header name", Value: name}
		}
		if !utf8.ValidString(value) {
			return nil, &EncodingError{Field: "header value", Value: value}
		}
		lower := strings.ToLower(name)
		grouped[lower] = append(grouped[lower], value)
	}

	lowered := make(map[string]string, len(grouped))
	for name, values := range grouped {
		sort.Strings(values)
		lowered[name] = strings.Join(values, ",")
	}
	return lowered, nil
}

// CanonicalString assembles the string to sign for one request:
//
//	VERB "\n" Content-MD5 "\n" Content-Type "\n" Date "\n"
//	CanonicalizedOSSHeaders CanonicalizedResource
//
// The three standard headers are looked up case-insensitively and
// render as empty strings when absent. CanonicalizedOSSHeaders lists
// every header whose lower-cased name starts with "x-oss-", sorted
// bytewise, one "name:value\n" line each. CanonicalizedResource is
// "/bucket/object" ("/bucket/" for bucket-level requests, "/" when no
// bucket is addressed) followed by the signed sub-resources: names on
// the allowlist, sorted bytewise, joined with "&" after a "?", values
// carried raw.
//
// Every input must be valid UTF-8 or an EncodingError is returned.
// The input maps are never modified.
func CanonicalString(verb, bucket, object string, headers map[string]string, resources map[string]*string) (string, error) {
	if !utf8.ValidString(verb) {
		return "", &EncodingError{Field: "verb", Value: verb}
	}
	if !utf8.ValidString(bucket) {
		return "", &EncodingError{Field: "bucket", Value: bucket}
	}
	if !utf8.ValidString(object) {
		return "", &EncodingError{Field: "object", Value: object}
	}

	lowered, err := lowerHeaders(headers)
	if err != nil {
		return "", err
	}

	ossNames := make([]string, 0, len(lowered))
	for name := range lowered {
		if strings.HasPrefix(name, ossHeaderPrefix) {
			ossNames = append(ossNames, name)
		}
	}
	sort.Strings(ossNames)

	resource, err := canonicalResource(bucket, object, resources)
	if err != nil {
		return "", err
	}

	var canonical strings.Builder
	canonical.WriteString(verb)
	canonical.WriteByte('\n')
	canonical.WriteString(lowered["content-md5"])
	canonical.WriteByte('\n')
	canonical.WriteString(lowered["content-type"])
	canonical.WriteByte('\n')
	canonical.WriteString(lowered["date"])
	canonical.WriteByte('\n')
	for _, name := range ossNames {
		canonical.WriteString(name)
		canonical.WriteByte(':')
		canonical.WriteString(lowered[name])
		canonical.WriteByte('\n')
	}
	canonical.WriteString(resource)
	return canonical.String(), nil
}

// canonicalResource renders the resource component of the string to
// sign. Sub-resource values are signed raw, without percent-encoding;
// a nil value renders as the bare parameter name.
func canonicalResource(bucket, object string, resources map[string]*string) (string, error) {
	var resource strings.Builder
	resource.WriteByte('/')
	if bucket != "" {
		resource.WriteString(bucket)
		resource.WriteByte('/')
		resource.WriteString(object)
	}

	signed := make([]string, 0, len(resources))
	for name, value := range resources {
		if !utf8.ValidString(name) {
			return "", &EncodingError{Field: "resource name", Value: name}
		}
		if value != nil && !utf8.ValidString(*value) {
			return "", &EncodingError{Field: "resource value", Value: *value}
		}
		if subresources[name] {
			signed = append(signed, name)
		}
	}
	sort.Strings(signed)

	for i, name := range signed {
		if i == 0 {
			resource.WriteByte('?')
		} else {
			resource.WriteByte('&')
		}
		resource.WriteString(name)
		if value := resources[name]; value != nil {
			resource.WriteByte('=')
			resource.WriteString(*value)
		}
	}
	return resource.String(), nil
}

// Sign computes the signature of a canonical string: HMAC-SHA1 keyed
// with the access key secret, standard base64. The secret must be
// non-empty, valid UTF-8; anything else returns a CredentialError.
func Sign(canonical, secret string) (string, error) {
	if secret == "" {
		return "", &CredentialError{Reason: "empty access key secret"}
	}
	if !utf8.ValidString(secret) {
		return "", &CredentialError{Reason: "access key secret is not valid UTF-8"}
	}
	mac := hmac.New(sha1.New, []byte(secret))
	_, _ = mac.Write([]byte(canonical))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// AuthorizationHeader renders the Authorization value for a computed
// signature.
func AuthorizationHeader(accessKeyID, signature string) string {
	return authScheme + " " + accessKeyID + ":" + signature
}
