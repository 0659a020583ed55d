// Package oss is a client library for OSS-style object storage
// services that authenticate requests with the V1 header signature:
// HMAC-SHA1 over a canonical rendering of the request, carried in the
// Authorization header as "OSS AccessKeyID:Signature".
//
// This is the client-side counterpart of the scheme described at
// https://www.alibabacloud.com/help/en/oss/developer-reference/include-signatures-in-the-authorization-header.
//
// A Client is bound to one endpoint and one bucket. Every operation
// takes a context, accepts optional extra headers and query
// parameters, and builds its request deterministically: the same
// inputs always produce the same URL, headers, and signature. Query
// parameters are split into signed sub-resources (a closed, documented
// set of names) and pass-through parameters that appear on the URL
// only.
//
// The HTTP transport is injectable, so the library works against test
// doubles and instrumented clients as well as a plain *http.Client.
package oss

import (
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/palantir/stacktrace"
	"github.com/sirupsen/logrus"
)

// Doer executes one finished HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Credential is the access key pair used for signing. Formatting a
// Credential with the fmt package redacts the secret; only the signing
// step ever reads it.
type Credential struct {
	AccessKeyID     string
	AccessKeySecret string
}

// String implements fmt.Stringer with the secret redacted.
func (c Credential) String() string {
	return c.AccessKeyID + ":****"
}

// GoString implements fmt.GoStringer so that %#v does not reveal the
// secret either.
func (c Credential) GoString() string {
	return "oss.Credential{AccessKeyID: " + strconv.Quote(c.AccessKeyID) + ", AccessKeySecret: \"****\"}"
}

func (c Credential) validate() error {
	if c.AccessKeyID == "" {
		return &CredentialError{Reason: "empty access key ID"}
	}
	if c.AccessKeySecret == "" {
		return &CredentialError{Reason: "empty access key secret"}
	}
	if !utf8.ValidString(c.AccessKeySecret) {
		return &CredentialError{Reason: "access key secret is not valid UTF-8"}
	}
	return nil
}

// Client issues signed requests against one bucket behind one
// endpoint. All fields are fixed at construction, so a Client is safe
// for concurrent use.
type Client struct {
	scheme    string
	host      string
	bucket    string
	cred      Credential
	pathStyle bool

	httpClient Doer
	logger     logrus.FieldLogger
}

// Option adjusts a Client during New.
type Option func(*Client)

// WithHTTPClient injects the transport that executes requests. The
// default is a plain &http.Client{}.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.httpClient = d }
}

// WithLogger routes the client's debug logging to the given logger.
// The default is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.logger = l }
}

// WithPathStyle addresses the bucket as the leading path segment
// ("host/bucket/object") instead of a virtual-hosted subdomain
// ("bucket.host/object"). Signing is identical either way.
func WithPathStyle() Option {
	return func(c *Client) { c.pathStyle = true }
}

// New returns a Client for one bucket behind the given endpoint. The
// endpoint is "scheme://host[:port]" or a bare host, which defaults to
// https. An empty bucket restricts the Client to service-level calls
// such as ListBuckets.
func New(endpoint, bucket string, cred Credential, opts ...Option) (*Client, error) {
	scheme, host, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	if err := cred.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		scheme:     scheme,
		host:       host,
		bucket:     bucket,
		cred:       cred,
		httpClient: &http.Client{},
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Bucket returns the bucket the Client is bound to.
func (c *Client) Bucket() string {
	return c.bucket
}

// splitEndpoint parses an endpoint into scheme and host. Only http and
// https are accepted, and the endpoint must be a bare authority: no
// path, query, or fragment.
func splitEndpoint(endpoint string) (string, string, error) {
	raw := strings.TrimSpace(endpoint)
	if raw == "" {
		return "", "", stacktrace.NewError("Endpoint must not be empty")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", stacktrace.Propagate(err, "Invalid endpoint %#v", endpoint)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", stacktrace.NewError("Unsupported endpoint scheme %#v", u.Scheme)
	}
	if u.Host == "" || (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return "", "", stacktrace.NewError("Endpoint must be a bare host: %#v", endpoint)
	}
	return u.Scheme, u.Host, nil
}

// hostURL returns the base URL addressing the given bucket, without a
// trailing slash. An empty bucket addresses the service endpoint
// itself.
func (c *Client) hostURL(bucket string) string {
	if bucket == "" {
		return c.scheme + "://" + c.host
	}
	if c.pathStyle {
		return c.scheme + "://" + c.host + "/" + bucket
	}
	return c.scheme + "://" + bucket + "." + c.host
}

// lookupHeader returns the value stored under name, matching
// case-insensitively the way header sets do. Missing names return "".
func lookupHeader(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// queryString serializes the complete parameter set for the request
// URL: every name sorted bytewise, names and values percent-encoded,
// nil values rendering as the bare name. Unlike the canonical string
// this includes parameters outside the sub-resource allowlist.
func queryString(resources map[string]*string) string {
	if len(resources) == 0 {
		return ""
	}
	names := make([]string, 0, len(resources))
	for name := range resources {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		if value := resources[name]; value != nil {
			parts = append(parts, encodeQuery(name)+"="+encodeQuery(*value))
		} else {
			parts = append(parts, encodeQuery(name))
		}
	}
	return strings.Join(parts, "&")
}

// BuildRequest finalizes the addressing and headers for one request
// against the Client's bucket: the caller's headers are copied, Date
// is defaulted to the current time in RFC 1123 GMT form when absent,
// PUT and POST requests get a default Content-Type, and the
// Authorization header is computed from the canonical string. The
// returned URL carries the complete parameter set while the signature
// covers only recognized sub-resources. The caller's maps are never
// modified.
func (c *Client) BuildRequest(verb, object string, headers map[string]string, resources map[string]*string) (string, http.Header, error) {
	return c.buildRequest(verb, c.bucket, object, headers, resources)
}

func (c *Client) buildRequest(verb, bucket, object string, headers map[string]string, resources map[string]*string) (string, http.Header, error) {
	prepared := make(map[string]string, len(headers)+2)
	for name, value := range headers {
		prepared[name] = value
	}
	if lookupHeader(prepared, headerDate) == "" {
		prepared[headerDate] = time.Now().UTC().Format(http.TimeFormat)
	}
	if (verb == http.MethodPut || verb == http.MethodPost) && lookupHeader(prepared, headerContentType) == "" {
		prepared[headerContentType] = defaultContentType
	}

	finalized, err := toHeaders(prepared)
	if err != nil {
		return "", nil, err
	}

	canonical, err := CanonicalString(verb, bucket, object, prepared, resources)
	if err != nil {
		return "", nil, err
	}
	c.logger.Debugf("string to sign: %q", canonical)

	signature, err := Sign(canonical, c.cred.AccessKeySecret)
	if err != nil {
		return "", nil, err
	}
	finalized.Set(headerAuthorization, AuthorizationHeader(c.cred.AccessKeyID, signature))

	requestURL := c.hostURL(bucket)
	if object != "" {
		requestURL += "/" + encodePath(object)
	}
	if qs := queryString(resources); qs != "" {
		requestURL += "?" + qs
	}
	return requestURL, finalized, nil
}
