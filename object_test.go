package oss

import (
	"context"
	"errors"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/palantir/stacktrace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport records every request it executes and answers with a
// canned response.
type fakeTransport struct {
	status   int
	response string
	err      error

	requests []*http.Request
	bodies   []string
}

func (f *fakeTransport) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = ioutil.ReadAll(req.Body)
		_ = req.Body.Close()
	}
	f.requests = append(f.requests, req)
	f.bodies = append(f.bodies, string(body))

	if f.err != nil {
		return nil, f.err
	}
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       ioutil.NopCloser(strings.NewReader(f.response)),
	}, nil
}

func (f *fakeTransport) lastRequest(t *testing.T) *http.Request {
	t.Helper()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, transport Doer, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithHTTPClient(transport)}, opts...)
	client, err := New("oss.example.com", "mybucket", Credential{
		AccessKeyID:     "key-id",
		AccessKeySecret: "test-secret",
	}, opts...)
	require.NoError(t, err)
	return client
}

func TestGetObjectReturnsExactBytes(t *testing.T) {
	transport := &fakeTransport{response: "hello world"}
	client := newTestClient(t, transport)

	data, err := client.GetObject(context.Background(), "a.txt", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), data)

	req := transport.lastRequest(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "https://mybucket.oss.example.com/a.txt", req.URL.String())
	assert.NotEmpty(t, req.Header.Get("Date"))
	assert.True(t, strings.HasPrefix(req.Header.Get("Authorization"), "OSS key-id:"))
}

func TestGetObjectEmptyPayload(t *testing.T) {
	transport := &fakeTransport{response: ""}
	client := newTestClient(t, transport)

	data, err := client.GetObject(context.Background(), "empty.bin", nil, nil)
	require.NoError(t, err)
	assert.Len(t, data, 0)
}

func TestGetObjectNotFound(t *testing.T) {
	transport := &fakeTransport{status: http.StatusNotFound, response: "<Error/>"}
	client := newTestClient(t, transport)

	_, err := client.GetObject(context.Background(), "missing.txt", nil, nil)
	require.Error(t, err)

	statusErr, ok := err.(*StatusError)
	require.True(t, ok, "expected a StatusError, got %T", err)
	assert.Equal(t, OpGetObject, statusErr.Op)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestGetObjectTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	client := newTestClient(t, &fakeTransport{err: cause})

	_, err := client.GetObject(context.Background(), "a.txt", nil, nil)
	require.Error(t, err)
	assert.Equal(t, cause, stacktrace.RootCause(err))
}

func TestGetObjectPassThroughParameters(t *testing.T) {
	transport := &fakeTransport{}
	client := newTestClient(t, transport)

	_, err := client.GetObject(context.Background(), "a.txt", nil, map[string]*string{
		"response-content-type": String("text/plain"),
		"unrelated":             String("x"),
	})
	require.NoError(t, err)

	req := transport.lastRequest(t)
	assert.Equal(t,
		"https://mybucket.oss.example.com/a.txt?response-content-type=text%2Fplain&unrelated=x",
		req.URL.String())
}

func TestPutObjectComputesContentMD5(t *testing.T) {
	transport := &fakeTransport{}
	client := newTestClient(t, transport)

	err := client.PutObject(context.Background(), []byte("hello world"), "a.txt", nil, nil)
	require.NoError(t, err)

	req := transport.lastRequest(t)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "https://mybucket.oss.example.com/a.txt", req.URL.String())
	assert.Equal(t, "XrY7u+Ae7tCTyyK7j1rNww==", req.Header.Get("Content-MD5"))
	assert.Equal(t, "application/octet-stream", req.Header.Get("Content-Type"))
	assert.Equal(t, "hello world", transport.bodies[0])
}

func TestPutObjectKeepsCallerHeaders(t *testing.T) {
	transport := &fakeTransport{}
	client := newTestClient(t, transport)

	headers := map[string]string{
		"Content-MD5":  "precomputed==",
		"Content-Type": "text/plain",
	}
	err := client.PutObject(context.Background(), []byte("payload"), "a.txt", headers, nil)
	require.NoError(t, err)

	req := transport.lastRequest(t)
	assert.Equal(t, "precomputed==", req.Header.Get("Content-MD5"))
	assert.Equal(t, "text/plain", req.Header.Get("Content-Type"))
	assert.Equal(t, map[string]string{
		"Content-MD5":  "precomputed==",
		"Content-Type": "text/plain",
	}, headers)
}

func TestPutObjectStatusError(t *testing.T) {
	transport := &fakeTransport{status: http.StatusForbidden}
	client := newTestClient(t, transport)

	err := client.PutObject(context.Background(), []byte("x"), "a.txt", nil, nil)
	require.Error(t, err)

	statusErr, ok := err.(*StatusError)
	require.True(t, ok, "expected a StatusError, got %T", err)
	assert.Equal(t, OpPutObject, statusErr.Op)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}

func TestPutObjectFromFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "oss-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "upload.txt")
	require.NoError(t, ioutil.WriteFile(path, []byte("file payload"), 0644))

	transport := &fakeTransport{}
	client := newTestClient(t, transport)

	require.NoError(t, client.PutObjectFromFile(context.Background(), path, "upload.txt", nil, nil))
	assert.Equal(t, "file payload", transport.bodies[0])

	err = client.PutObjectFromFile(context.Background(), filepath.Join(dir, "missing.txt"), "x", nil, nil)
	assert.Error(t, err)
}

func TestCopyObjectSignsCopySource(t *testing.T) {
	transport := &fakeTransport{}
	client := newTestClient(t, transport)

	err := client.CopyObject(context.Background(), "/src-bucket/src.txt", "dst.txt", nil, nil)
	require.NoError(t, err)

	req := transport.lastRequest(t)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "https://mybucket.oss.example.com/dst.txt", req.URL.String())
	assert.Equal(t, "/src-bucket/src.txt", req.Header.Get("X-Oss-Copy-Source"))
	assert.Empty(t, transport.bodies[0])
}

func TestCopyObjectStatusError(t *testing.T) {
	transport := &fakeTransport{status: http.StatusNotFound}
	client := newTestClient(t, transport)

	err := client.CopyObject(context.Background(), "/src-bucket/src.txt", "dst.txt", nil, nil)
	require.Error(t, err)

	statusErr, ok := err.(*StatusError)
	require.True(t, ok, "expected a StatusError, got %T", err)
	assert.Equal(t, OpCopyObject, statusErr.Op)
}

func TestDeleteObject(t *testing.T) {
	transport := &fakeTransport{status: http.StatusNoContent}
	client := newTestClient(t, transport)

	require.NoError(t, client.DeleteObject(context.Background(), "a.txt"))

	req := transport.lastRequest(t)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "https://mybucket.oss.example.com/a.txt", req.URL.String())
}

func TestListObjectsDecodesListing(t *testing.T) {
	transport := &fakeTransport{response: listingFixture}
	client := newTestClient(t, transport)

	list, err := client.ListObjects(context.Background(), map[string]string{"Date": testDate},
		map[string]*string{"prefix": String("a")})
	require.NoError(t, err)

	assert.Equal(t, "b1", list.BucketName)
	require.Len(t, list.Objects, 2)
	assert.Equal(t, "a.txt", list.Objects[0].Key)
	assert.Equal(t, "b.txt", list.Objects[1].Key)

	req := transport.lastRequest(t)
	assert.Equal(t, "https://mybucket.oss.example.com?prefix=a", req.URL.String())
}

func TestListObjectsSignature(t *testing.T) {
	transport := &fakeTransport{response: listingFixture}
	client := newTestClient(t, transport)

	_, err := client.ListObjects(context.Background(), map[string]string{"Date": testDate}, nil)
	require.NoError(t, err)

	req := transport.lastRequest(t)
	assert.Equal(t, "OSS key-id:MospHlvyPTkbHC1pgFYxlNXYHrk=", req.Header.Get("Authorization"))
}

func TestListObjectsStatusGate(t *testing.T) {
	transport := &fakeTransport{status: http.StatusForbidden, response: "<Error><Code>AccessDenied</Code></Error>"}
	client := newTestClient(t, transport)

	_, err := client.ListObjects(context.Background(), nil, nil)
	require.Error(t, err)

	statusErr, ok := err.(*StatusError)
	require.True(t, ok, "expected a StatusError, got %T", err)
	assert.Equal(t, OpListObjects, statusErr.Op)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}

func TestListObjectsMalformedBody(t *testing.T) {
	transport := &fakeTransport{response: `<ListBucketResult><Contents><Key>a</Key><Size>abc</Size></Contents></ListBucketResult>`}
	client := newTestClient(t, transport)

	_, err := client.ListObjects(context.Background(), nil, nil)
	require.Error(t, err)
	assert.IsType(t, &MalformedListingError{}, err)
}

func TestGetObjectACL(t *testing.T) {
	transport := &fakeTransport{response: `<AccessControlPolicy><AccessControlList><Grant>public-read</Grant></AccessControlList></AccessControlPolicy>`}
	client := newTestClient(t, transport)

	grant, err := client.GetObjectACL(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "public-read", grant)

	req := transport.lastRequest(t)
	assert.Equal(t, "https://mybucket.oss.example.com/a.txt?acl", req.URL.String())
}

func TestGetObjectACLStatusError(t *testing.T) {
	transport := &fakeTransport{status: http.StatusNotFound}
	client := newTestClient(t, transport)

	_, err := client.GetObjectACL(context.Background(), "missing.txt")
	require.Error(t, err)

	statusErr, ok := err.(*StatusError)
	require.True(t, ok, "expected a StatusError, got %T", err)
	assert.Equal(t, OpGetObjectACL, statusErr.Op)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}
