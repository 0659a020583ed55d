package oss

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/palantir/stacktrace"
)

// send executes one signed request. The response body is the caller's
// to consume and close.
func (c *Client) send(ctx context.Context, verb, requestURL string, headers http.Header, body []byte) (*http.Response, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, verb, requestURL, reader)
	if err != nil {
		return nil, stacktrace.Propagate(err, "Failed to build %s request for %#v", verb, requestURL)
	}
	for name, values := range headers {
		req.Header[name] = values
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, stacktrace.Propagate(err, "%s %#v failed in transport", verb, requestURL)
	}
	c.logger.Debugf("%s %s -> %d", verb, requestURL, resp.StatusCode)
	return resp, nil
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}

// drain discards the rest of a response body so the underlying
// connection can be reused, then closes it.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(ioutil.Discard, body)
	_ = body.Close()
}

// ListObjects fetches one page of the bucket listing. resources
// carries the paging controls (for example "prefix", "marker",
// "max-keys", "delimiter"); both maps may be nil. A status outside the
// 2xx range returns a StatusError before any decoding is attempted.
func (c *Client) ListObjects(ctx context.Context, headers map[string]string, resources map[string]*string) (*ListObjects, error) {
	requestURL, finalized, err := c.BuildRequest(http.MethodGet, "", headers, resources)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, http.MethodGet, requestURL, finalized, nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp.Body)
	if !is2xx(resp.StatusCode) {
		return nil, &StatusError{Op: OpListObjects, StatusCode: resp.StatusCode}
	}
	return decodeListObjects(resp.Body)
}

// GetObject downloads an object and returns the payload bytes
// verbatim. The empty payload of a zero-length object is a valid
// result. A status outside the 2xx range returns a StatusError
// carrying the code.
func (c *Client) GetObject(ctx context.Context, object string, headers map[string]string, resources map[string]*string) ([]byte, error) {
	requestURL, finalized, err := c.BuildRequest(http.MethodGet, object, headers, resources)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, http.MethodGet, requestURL, finalized, nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp.Body)
	if !is2xx(resp.StatusCode) {
		return nil, &StatusError{Op: OpGetObject, StatusCode: resp.StatusCode}
	}

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, stacktrace.Propagate(err, "Failed to read body of %#v", object)
	}
	return data, nil
}

// GetObjectACL returns the grant of the object's access control list,
// for example "private" or "public-read". Status failures are reported
// under the GetObjectACL operation name.
func (c *Client) GetObjectACL(ctx context.Context, object string) (string, error) {
	data, err := c.GetObject(ctx, object, nil, map[string]*string{"acl": nil})
	if err != nil {
		if statusErr, ok := err.(*StatusError); ok {
			return "", &StatusError{Op: OpGetObjectACL, StatusCode: statusErr.StatusCode}
		}
		return "", err
	}
	return decodeACLGrant(bytes.NewReader(data))
}

// PutObject uploads data as the named object. When the caller did not
// supply a Content-MD5 header one is computed from the payload so the
// service can verify what it stored. Content-Type defaults to
// application/octet-stream.
func (c *Client) PutObject(ctx context.Context, data []byte, object string, headers map[string]string, resources map[string]*string) error {
	withMD5 := make(map[string]string, len(headers)+1)
	for name, value := range headers {
		withMD5[name] = value
	}
	if lookupHeader(withMD5, headerContentMD5) == "" {
		sum := md5.Sum(data)
		withMD5[headerContentMD5] = base64.StdEncoding.EncodeToString(sum[:])
	}

	requestURL, finalized, err := c.BuildRequest(http.MethodPut, object, withMD5, resources)
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, http.MethodPut, requestURL, finalized, data)
	if err != nil {
		return err
	}
	drain(resp.Body)
	if !is2xx(resp.StatusCode) {
		return &StatusError{Op: OpPutObject, StatusCode: resp.StatusCode}
	}
	return nil
}

// PutObjectFromFile uploads the file at path as the named object. The
// file is read whole before the request goes out.
func (c *Client) PutObjectFromFile(ctx context.Context, path, object string, headers map[string]string, resources map[string]*string) error {
	data, err := loadFile(path)
	if err != nil {
		return err
	}
	return c.PutObject(ctx, data, object, headers, resources)
}

// CopyObject asks the service to copy an existing object into this
// bucket without moving the payload through the client. source is the
// copy-source path in "/bucket/object" form; it is carried in the
// x-oss-copy-source header and is therefore signed. The source
// argument wins over any copy-source header the caller supplied.
func (c *Client) CopyObject(ctx context.Context, source, object string, headers map[string]string, resources map[string]*string) error {
	withSource := make(map[string]string, len(headers)+1)
	for name, value := range headers {
		if strings.EqualFold(name, headerCopySource) {
			continue
		}
		withSource[name] = value
	}
	withSource[headerCopySource] = source

	requestURL, finalized, err := c.BuildRequest(http.MethodPut, object, withSource, resources)
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, http.MethodPut, requestURL, finalized, nil)
	if err != nil {
		return err
	}
	drain(resp.Body)
	if !is2xx(resp.StatusCode) {
		return &StatusError{Op: OpCopyObject, StatusCode: resp.StatusCode}
	}
	return nil
}

// DeleteObject removes the named object. Any 2xx status counts as
// success.
func (c *Client) DeleteObject(ctx context.Context, object string) error {
	requestURL, finalized, err := c.BuildRequest(http.MethodDelete, object, nil, nil)
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, http.MethodDelete, requestURL, finalized, nil)
	if err != nil {
		return err
	}
	drain(resp.Body)
	if !is2xx(resp.StatusCode) {
		return &StatusError{Op: OpDeleteObject, StatusCode: resp.StatusCode}
	}
	return nil
}
