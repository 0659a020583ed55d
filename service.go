package oss

import (
	"context"
	"net/http"
)

// ListBuckets lists the buckets owned by the credential's account. It
// addresses the bare service endpoint rather than the Client's bucket,
// and the canonical resource is "/". resources may carry paging
// controls ("prefix", "marker", "max-keys"); both maps may be nil.
func (c *Client) ListBuckets(ctx context.Context, headers map[string]string, resources map[string]*string) (*ListBuckets, error) {
	requestURL, finalized, err := c.buildRequest(http.MethodGet, "", "", headers, resources)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, http.MethodGet, requestURL, finalized, nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp.Body)
	if !is2xx(resp.StatusCode) {
		return nil, &StatusError{Op: OpListBuckets, StatusCode: resp.StatusCode}
	}
	return decodeListBuckets(resp.Body)
}
