package oss

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/palantir/stacktrace"
	"golang.org/x/text/encoding/htmlindex"
)

// charsetReader translates documents whose XML declaration names an
// encoding other than UTF-8. The charset label is resolved through the
// WHATWG encoding index.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, stacktrace.Propagate(err, "No decoder available for charset %#v", charset)
	}
	return enc.NewDecoder().Reader(input), nil
}

func newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	return dec
}

// textOf collects the character data of the element opened by start,
// consuming tokens through the matching end tag. Text of nested
// elements is skipped; surrounding whitespace is trimmed.
func textOf(dec *xml.Decoder, start xml.StartElement) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", &MalformedListingError{Element: start.Name.Local, Reason: err.Error()}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 1 {
				text.Write(t)
			}
		}
	}
	return strings.TrimSpace(text.String()), nil
}

// decodeListObjects walks a ListBucketResult document in one forward
// pass, without materializing a tree. Bucket-level fields are captured
// only outside Contents blocks; each Contents block accumulates into a
// scratch record that is reset on the opening tag and appended on the
// closing tag, so an object can never inherit a field from its
// predecessor. Unknown elements are skipped. The only successful exit
// is the end of the document.
func decodeListObjects(r io.Reader) (*ListObjects, error) {
	dec := newDecoder(r)

	var list ListObjects
	var scratch Object
	inContents := false
	inOwner := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return &list, nil
		}
		if err != nil {
			return nil, &MalformedListingError{Reason: err.Error()}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			switch {
			case inContents && inOwner:
				switch name {
				case "ID":
					if scratch.OwnerID, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "DisplayName":
					if scratch.OwnerDisplayName, err = textOf(dec, t); err != nil {
						return nil, err
					}
				}
			case inContents:
				switch name {
				case "Key":
					if scratch.Key, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "LastModified":
					if scratch.LastModified, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "ETag":
					if scratch.ETag, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "Type":
					if scratch.Type, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "StorageClass":
					if scratch.StorageClass, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "Size":
					text, err := textOf(dec, t)
					if err != nil {
						return nil, err
					}
					size, perr := strconv.ParseInt(text, 10, 64)
					if perr != nil || size < 0 {
						return nil, &MalformedListingError{
							Element: "Size",
							Reason:  fmt.Sprintf("not a non-negative integer: %#v", text),
						}
					}
					scratch.Size = size
				case "Owner":
					inOwner = true
				}
			default:
				switch name {
				case "Name":
					if list.BucketName, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "Prefix":
					if list.Prefix, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "Marker":
					if list.Marker, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "MaxKeys":
					if list.MaxKeys, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "Delimiter":
					if list.Delimiter, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "IsTruncated":
					text, err := textOf(dec, t)
					if err != nil {
						return nil, err
					}
					// Only the exact lower-case literal counts.
					list.IsTruncated = text == "true"
				case "Contents":
					inContents = true
					scratch = Object{}
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "Contents":
				if inContents {
					list.Objects = append(list.Objects, scratch)
					inContents = false
					inOwner = false
				}
			case "Owner":
				inOwner = false
			}
		}
	}
}

// decodeListBuckets walks a ListAllMyBucketsResult document the same
// way decodeListObjects walks a bucket listing: account-level fields
// outside Bucket blocks, a scratch record per Bucket block, owner
// fields inside the account-level Owner block.
func decodeListBuckets(r io.Reader) (*ListBuckets, error) {
	dec := newDecoder(r)

	var list ListBuckets
	var scratch Bucket
	inBucket := false
	inOwner := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return &list, nil
		}
		if err != nil {
			return nil, &MalformedListingError{Reason: err.Error()}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			switch {
			case inBucket:
				switch name {
				case "Name":
					if scratch.Name, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "Location":
					if scratch.Location, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "CreationDate":
					if scratch.CreationDate, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "StorageClass":
					if scratch.StorageClass, err = textOf(dec, t); err != nil {
						return nil, err
					}
				}
			case inOwner:
				switch name {
				case "ID":
					if list.OwnerID, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "DisplayName":
					if list.OwnerDisplayName, err = textOf(dec, t); err != nil {
						return nil, err
					}
				}
			default:
				switch name {
				case "Prefix":
					if list.Prefix, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "Marker":
					if list.Marker, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "MaxKeys":
					if list.MaxKeys, err = textOf(dec, t); err != nil {
						return nil, err
					}
				case "IsTruncated":
					text, err := textOf(dec, t)
					if err != nil {
						return nil, err
					}
					list.IsTruncated = text == "true"
				case "Owner":
					inOwner = true
				case "Bucket":
					inBucket = true
					scratch = Bucket{}
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "Bucket":
				if inBucket {
					list.Buckets = append(list.Buckets, scratch)
					inBucket = false
				}
			case "Owner":
				inOwner = false
			}
		}
	}
}

// decodeACLGrant extracts the Grant value from an access control
// policy document. The first Grant encountered wins; a document with
// no Grant yields the empty string.
func decodeACLGrant(r io.Reader) (string, error) {
	dec := newDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", nil
		}
		if err != nil {
			return "", &MalformedListingError{Reason: err.Error()}
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "Grant" {
			return textOf(dec, start)
		}
	}
}
