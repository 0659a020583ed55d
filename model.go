package oss

// ListObjects is one page of a bucket listing. MaxKeys is kept as the
// string the service sent; IsTruncated is true only when the service
// sent exactly "true".
type ListObjects struct {
	BucketName  string
	Delimiter   string
	Prefix      string
	Marker      string
	MaxKeys     string
	IsTruncated bool

	// Objects holds the listed objects in document order.
	Objects []Object
}

// Object is a single entry of a bucket listing.
type Object struct {
	Key          string
	LastModified string
	Size         int64
	ETag         string
	Type         string
	StorageClass string

	OwnerID          string
	OwnerDisplayName string
}

// ListBuckets is the decoded result of a service-level bucket listing.
// The pagination fields are empty unless the listing was issued with
// paging parameters.
type ListBuckets struct {
	Prefix      string
	Marker      string
	MaxKeys     string
	IsTruncated bool

	OwnerID          string
	OwnerDisplayName string

	// Buckets holds the listed buckets in document order.
	Buckets []Bucket
}

// Bucket is a single entry of a service-level bucket listing.
type Bucket struct {
	Name         string
	Location     string
	CreationDate string
	StorageClass string
}

// String returns a pointer to s. It cuts down on temporaries when
// filling resource maps:
//
//	resources := map[string]*string{
//	    "acl":      nil,
//	    "max-keys": oss.String("100"),
//	}
func String(s string) *string {
	return &s
}
