// osscli is a small command line client for OSS-style object storage:
// list, download, upload, copy, and delete objects in a bucket, and
// list the account's buckets.
package main

func main() {
	Execute()
}
