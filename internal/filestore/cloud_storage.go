package filestore

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// CloudStorageClient implements StorageClient on top of a GCS bucket.
type CloudStorageClient struct {
	BucketName string
	Ctx        context.Context
	Client     *storage.Client
}

// NewCloudStorageClient connects to cloud storage using ambient credentials.
func NewCloudStorageClient(bucketName string) (*CloudStorageClient, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage client: %v", err)
	}
	return &CloudStorageClient{
		BucketName: bucketName,
		Ctx:        ctx,
		Client:     client,
	}, nil
}

// UploadFile writes fileData into the named object.
func (c *CloudStorageClient) UploadFile(objectName string, fileData io.Reader) error {
	bucket := c.Client.Bucket(c.BucketName)
	obj := bucket.Object(objectName)
	wc := obj.NewWriter(c.Ctx)
	if _, err := io.Copy(wc, fileData); err != nil {
		return fmt.Errorf("failed to write data to object: %v", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close object writer: %v", err)
	}
	return nil
}

// DownloadFile opens the named object for reading, returning its size when
// the attribute is available.
func (c *CloudStorageClient) DownloadFile(objectName string) (io.ReadCloser, int64, error) {
	obj := c.Client.Bucket(c.BucketName).Object(objectName)

	size := int64(-1)
	if attrs, err := obj.Attrs(c.Ctx); err == nil {
		size = attrs.Size
	}

	reader, err := obj.NewReader(c.Ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open object reader: %v", err)
	}
	return reader, size, nil
}

// ListFiles returns the names of every object under the given prefix.
func (c *CloudStorageClient) ListFiles(prefix string) ([]string, error) {
	it := c.Client.Bucket(c.BucketName).Objects(c.Ctx, &storage.Query{Prefix: prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %v", err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

// DeleteFile removes the named object from the bucket.
func (c *CloudStorageClient) DeleteFile(objectName string) error {
	if err := c.Client.Bucket(c.BucketName).Object(objectName).Delete(c.Ctx); err != nil {
		return fmt.Errorf("failed to delete object: %v", err)
	}
	return nil
}
