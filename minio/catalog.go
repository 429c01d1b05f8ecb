package miniocontainer

import (
	"context"
	"fmt"

	"github.com/amidgo/bootcontainers"
	"github.com/minio/minio-go/v7"
)

const (
	KindBucket = "bucket"
	KindObject = "object"
)

// Schema names the bucket and object that must exist after initialization.
type Schema struct {
	Bucket string
	Object string
}

type catalog struct {
	client *minio.Client
}

// Catalog lists buckets and the keys of their objects.
func Catalog(client *minio.Client) containers.Catalog {
	return catalog{client: client}
}

func (c catalog) Namespaces(ctx context.Context) ([]string, error) {
	buckets, err := c.client.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list buckets, %w", err)
	}

	names := make([]string, 0, len(buckets))
	for _, bucket := range buckets {
		names = append(names, bucket.Name)
	}

	return names, nil
}

func (c catalog) Objects(ctx context.Context, bucket string) ([]string, error) {
	var keys []string

	objects := c.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true})

	for object := range objects {
		if object.Err != nil {
			return nil, fmt.Errorf("list objects of %s, %w", bucket, object.Err)
		}

		keys = append(keys, object.Key)
	}

	return keys, nil
}

func Verify(ctx context.Context, cnt Container, schema Schema) error {
	client, err := cnt.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect to minio container, %w", err)
	}

	return containers.VerifySchema(ctx, Catalog(client),
		containers.SchemaObject{Kind: KindBucket, Name: schema.Bucket},
		containers.SchemaObject{Kind: KindObject, Name: schema.Object},
	)
}
