package miniocontainer

import (
	"context"
	"fmt"
	"testing"

	"github.com/amidgo/bootcontainers"
	"github.com/minio/minio-go/v7"
)

func ReuseForTesting(
	t *testing.T,
	reusable *Reusable,
	buckets ...Bucket,
) *minio.Client {
	containers.SkipDisabled(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	minioClient, term, err := Reuse(ctx, reusable, buckets...)
	t.Cleanup(term)

	if err != nil {
		t.Fatal(err)

		return nil
	}

	return minioClient
}

// Reuse enters the shared container and creates buckets in it.
func Reuse(
	ctx context.Context,
	reusable *Reusable,
	buckets ...Bucket,
) (minioClient *minio.Client, term func(), err error) {
	return reusable.run(ctx, buckets...)
}

type Reusable struct {
	shared *containers.Reusable[Container]
}

func NewReusable(ccf CreateContainerFunc, opts ...containers.ReuseOption) *Reusable {
	return &Reusable{
		shared: containers.NewReusable(containers.ProvisionFunc[Container](ccf), opts...),
	}
}

func (r *Reusable) Terminate(ctx context.Context) error {
	return r.shared.Terminate(ctx)
}

func (r *Reusable) run(ctx context.Context, buckets ...Bucket) (minioClient *minio.Client, term func(), err error) {
	cnt, err := r.shared.Enter(ctx)
	if err != nil {
		return nil, func() {}, err
	}

	term = r.shared.Exit

	minioClient, err = cnt.Connect(ctx)
	if err != nil {
		return nil, term, fmt.Errorf("reuse container, connect, %w", err)
	}

	err = insertBuckets(ctx, minioClient, buckets...)
	if err != nil {
		return nil, term, fmt.Errorf("reuse container, %w", err)
	}

	return minioClient, term, nil
}
