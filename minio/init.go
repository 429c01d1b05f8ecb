package miniocontainer

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"
)

type Bucket struct {
	Name  string
	Files []File
}

type File struct {
	Name    string
	Content []byte
}

// Files reads every regular file of fsys, sorted by name.
// Names are slash separated paths with the directory prefix shared by all files removed.
func Files(fsys fs.FS) ([]File, error) {
	var files []File

	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read file %s, %w", name, err)
		}

		files = append(files, File{Name: name, Content: content})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk files, %w", err)
	}

	trimCommonDir(files)

	slices.SortFunc(files, func(a, b File) int {
		return strings.Compare(a.Name, b.Name)
	})

	return files, nil
}

func MustFiles(fsys fs.FS) []File {
	files, err := Files(fsys)
	if err != nil {
		panic(err)
	}

	return files
}

func trimCommonDir(files []File) {
	if len(files) == 0 {
		return
	}

	prefix := path.Dir(files[0].Name)

	for _, file := range files[1:] {
		for prefix != "." && !strings.HasPrefix(file.Name, prefix+"/") {
			prefix = path.Dir(prefix)
		}
	}

	if prefix == "." {
		return
	}

	for i := range files {
		files[i].Name = strings.TrimPrefix(files[i].Name, prefix+"/")
	}
}

// Init connects to cnt and fills it with buckets.
// term terminates the container, call it even when err is not nil.
func Init(
	ctx context.Context,
	cnt Container,
	logger zerolog.Logger,
	buckets ...Bucket,
) (minioClient *minio.Client, term func(), err error) {
	term = func() {
		terminateErr := cnt.Terminate(context.Background())
		if terminateErr != nil {
			logger.Warn().Err(terminateErr).Msg("failed to terminate minio container")
		}
	}

	minioClient, err = cnt.Connect(ctx)
	if err != nil {
		return nil, term, fmt.Errorf("connect to minio container, %w", err)
	}

	err = insertBuckets(ctx, minioClient, buckets...)
	if err != nil {
		return nil, term, err
	}

	return minioClient, term, nil
}

func insertBuckets(ctx context.Context, minioClient *minio.Client, buckets ...Bucket) error {
	for _, bucket := range buckets {
		err := insertSingleBucket(ctx, minioClient, bucket)
		if err != nil {
			return err
		}
	}

	return nil
}

func insertSingleBucket(ctx context.Context, minioClient *minio.Client, bucket Bucket) error {
	bucketExists, err := minioClient.BucketExists(ctx, bucket.Name)
	if err != nil {
		return fmt.Errorf("get bucket exists %s, %w", bucket.Name, err)
	}

	if !bucketExists {
		err := minioClient.MakeBucket(ctx, bucket.Name, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("create bucket %s, %w", bucket.Name, err)
		}
	}

	for _, file := range bucket.Files {
		_, err = minioClient.PutObject(ctx,
			bucket.Name,
			file.Name,
			bytes.NewReader(file.Content),
			int64(len(file.Content)),
			minio.PutObjectOptions{},
		)
		if err != nil {
			return fmt.Errorf("put file %s into bucket %s, %w", file.Name, bucket.Name, err)
		}
	}

	return nil
}
