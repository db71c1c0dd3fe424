// Package gcsuploader pushes generated import artifacts to a GCS bucket so
// the operator performing the platform import can pick them up from one
// place. It assumes Application Default Credentials are configured.
package gcsuploader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

const perObjectTimeout = 2 * time.Minute

// UploadArtifacts uploads each local file to gs://bucket/prefix/<basename>.
// Files are uploaded one at a time; the first failure aborts the batch.
func UploadArtifacts(ctx context.Context, bucketName, prefix string, paths []string) error {
	if bucketName == "" {
		return fmt.Errorf("UploadArtifacts: bucket name is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("UploadArtifacts: create storage client: %w", err)
	}
	defer client.Close()

	bkt := client.Bucket(bucketName)
	for _, p := range paths {
		object := objectName(prefix, p)
		if err := uploadOne(ctx, bkt, object, p); err != nil {
			return fmt.Errorf("UploadArtifacts: %q: %w", p, err)
		}
	}
	return nil
}

func objectName(prefix, localPath string) string {
	base := filepath.Base(localPath)
	if prefix == "" {
		return base
	}
	return path.Join(strings.Trim(prefix, "/"), base)
}

func uploadOne(ctx context.Context, bkt *storage.BucketHandle, object, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, perObjectTimeout)
	defer cancel()

	w := bkt.Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("copy to gs object %q: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize gs object %q: %w", object, err)
	}
	return nil
}
