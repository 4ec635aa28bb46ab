// Package storage uploads article images to the Firebase storage bucket.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	// MaxImageSize is the largest accepted upload.
	MaxImageSize = 10 << 20
	// ImageFolder is the object prefix for article images.
	ImageFolder = "newsline-articles"
)

var (
	ErrNotImage  = errors.New("file is not an image")
	ErrTooLarge  = errors.New("image exceeds 10MB")
	ErrEmptyFile = errors.New("file is empty")
)

// ObjectStore writes an object and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// BucketImageStore stores objects in a Cloud Storage bucket.
type BucketImageStore struct {
	bucket *gcs.BucketHandle
	name   string
}

// NewBucketImageStore creates a BucketImageStore for the named bucket
func NewBucketImageStore(bucket *gcs.BucketHandle, name string) *BucketImageStore {
	return &BucketImageStore{bucket: bucket, name: name}
}

// Put uploads data and returns its public URL.
func (s *BucketImageStore) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object %s: %w", name, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.name, (&url.URL{Path: name}).EscapedPath()), nil
}

// ImageUploader checks uploads and stores them under ImageFolder.
type ImageUploader struct {
	store ObjectStore
	now   func() time.Time
}

// NewImageUploader creates an ImageUploader. A nil clock means time.Now.
func NewImageUploader(store ObjectStore, now func() time.Time) *ImageUploader {
	if now == nil {
		now = time.Now
	}
	return &ImageUploader{store: store, now: now}
}

// Upload reads at most MaxImageSize bytes from r, checks that the content
// is an image and stores it. It returns the public URL.
func (u *ImageUploader) Upload(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if len(data) > MaxImageSize {
		return "", ErrTooLarge
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}
	name := fmt.Sprintf("%s/%d_%s%s", ImageFolder, u.now().UnixMilli(), uuid.NewString(), mt.Extension())
	return u.store.Put(ctx, name, mt.String(), data)
}
