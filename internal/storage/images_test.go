package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type memStore struct {
	name        string
	contentType string
	size        int
}

func (m *memStore) Put(_ context.Context, name, contentType string, data []byte) (string, error) {
	m.name, m.contentType, m.size = name, contentType, len(data)
	return "https://storage.googleapis.com/test-bucket/" + name, nil
}

// 1x1 transparent PNG
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestUpload_StoresImage(t *testing.T) {
	store := &memStore{}
	u := NewImageUploader(store, func() time.Time { return time.UnixMilli(1700000000000) })

	url, err := u.Upload(context.Background(), bytes.NewReader(pngPixel))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if store.contentType != "image/png" {
		t.Errorf("content type = %q", store.contentType)
	}
	if !strings.HasPrefix(store.name, "newsline-articles/1700000000000_") || !strings.HasSuffix(store.name, ".png") {
		t.Errorf("object name = %q", store.name)
	}
	if !strings.HasSuffix(url, store.name) {
		t.Errorf("url = %q", url)
	}
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty", nil, ErrEmptyFile},
		{"text", []byte("just some text, not a picture"), ErrNotImage},
		{"too large", append(append([]byte{}, pngPixel...), make([]byte, MaxImageSize)...), ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{}
			_, err := NewImageUploader(store, nil).Upload(context.Background(), bytes.NewReader(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Upload() error = %v, want %v", err, tt.wantErr)
			}
			if store.name != "" {
				t.Error("rejected file was stored")
			}
		})
	}
}
