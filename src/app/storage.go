package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists one uploaded file and returns the public URL it can
// be fetched from afterwards.
type FileStore interface {
	Save(name string, object io.Reader, size int64) (string, error)
}

// DiskStore writes uploads into a local directory that is also served
// statically under /public.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &DiskStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (d *DiskStore) Save(name string, object io.Reader, size int64) (string, error) {
	out, err := os.Create(filepath.Join(d.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, object); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return d.baseURL + "/public/" + name, nil
}

// MinioStore keeps uploads in an S3 bucket instead of the local disk and
// hands out presigned URLs.
type MinioStore struct {
	s3 *MinioS3Client
}

func NewMinioStore(s3 *MinioS3Client) *MinioStore {
	return &MinioStore{s3: s3}
}

func (m *MinioStore) Save(name string, object io.Reader, size int64) (string, error) {
	if err := m.s3.UploadFile(name, object, size); err != nil {
		return "", err
	}
	signed, err := m.s3.PresignedURL(name)
	if err != nil {
		return "", err
	}
	return signed.String(), nil
}
