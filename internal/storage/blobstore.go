// file: internal/storage/blobstore.go
// version: 1.0.0
// guid: 9d0e3f6a-2b8c-4d1e-4f5a-7b8c9d0e1f2a

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PutOptions controls how a blob is stored.
type PutOptions struct {
	ContentType string
	// Overwrite allows replacing an existing blob under the same key.
	Overwrite bool
}

// PutResult reports where a stored blob can be fetched from.
type PutResult struct {
	URL string
}

// BlobStore is the external file-storage collaborator. Backend semantics
// are out of scope; the pipeline only needs Put.
type BlobStore interface {
	Put(key string, data []byte, opts PutOptions) (PutResult, error)
}

// DiskBlobStore stores blobs on the local filesystem and serves them
// under baseURL.
type DiskBlobStore struct {
	root    string
	baseURL string
}

// NewDiskBlobStore creates the store, ensuring the root directory exists.
func NewDiskBlobStore(root, baseURL string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}
	return &DiskBlobStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Put writes the blob and returns its public URL. Keys may contain
// forward slashes; path traversal is rejected.
func (d *DiskBlobStore) Put(key string, data []byte, opts PutOptions) (PutResult, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return PutResult{}, fmt.Errorf("invalid blob key: %s", key)
	}

	path := filepath.Join(d.root, clean)
	if !opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return PutResult{}, fmt.Errorf("blob already exists: %s", key)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return PutResult{}, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return PutResult{}, err
	}
	return PutResult{URL: d.baseURL + "/" + filepath.ToSlash(clean)}, nil
}
