// Package fs provides file-based storage for downloaded images.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/imgcrawl"
)

// LocalName derives a file name from the last path segment of an image URL.
// Distinct URLs sharing a last segment map to the same name. A path ending
// in "/" has no last segment and is rejected.
func LocalName(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", imgcrawl.Errorf(imgcrawl.EINVALID, "invalid image URL %q: %v", imageURL, err)
	}
	if strings.HasSuffix(u.Path, "/") {
		return "", imgcrawl.Errorf(imgcrawl.EINVALID, "no file name in %q", imageURL)
	}
	name := path.Base(u.Path)
	switch name {
	case "", ".", "..", "/":
		return "", imgcrawl.Errorf(imgcrawl.EINVALID, "no file name in %q", imageURL)
	}
	return name, nil
}

// HashedName prefixes the last path segment of an image URL with the
// xxhash of the full URL, so distinct URLs get distinct names.
// URLs without a usable last segment are named by the hash alone.
func HashedName(imageURL string) string {
	sum := fmt.Sprintf("%016x", xxhash.Sum64String(imageURL))
	name, err := LocalName(imageURL)
	if err != nil {
		return sum
	}
	return sum + "-" + name
}

// Ensure ImageStore implements imgcrawl.ImageStore at compile time.
var _ imgcrawl.ImageStore = (*ImageStore)(nil)

// ImageStore writes images as files into a single directory.
// Each file is written to a temporary name and renamed into place, so a
// name shared by two images always holds one complete image.
// ImageStore is safe for concurrent use.
type ImageStore struct {
	dir    string
	hashed bool
}

// Option configures an ImageStore.
type Option func(*ImageStore)

// WithHashedNames names files with HashedName instead of LocalName.
func WithHashedNames() Option {
	return func(s *ImageStore) {
		s.hashed = true
	}
}

// NewImageStore creates an ImageStore writing into dir.
// Call Prepare before saving images.
func NewImageStore(dir string, opts ...Option) *ImageStore {
	s := &ImageStore{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the target directory.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Prepare creates the target directory if it does not exist.
func (s *ImageStore) Prepare() error {
	if s.dir == "" {
		return imgcrawl.Errorf(imgcrawl.EINVALID, "output directory required")
	}
	return os.MkdirAll(s.dir, 0755)
}

// SaveImage writes data to the file named after imageURL and returns its path.
// An existing file of the same name is replaced.
func (s *ImageStore) SaveImage(ctx context.Context, imageURL string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := HashedName(imageURL)
	if !s.hashed {
		var err error
		if name, err = LocalName(imageURL); err != nil {
			return "", err
		}
	}
	fullPath := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, ".imgcrawl-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", err
	}
	return fullPath, nil
}
