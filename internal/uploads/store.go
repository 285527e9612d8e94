// Package uploads stores registration images on local disk and hands back
// the server-assigned filename referenced from the user row.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned by Save when the uploaded filename carries
// an extension outside the allow list. Any other Save error is an I/O
// failure, not a client fault.
var ErrUnsupportedType = errors.New("unsupported image type")

// allowedExtensions are the image extensions the store accepts. The stored
// name never contains any other part of the client-supplied filename.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store writes uploaded files into a single directory with server-assigned
// names. It is safe for concurrent use; every Save targets a fresh filename.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed and returns a Store for it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory uploaded files are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the uploaded file to disk under a new unique name and returns
// that name. The client-supplied filename contributes only its extension,
// and only when it is on the allow list.
func (s *Store) Save(file *multipart.FileHeader) (string, error) {
	ext, err := sanitizeExt(file.Filename)
	if err != nil {
		return "", err
	}

	name := uuid.New().String() + ext

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create stored file: %w", err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write stored file: %w", err)
	}

	return name, nil
}

// Remove deletes a stored file by the name Save returned. Unknown names are
// rejected before touching the filesystem.
func (s *Store) Remove(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid stored filename %q", name)
	}
	return os.Remove(filepath.Join(s.dir, name))
}

// sanitizeExt extracts a lowercase, allow-listed extension from a
// client-supplied filename.
func sanitizeExt(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w %q", ErrUnsupportedType, ext)
	}
	return ext, nil
}
