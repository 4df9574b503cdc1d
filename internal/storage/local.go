// Package storage implements the file-storage collaborator on local disk.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxFileSize is the upload cap (16 MiB).
const MaxFileSize = 16 * 1024 * 1024

// allowedExtensions is the upload allow-list.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Local writes uploads to a directory on disk.
type Local struct {
	dir string
}

func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

// Allowed reports whether the filename carries an allow-listed extension.
func Allowed(filename string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Save validates and stores an uploaded file, returning the stored name and
// its path. Names get a random 8-hex suffix; this is a uniqueness nonce, not
// a content hash.
func (l *Local) Save(fh *multipart.FileHeader) (name, path string, err error) {
	if fh.Size <= 0 {
		return "", "", fmt.Errorf("storage: empty file")
	}
	if fh.Size > MaxFileSize {
		return "", "", fmt.Errorf("storage: file exceeds %d bytes", MaxFileSize)
	}
	if !Allowed(fh.Filename) {
		return "", "", fmt.Errorf("storage: extension not allowed")
	}

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", "", err
	}

	base := sanitizeName(strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename)))
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	name = fmt.Sprintf("%s_%s%s", base, suffix, ext)
	path = filepath.Join(l.dir, name)

	src, err := fh.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", "", err
	}
	return name, path, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (l *Local) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// sanitizeName strips path separators and whitespace from a client-supplied
// base name.
func sanitizeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', '\t':
			return '_'
		}
		return r
	}, s)
	s = strings.Trim(s, "._")
	if s == "" {
		s = "file"
	}
	return s
}
