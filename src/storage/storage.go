package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidPath = errors.New("ruta de archivo inválida")

// Upload is an uploaded file handed explicitly through the call chain.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	open        func() (io.ReadCloser, error)
}

func FromFileHeader(header *multipart.FileHeader) *Upload {
	if header == nil {
		return nil
	}
	return &Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

func FromBytes(filename, contentType string, data []byte) *Upload {
	return &Upload{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func (u *Upload) Open() (io.ReadCloser, error) {
	if u == nil || u.open == nil {
		return nil, errors.New("upload sin contenido")
	}
	return u.open()
}

// FileStore persists uploads and resolves stored references.
type FileStore interface {
	// Save writes the upload under dir and returns its relative reference.
	Save(dir string, upload *Upload) (string, error)
	Remove(ref string) error
	// Resolve maps a reference to an absolute path inside the store.
	Resolve(ref string) (string, error)
}

type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func sanitize(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == "_" {
		return "archivo"
	}
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return name
}

func (s *LocalStore) Save(dir string, upload *Upload) (string, error) {
	src, err := upload.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dir = path.Clean("/" + filepath.ToSlash(dir))[1:]
	if err := os.MkdirAll(filepath.Join(s.root, filepath.FromSlash(dir)), 0755); err != nil {
		return "", fmt.Errorf("could not create upload directory: %w", err)
	}

	ref := path.Join(dir, uuid.NewString()+"_"+sanitize(upload.Filename))
	full := filepath.Join(s.root, filepath.FromSlash(ref))

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("could not save file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("could not save file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("could not save file: %w", err)
	}

	return ref, nil
}

func (s *LocalStore) Remove(ref string) error {
	full, err := s.Resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalStore) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(strings.ReplaceAll(ref, "\\", "/"))
	ref = strings.TrimPrefix(ref, "storage/")
	if ref == "" {
		return "", ErrInvalidPath
	}
	for _, part := range strings.Split(ref, "/") {
		if part == ".." {
			return "", ErrInvalidPath
		}
	}
	clean := path.Clean("/" + ref)[1:]
	if clean == "" {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}
