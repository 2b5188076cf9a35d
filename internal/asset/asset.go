package asset

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when an image does not exist in a store.
var ErrNotFound = errors.New("image not found")

// Image is an opened lesson image. Callers must close Body.
type Image struct {
	Name        string
	Body        io.ReadCloser
	ContentType string
	Size        int64 // -1 when unknown
}

// Store defines the interface for reading lesson images.
type Store interface {
	// Open returns the named image or ErrNotFound.
	Open(ctx context.Context, name string) (*Image, error)
}

// validName reports whether name is a plain file name with no path parts.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}

// contentType guesses the MIME type from the file extension.
func contentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
