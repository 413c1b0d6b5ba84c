package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yeka/zip"
)

// zipOpener opens zip archives, including ZipCrypto and AES encrypted ones
type zipOpener struct{}

// NewZipOpener creates an Opener for zip archives
func NewZipOpener() Opener {
	return &zipOpener{}
}

// Extract decompresses the zip archive at path into dest using password.
// Unencrypted archives extract successfully with any password, matching the
// "attempt open, succeed/fail" contract.
func (o *zipOpener) Extract(path, password, dest string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.IsEncrypted() {
			f.SetPassword(password)
		}
		if err := o.extractEntry(f, dest); err != nil {
			return err
		}
	}

	return nil
}

// extractEntry writes a single archive entry under dest
func (o *zipOpener) extractEntry(f *zip.File, dest string) error {
	target, err := entryPath(dest, f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
		if err := os.MkdirAll(target, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", target, err)
		}
		return nil
	}

	rc, err := f.Open()
	if err != nil {
		return classifyReadError(err)
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode().Perm()|0200)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer out.Close()

	// ZipCrypto has no integrity check up front; a wrong password
	// surfaces as a checksum mismatch once the stream is read
	if _, err := io.Copy(out, rc); err != nil {
		os.Remove(target)
		return classifyReadError(err)
	}

	return nil
}

// List returns the archive entries without extracting them
func (o *zipOpener) List(path string) ([]Entry, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer r.Close()

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, Entry{
			Name: f.Name,
			Size: f.FileInfo().Size(),
			Dir:  f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/"),
		})
	}

	return entries, nil
}
