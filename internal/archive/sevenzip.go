package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"
)

// sevenZipOpener opens 7-Zip archives, including AES-256 encrypted ones
type sevenZipOpener struct{}

// NewSevenZipOpener creates an Opener for 7z archives
func NewSevenZipOpener() Opener {
	return &sevenZipOpener{}
}

// Extract decompresses the 7z archive at path into dest using password
func (o *sevenZipOpener) Extract(path, password, dest string) error {
	r, err := sevenzip.OpenReaderWithPassword(path, password)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		// Header-encrypted archives fail here on a bad password; plain
		// parse failures mean the file itself is broken. The reader
		// cannot tell the two apart, so attribute to the password and
		// let exhaustion surface genuinely corrupt archives.
		return fmt.Errorf("%w: %v", ErrWrongPassword, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if err := o.extractEntry(f, dest); err != nil {
			return err
		}
	}

	return nil
}

// extractEntry writes a single archive entry under dest
func (o *sevenZipOpener) extractEntry(f *sevenzip.File, dest string) error {
	target, err := entryPath(dest, f.Name)
	if err != nil {
		return err
	}

	info := f.FileInfo()
	if info.IsDir() {
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

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()|0200)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer out.Close()

	// A wrong password on AES content shows up as a checksum failure here,
	// on the first entry read
	if _, err := io.Copy(out, rc); err != nil {
		os.Remove(target)
		return classifyReadError(err)
	}

	return nil
}

// List returns the archive entries without extracting them
func (o *sevenZipOpener) List(path string) ([]Entry, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrWrongPassword, err)
	}
	defer r.Close()

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		info := f.FileInfo()
		entries = append(entries, Entry{
			Name: f.Name,
			Size: info.Size(),
			Dir:  info.IsDir(),
		})
	}

	return entries, nil
}

// entryPath resolves an archive entry name under dest, rejecting entries
// that would escape it
func entryPath(dest, name string) (string, error) {
	name = filepath.FromSlash(name)
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: entry %q escapes destination", ErrCorrupt, name)
	}
	return filepath.Join(dest, name), nil
}
