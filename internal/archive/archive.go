package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/h2non/filetype"
)

// Kind identifies a supported archive format
type Kind string

const (
	// KindSevenZip is a 7-Zip archive
	KindSevenZip Kind = "7z"
	// KindZip is a zip archive (possibly ZipCrypto or AES encrypted)
	KindZip Kind = "zip"
	// KindUnknown is anything this tool cannot open
	KindUnknown Kind = "unknown"
)

// Sentinel errors for decode attempt classification.
// Only ErrWrongPassword means "move on to the next candidate"; everything
// else points at the archive or the filesystem, not the password.
var (
	// ErrWrongPassword indicates the candidate password did not open the archive
	ErrWrongPassword = errors.New("wrong password")

	// ErrCorrupt indicates the archive is damaged or not a supported format
	ErrCorrupt = errors.New("corrupt or unsupported archive")

	// ErrUnsupported indicates the file is not an archive this tool handles
	ErrUnsupported = errors.New("unsupported file type")
)

// Entry describes one file or directory inside an archive
type Entry struct {
	// Name is the entry path inside the archive, using forward slashes
	Name string `json:"name"`

	// Size is the uncompressed size in bytes
	Size int64 `json:"size"`

	// Dir indicates whether the entry is a directory
	Dir bool `json:"dir"`
}

// Opener is the opaque decode capability the search coordinator drives.
// Implementations open one archive format; each call uses its own file
// handle, so an Opener is safe for concurrent use.
type Opener interface {
	// Extract decompresses the archive at path into dest using password.
	// A wrong password returns an error wrapping ErrWrongPassword.
	Extract(path, password, dest string) error

	// List returns the archive's entries without extracting them.
	// Listing uses the empty password; 7z archives with encrypted headers
	// will refuse and report ErrWrongPassword.
	List(path string) ([]Entry, error)
}

// sniffLen is the header size filetype needs for signature matching
const sniffLen = 261

// Sniff reads a small fixed-size header and reports the archive kind
func Sniff(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return KindUnknown, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	t, err := filetype.Match(buf[:n])
	if err != nil {
		return KindUnknown, fmt.Errorf("failed to sniff %s: %w", path, err)
	}

	switch t.Extension {
	case "7z":
		return KindSevenZip, nil
	case "zip":
		return KindZip, nil
	default:
		return KindUnknown, nil
	}
}

// IsArchive reports whether path looks like an archive this tool can open
func IsArchive(path string) bool {
	kind, err := Sniff(path)
	return err == nil && kind != KindUnknown
}

// OpenerFor returns the Opener for the archive at path, sniffing its kind
// from the file signature
func OpenerFor(path string) (Opener, error) {
	kind, err := Sniff(path)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindSevenZip:
		return NewSevenZipOpener(), nil
	case KindZip:
		return NewZipOpener(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
}

// Delete removes an archive from disk, typically after a confirmed success
func Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete archive %s: %w", path, err)
	}
	return nil
}

// classifyReadError separates filesystem problems from decode failures.
// Decryption with a bad password surfaces as checksum or decompression
// errors while reading entry streams, so a read failure that is not a
// filesystem error is attributed to the password.
func classifyReadError(err error) error {
	if err == nil {
		return nil
	}

	var pathErr *fs.PathError
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) || errors.As(err, &pathErr) {
		return err
	}

	return fmt.Errorf("%w: %v", ErrWrongPassword, err)
}
