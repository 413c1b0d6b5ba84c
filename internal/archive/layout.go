package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NeedsFolder decides whether smart-mode extraction should wrap the archive
// contents in a folder named after the archive. It returns true when the
// archive has more than one root-level file or more than one root-level
// directory; a single root entry already provides its own top-level name.
func NeedsFolder(entries []Entry) bool {
	rootFiles := 0
	rootDirs := 0

	for _, e := range entries {
		if rootFiles > 1 || rootDirs > 1 {
			break
		}

		// Entries below the root don't affect the decision
		if strings.Contains(strings.TrimSuffix(e.Name, "/"), "/") {
			continue
		}

		if e.Dir {
			rootDirs++
		} else {
			rootFiles++
		}
	}

	return rootFiles > 1 || rootDirs > 1
}

// SmartDest resolves the extraction destination for path under baseDest.
// With smart mode enabled, archives whose contents would clutter the
// destination root are redirected into a folder named after the archive.
func SmartDest(opener Opener, path, baseDest string, smart bool) (string, error) {
	if !smart {
		return baseDest, nil
	}

	entries, err := opener.List(path)
	if err != nil {
		// Header-encrypted archives cannot be listed up front; fall back
		// to the plain destination rather than failing the run
		return baseDest, nil
	}

	if !NeedsFolder(entries) {
		return baseDest, nil
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(baseDest, name), nil
}

// ExtractToTemp extracts the archive at path into a scratch directory under
// the system temp dir, using the empty password. Used for cascading
// extraction of nested unprotected archives.
func ExtractToTemp(opener Opener, path string) (string, error) {
	dir := filepath.Join(os.TempDir(), "unseal-extract")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	if err := opener.Extract(path, "", dir); err != nil {
		return "", err
	}

	return dir, nil
}
