// Package wordlist loads and merges candidate password dictionaries.
//
// A dictionary is an ordered sequence of candidate strings; order carries no
// semantic priority but is preserved so callers can use it as a
// deterministic tie-break.
package wordlist

import (
	"bufio"
	"fmt"
	"os"
)

// Load reads candidate passwords from a file, one per line.
// Blank lines are skipped. Order is preserved and duplicates are dropped,
// keeping the first occurrence. Leading and trailing whitespace is kept:
// passwords may legitimately contain it.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wordlist %s: %w", path, err)
	}
	defer f.Close()

	var candidates []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	// Allow unusually long candidate lines
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		candidates = append(candidates, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read wordlist %s: %w", path, err)
	}

	return candidates, nil
}

// Merge combines candidate lists in order, dropping duplicates and keeping
// the first occurrence. Config-supplied passwords typically come first so
// they are tried with the lowest tie-break indices.
func Merge(lists ...[]string) []string {
	var merged []string
	seen := make(map[string]bool)

	for _, list := range lists {
		for _, c := range list {
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			merged = append(merged, c)
		}
	}

	return merged
}
