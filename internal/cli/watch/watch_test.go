package watch

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/dkoval/unseal/internal/config"
	"github.com/dkoval/unseal/internal/util"
)

func TestNewWatchCmdFlags(t *testing.T) {
	cmd := NewWatchCmd()

	expectedFlags := []string{
		"wordlist",
		"dest",
		"recursive",
		"delete",
		"smart",
		"debounce",
	}

	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag %q to be defined", flagName)
		}
	}

	flag := cmd.Flags().Lookup("debounce")
	if flag.DefValue != (500 * time.Millisecond).String() {
		t.Errorf("debounce default = %q, want %q", flag.DefValue, 500*time.Millisecond)
	}
}

func TestCollectCandidates(t *testing.T) {
	dir := t.TempDir()

	listPath := filepath.Join(dir, "words.txt")
	if err := os.WriteFile(listPath, []byte("one\ntwo\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{Passwords: []string{"zero", "two"}}

	got, err := collectCandidates(cfg, []string{listPath})
	if err != nil {
		t.Fatalf("collectCandidates() error: %v", err)
	}

	want := []string{"zero", "two", "one"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("collectCandidates() = %v, want %v", got, want)
	}
}

func TestCollectCandidatesEmpty(t *testing.T) {
	if _, err := collectCandidates(&config.Config{}, nil); !errors.Is(err, util.ErrNoCandidates) {
		t.Errorf("collectCandidates() error = %v, want ErrNoCandidates", err)
	}
}
