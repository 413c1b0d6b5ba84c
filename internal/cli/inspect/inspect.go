// Package inspect implements the inspect subcommand.
package inspect

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dkoval/unseal/internal/archive"
	"github.com/dkoval/unseal/internal/output"
	"github.com/dkoval/unseal/internal/util"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <archive>...",
		Short: "List the entries of archives without extracting them",
		Long: `List the contents of zip and 7z archives.

Listing uses the empty password; 7z archives with encrypted headers cannot
be listed until the password is recovered, and are reported as locked.`,
		Example: `  # List the entries of an archive
  unseal inspect backup.zip

  # JSON output for scripting
  unseal inspect backup.7z -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args)
		},
	}

	return cmd
}

func runInspect(paths []string) error {
	format := output.Format(viper.GetString("output"))
	if format == "" {
		format = output.FormatTable
	}

	formatter := output.NewFormatter(format,
		output.WithNoColor(viper.GetBool("no-color")))

	var errs []error
	for _, path := range paths {
		if err := inspectOne(formatter, path); err != nil {
			errs = append(errs, util.WrapTargetError(path, err))
		}
	}

	return util.CombineErrors(errs...)
}

func inspectOne(formatter output.Formatter, path string) error {
	opener, err := archive.OpenerFor(path)
	if err != nil {
		return err
	}

	entries, err := opener.List(path)
	if err != nil {
		if errors.Is(err, archive.ErrWrongPassword) {
			return fmt.Errorf("archive is locked (encrypted header); run crack first")
		}
		return err
	}

	rows := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		kind := "file"
		if e.Dir {
			kind = "dir"
		}
		rows = append(rows, map[string]interface{}{
			"name": e.Name,
			"size": e.Size,
			"type": kind,
		})
	}

	if len(rows) == 0 {
		fmt.Printf("%s: empty archive\n", path)
		return nil
	}

	fmt.Println(path)
	return formatter.Format(os.Stdout, rows)
}
