// Package crack implements the crack subcommand.
package crack

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dkoval/unseal/internal/config"
	"github.com/dkoval/unseal/internal/cracker"
	"github.com/dkoval/unseal/internal/output"
	"github.com/dkoval/unseal/internal/util"
	"github.com/dkoval/unseal/internal/wordlist"
)

// NewCrackCmd creates the crack command
func NewCrackCmd() *cobra.Command {
	var wordlists []string
	var passwords []string
	var dest string
	var deleteArchive bool
	var smart bool
	var strict bool
	var grace time.Duration
	var wide bool

	cmd := &cobra.Command{
		Use:   "crack <archive>...",
		Short: "Recover the password for one or more archives",
		Long: `Try candidate passwords against the given archives concurrently.

Candidates come from the passwords list in the config file, from wordlist
files, and from --password flags. The first password that decodes any of
the archives wins, and the archive contents are extracted in the same step.`,
		Example: `  # Crack an archive using the passwords from the config file
  unseal crack backup.zip

  # Bring your own wordlist
  unseal crack backup.7z -w rockyou-top100.txt

  # Try several archives at once, extract into ./out
  unseal crack a.zip b.zip c.7z -d ./out

  # Delete the archive once the password is recovered
  unseal crack backup.zip --delete

  # Abort on the first corrupt-archive error instead of pressing on
  unseal crack backup.zip --strict`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := crackOptions{
				wordlists:     wordlists,
				passwords:     passwords,
				dest:          dest,
				deleteArchive: deleteArchive,
				smart:         smart,
				strict:        strict,
				grace:         grace,
				wide:          wide,
				destChanged:   cmd.Flags().Changed("dest"),
				deleteChanged: cmd.Flags().Changed("delete"),
				smartChanged:  cmd.Flags().Changed("smart"),
			}
			return runCrack(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&wordlists, "wordlist", "w", nil, "wordlist file with one candidate per line (repeatable)")
	cmd.Flags().StringSliceVarP(&passwords, "password", "P", nil, "candidate password (repeatable)")
	cmd.Flags().StringVarP(&dest, "dest", "d", ".", "extraction destination directory")
	cmd.Flags().BoolVar(&deleteArchive, "delete", false, "delete the archive after the password is recovered")
	cmd.Flags().BoolVar(&smart, "smart", false, "extract cluttering archives into a folder named after the archive")
	cmd.Flags().BoolVar(&strict, "strict", false, "abort the run on the first decode error that is not a wrong password")
	cmd.Flags().DurationVar(&grace, "grace", 0, "window to wait for earlier candidates after the first success")
	cmd.Flags().BoolVar(&wide, "wide", false, "show additional columns in table output")

	return cmd
}

type crackOptions struct {
	wordlists     []string
	passwords     []string
	dest          string
	deleteArchive bool
	smart         bool
	strict        bool
	grace         time.Duration
	wide          bool
	destChanged   bool
	deleteChanged bool
	smartChanged  bool
}

func runCrack(ctx context.Context, archives []string, opts crackOptions) error {
	logger := slog.Default()

	mgr := config.NewManager(viper.ConfigFileUsed())
	cfg, err := mgr.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := mgr.Validate(); err != nil {
		return fmt.Errorf("%w: %v", util.ErrInvalidConfig, err)
	}

	candidates, err := collectCandidates(cfg, opts.wordlists, opts.passwords)
	if err != nil {
		return err
	}

	logger.Debug("collected candidates",
		"count", len(candidates),
		"wordlists", len(opts.wordlists),
		"archives", len(archives))

	// Explicit flags beat config file defaults
	dest := opts.dest
	if !opts.destChanged && cfg.Defaults.Dest != "" {
		dest = cfg.Defaults.Dest
	}
	deleteArchive := opts.deleteArchive
	if !opts.deleteChanged {
		deleteArchive = deleteArchive || cfg.Defaults.DeleteArchive
	}
	smart := opts.smart
	if !opts.smartChanged {
		smart = smart || cfg.Defaults.SmartMode
	}

	runner, err := cracker.New(cracker.Options{
		Parallel:    viper.GetInt("parallel"),
		Dest:        dest,
		Delete:      deleteArchive,
		Smart:       smart,
		Strict:      opts.strict,
		GraceWindow: opts.grace,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if timeout := viper.GetDuration("timeout"); timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	outcome, err := runner.Crack(runCtx, archives, candidates)
	if err != nil {
		return err
	}

	report := &output.Report{
		Targets: outcome.Targets,
		Result:  outcome.Result,
		Deleted: outcome.Deleted,
	}

	formatter := output.NewFormatter(
		resolveFormat(cfg),
		output.WithNoColor(viper.GetBool("no-color") || cfg.Defaults.NoColor),
		output.WithWide(opts.wide),
	)

	return formatter.FormatRun(os.Stdout, report)
}

// collectCandidates merges the config passwords, wordlist files, and inline
// passwords, preserving first-seen order
func collectCandidates(cfg *config.Config, wordlists, inline []string) ([]string, error) {
	lists := [][]string{cfg.Passwords}

	for _, path := range wordlists {
		words, err := wordlist.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load wordlist %s: %w", path, err)
		}
		lists = append(lists, words)
	}

	lists = append(lists, inline)

	candidates := wordlist.Merge(lists...)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: configure a passwords list, or pass -w/-P", util.ErrNoCandidates)
	}

	return candidates, nil
}

// resolveFormat picks the output format from the flag, falling back to the
// config file default
func resolveFormat(cfg *config.Config) output.Format {
	if f := viper.GetString("output"); f != "" {
		return output.Format(f)
	}
	return output.Format(cfg.Defaults.OutputFormat)
}
