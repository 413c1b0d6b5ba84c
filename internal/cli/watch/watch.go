// Package watch implements the watch subcommand.
package watch

import (
	"context"
	"errors"
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
	"github.com/dkoval/unseal/internal/watcher"
	"github.com/dkoval/unseal/internal/wordlist"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	var wordlists []string
	var dest string
	var recursive bool
	var deleteArchive bool
	var smart bool
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [folder]...",
		Short: "Watch folders and crack new archives as they arrive",
		Long: `Watch folders for new archives and run the password search against each
one automatically, using the candidates from the config file and any
wordlists given on the command line.

Folders come from the arguments, or from the watch_folders list in the
config file when no arguments are given. The command runs until
interrupted.`,
		Example: `  # Watch the folders configured in ~/.unseal/config.yaml
  unseal watch

  # Watch the downloads folder, extracting into ./out
  unseal watch ~/Downloads -d ./out

  # Watch recursively and clean up archives after extraction
  unseal watch ~/drop -R --delete`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := watchOptions{
				folders:       args,
				wordlists:     wordlists,
				dest:          dest,
				recursive:     recursive,
				deleteArchive: deleteArchive,
				smart:         smart,
				debounce:      debounce,
			}
			return runWatch(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringSliceVarP(&wordlists, "wordlist", "w", nil, "wordlist file with one candidate per line (repeatable)")
	cmd.Flags().StringVarP(&dest, "dest", "d", ".", "extraction destination directory")
	cmd.Flags().BoolVarP(&recursive, "recursive", "R", false, "watch subdirectories too")
	cmd.Flags().BoolVar(&deleteArchive, "delete", false, "delete each archive after its password is recovered")
	cmd.Flags().BoolVar(&smart, "smart", false, "extract cluttering archives into a folder named after the archive")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "quiet period before a new file is processed")

	return cmd
}

type watchOptions struct {
	folders       []string
	wordlists     []string
	dest          string
	recursive     bool
	deleteArchive bool
	smart         bool
	debounce      time.Duration
}

func runWatch(ctx context.Context, opts watchOptions) error {
	logger := slog.Default()

	mgr := config.NewManager(viper.ConfigFileUsed())
	cfg, err := mgr.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := mgr.Validate(); err != nil {
		return fmt.Errorf("%w: %v", util.ErrInvalidConfig, err)
	}

	folders := opts.folders
	if len(folders) == 0 {
		folders = cfg.WatchFolders
	}
	if len(folders) == 0 {
		return fmt.Errorf("%w: no folders given and no watch_folders configured", util.ErrInvalidConfig)
	}

	candidates, err := collectCandidates(cfg, opts.wordlists)
	if err != nil {
		return err
	}

	runner, err := cracker.New(cracker.Options{
		Parallel: viper.GetInt("parallel"),
		Dest:     opts.dest,
		Delete:   opts.deleteArchive || cfg.Defaults.DeleteArchive,
		Smart:    opts.smart || cfg.Defaults.SmartMode,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	w, err := watcher.New(watcher.Options{
		Recursive: opts.recursive || cfg.Defaults.RecursiveSearch,
		Debounce:  opts.debounce,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	for _, folder := range folders {
		if err := w.AddFolder(folder); err != nil {
			return fmt.Errorf("failed to watch %s: %w", folder, err)
		}
		logger.Info("watching folder", "path", folder)
	}

	formatter := output.NewFormatter(
		output.Format(viper.GetString("output")),
		output.WithNoColor(viper.GetBool("no-color") || cfg.Defaults.NoColor))

	go func() {
		for path := range w.Archives() {
			crackOne(ctx, runner, formatter, path, candidates, logger)
		}
	}()

	return w.Run(ctx)
}

// crackOne runs the search for a single watched archive. Failures are
// logged, not fatal: the watch loop keeps going.
func crackOne(ctx context.Context, runner *cracker.Runner, formatter output.Formatter, path string, candidates []string, logger *slog.Logger) {
	logger.Info("new archive detected", "path", path)

	outcome, err := runner.Crack(ctx, []string{path}, candidates)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Error("crack failed", "path", path, "error", err)
		return
	}

	report := &output.Report{
		Targets: outcome.Targets,
		Result:  outcome.Result,
		Deleted: outcome.Deleted,
	}
	if err := formatter.FormatRun(os.Stdout, report); err != nil {
		logger.Error("failed to format result", "path", path, "error", err)
	}
}

func collectCandidates(cfg *config.Config, wordlists []string) ([]string, error) {
	lists := [][]string{cfg.Passwords}

	for _, path := range wordlists {
		words, err := wordlist.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load wordlist %s: %w", path, err)
		}
		lists = append(lists, words)
	}

	candidates := wordlist.Merge(lists...)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: configure a passwords list or pass -w", util.ErrNoCandidates)
	}

	return candidates, nil
}
