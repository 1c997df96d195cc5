package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"vsm/config"
	"vsm/internal/adapter/fs"
	"vsm/internal/logging"
	"vsm/internal/usecase"
)

var (
	loadID    string
	loadText  string
	loadReset bool
)

var loadCmd = &cobra.Command{
	Use:   "load [path]",
	Short: "Load documents into the corpus",
	Long: `Load text files from a directory into the corpus, or add a single
document from a string. Each file's id is its path relative to the loaded
directory. The corpus is stored in .vsm/corpus.db within --dir.

Examples:
  vsm load ./docs                              # Load a directory
  vsm load --id d1 --text "the cat sat"        # Add one document
  vsm load ./docs --reset                      # Empty the corpus first`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVar(&loadID, "id", "", "document id for --text")
	loadCmd.Flags().StringVar(&loadText, "text", "", "document text to add under --id")
	loadCmd.Flags().BoolVar(&loadReset, "reset", false, "remove every document before loading")
	loadCmd.MarkFlagsRequiredTogether("id", "text")
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	st, err := openStore(true)
	if err != nil {
		return err
	}
	defer st.Close()

	walker := fs.NewWalker(cfg.Corpus.Includes, cfg.Corpus.Excludes, cfg.Corpus.MaxFileBytes)
	loadUC := usecase.NewLoadUseCase(st, walker, logging.WithComponent(logger, "load"))

	if cmd.Flags().Changed("id") && len(args) > 0 {
		return fmt.Errorf("use either a path or --id/--text, not both")
	}

	if loadReset {
		if err := st.Clear(); err != nil {
			return fmt.Errorf("failed to reset corpus: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Corpus reset.")
	}

	if cmd.Flags().Changed("id") {
		if err := loadUC.AddText(loadID, loadText); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added document %q\n", loadID)
		return nil
	}

	path := GetRootDir()
	if len(args) > 0 {
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scanning %s...\n", path)

	// Created lazily once the total file count is known.
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	progress := func(processed, total int, current string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Loading[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}),
			)
		}

		_ = bar.Set(processed)

		elapsed := time.Since(startTime)
		if processed > 0 && elapsed > 0 {
			rate := float64(processed) / elapsed.Seconds()
			eta := time.Duration(float64(total-processed)/rate) * time.Second
			bar.Describe(fmt.Sprintf("[cyan]Loading[reset] ETA: %s", formatDuration(eta)))
		}
	}

	result, err := loadUC.Load(path, progress)
	if err != nil {
		return fmt.Errorf("loading failed: %w", err)
	}

	count, err := st.Count()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nLoading complete:\n")
	fmt.Fprintf(out, "  Documents loaded:  %d\n", result.Loaded)
	fmt.Fprintf(out, "  Documents skipped: %d (unchanged)\n", result.Skipped)
	fmt.Fprintf(out, "  Documents removed: %d (file gone)\n", result.Removed)
	fmt.Fprintf(out, "  Corpus size:       %d\n", count)

	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  - %s\n", e)
		}
	}

	fmt.Fprintf(out, "\nCorpus stored at: %s\n", config.CorpusDBPath(GetRootDir()))
	return nil
}
