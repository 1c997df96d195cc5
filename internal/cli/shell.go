package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"vsm/internal/domain"
)

var shellAny bool

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive search prompt",
	Long: `Read queries from standard input, one per line, and print the matching
documents as "score: id" lines. By default only documents containing every
query term are listed; --any ranks the whole corpus. Type "exit" or send EOF
to quit.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().BoolVar(&shellAny, "any", false, "rank every document instead of requiring all query terms")
}

func runShell(cmd *cobra.Command, args []string) error {
	st, err := openStore(false)
	if err != nil {
		return err
	}
	defer st.Close()

	ranker, err := newRanker(st, nil)
	if err != nil {
		return err
	}

	cfg := GetConfig()
	opts := domain.RankOptions{
		RequireAll: !shellAny,
		DropZero:   cfg.Rank.DropZero,
		Limit:      cfg.Rank.TopK,
	}

	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	for {
		fmt.Fprint(out, "Search query >> ")
		if !in.Scan() {
			fmt.Fprintln(out)
			return in.Err()
		}

		line := strings.TrimSpace(in.Text())
		if line == "exit" || line == "quit" {
			return nil
		}

		results, err := ranker.Rank(line, opts)
		if err != nil {
			return fmt.Errorf("rank failed: %w", err)
		}

		switch {
		case len(results) > 0:
			printResults(out, results, cfg.Rank.Precision)
		case opts.RequireAll:
			fmt.Fprintln(out, "No documents matched all query terms.")
		default:
			fmt.Fprintln(out, "No documents matched.")
		}
	}
}
