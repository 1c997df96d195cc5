package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"vsm/internal/adapter/vectorspace"
	"vsm/internal/domain"
)

var (
	queryText       string
	queryTopK       int
	queryJSON       bool
	queryDropZero   bool
	queryRequireAll bool
	queryExplain    bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Rank documents against a query",
	Long: `Rank every document in the corpus by cosine similarity between its TF-IDF
vector and the query's. Ties are broken by ascending document id.

Examples:
  vsm query -q "cat dog"
  vsm query -q "cat dog" --top-k 0 --json
  vsm query -q "zephyr" --drop-zero --explain`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results, 0 for all (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.Flags().BoolVar(&queryDropZero, "drop-zero", false, "omit documents scoring 0")
	queryCmd.Flags().BoolVar(&queryRequireAll, "require-all", false, "only documents containing every query term")
	queryCmd.Flags().BoolVar(&queryExplain, "explain", false, "show query term weights and per-term contributions")
	_ = queryCmd.MarkFlagRequired("query")
}

// rankOptions merges config defaults with flags the user set explicitly.
func rankOptions(cmd *cobra.Command) domain.RankOptions {
	cfg := GetConfig()
	opts := domain.RankOptions{
		DropZero:   cfg.Rank.DropZero,
		RequireAll: cfg.Rank.RequireAll,
		Limit:      cfg.Rank.TopK,
	}
	flags := cmd.Flags()
	if flags.Changed("top-k") {
		opts.Limit = queryTopK
	}
	if flags.Changed("drop-zero") {
		opts.DropZero = queryDropZero
	}
	if flags.Changed("require-all") {
		opts.RequireAll = queryRequireAll
	}
	return opts
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryTopK < 0 {
		return fmt.Errorf("--top-k must be >= 0")
	}

	st, err := openStore(false)
	if err != nil {
		return err
	}
	defer st.Close()

	ranker, err := newRanker(st, nil)
	if err != nil {
		return err
	}

	results, err := ranker.Rank(queryText, rankOptions(cmd))
	if err != nil {
		return fmt.Errorf("rank failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if queryJSON {
		if results == nil {
			results = []domain.ScoredDocument{}
		}
		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	fmt.Fprintf(out, "Found %d results for: %s\n\n", len(results), queryText)
	printResults(out, results, GetConfig().Rank.Precision)

	if queryExplain {
		explain(out, ranker.Index(), queryText, results)
	}
	return nil
}

func printResults(w io.Writer, results []domain.ScoredDocument, precision int) {
	for _, r := range results {
		fmt.Fprintf(w, "%.*f: %s\n", precision, r.Score, r.DocID)
	}
}

// explain prints the query's unit weights and, per result, the product of
// query and document weight for every shared term. The products sum to the score.
func explain(w io.Writer, ix *vectorspace.Index, query string, results []domain.ScoredDocument) {
	qv := ix.QueryVector(query)

	fmt.Fprintf(w, "\nQuery terms:\n")
	unknown, ubiquitous := ix.DroppedTerms(query)
	if len(unknown) > 0 {
		fmt.Fprintf(w, "  not in corpus:      %s\n", strings.Join(unknown, " "))
	}
	if len(ubiquitous) > 0 {
		fmt.Fprintf(w, "  in every document:  %s\n", strings.Join(ubiquitous, " "))
	}
	if qv.IsZero() {
		fmt.Fprintf(w, "  (no weighted terms)\n")
		return
	}
	for _, tw := range qv {
		fmt.Fprintf(w, "  %-20s idf=%.4f weight=%.4f\n", tw.Term, ix.Vocabulary().IDF(tw.Term), tw.Value)
	}

	fmt.Fprintf(w, "\nContributions:\n")
	for _, r := range results {
		dv, ok := ix.Vector(r.DocID)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %s (length %.4f)\n", r.DocID, ix.Length(r.DocID))
		for _, tw := range qv {
			if d := dv.Get(tw.Term); d != 0 {
				fmt.Fprintf(w, "    %-18s %.4f\n", tw.Term, d*tw.Value)
			}
		}
	}
}
