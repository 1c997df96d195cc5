package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"vsm/config"
	"vsm/internal/adapter/store"
	"vsm/internal/adapter/vectorspace"
	"vsm/internal/domain"
	"vsm/internal/eval"
)

// checkFlags rejects a missing query and non-positive run or result counts.
func checkFlags(query string, runs, topK int) error {
	switch {
	case query == "":
		return errors.New("-q is required")
	case runs < 1:
		return fmt.Errorf("-n must be at least 1, got %d", runs)
	case topK < 1:
		return fmt.Errorf("-k must be at least 1, got %d", topK)
	}
	return nil
}

func main() {
	corpusDir := flag.String("dir", ".", "Directory holding .vsm/corpus.db")
	query := flag.String("q", "", "Query to rank")
	runs := flag.Int("n", 200, "Number of timed rank runs")
	topK := flag.Int("k", 10, "Number of results to print and evaluate")
	relevant := flag.String("relevant", "", "Comma-separated ids of relevant documents (enables quality metrics)")
	flag.Parse()

	if err := checkFlags(*query, *runs, *topK); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir ./corpus -q \"query\" [-n 200]")
		fmt.Println("\nMeasures:")
		fmt.Println("  1. Index build time over the stored corpus")
		fmt.Println("  2. Rank latency percentiles over -n runs")
		fmt.Println("  3. Precision, recall and reciprocal rank at -k when -relevant is set")
		os.Exit(1)
	}

	st, err := store.NewBoltStore(config.CorpusDBPath(*corpusDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening corpus: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	docs, err := st.ListDocs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing documents: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("VECTOR SPACE RANKING BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))

	start := time.Now()
	ix, err := vectorspace.BuildIndex(docs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building index: %v\n", err)
		os.Exit(1)
	}
	build := time.Since(start)

	stats := ix.Stats()
	fmt.Printf("Documents:  %d\n", stats.Documents)
	fmt.Printf("Vocabulary: %d terms\n", stats.Terms)
	fmt.Printf("Build time: %s\n\n", build)

	fmt.Printf("Query: \"%s\"\n", *query)
	fmt.Println(strings.Repeat("-", 70))

	var results []domain.ScoredDocument
	latencies := make([]time.Duration, 0, *runs)
	for i := 0; i < *runs; i++ {
		t := time.Now()
		results = ix.Rank(*query)
		latencies = append(latencies, time.Since(t))
	}

	shown := results
	if len(shown) > *topK {
		shown = shown[:*topK]
	}
	fmt.Printf("Top %d of %d:\n\n", len(shown), len(results))
	for i, r := range shown {
		fmt.Printf("%d. [%.4f] %s\n", i+1, r.Score, r.DocID)
	}

	if *relevant != "" {
		report := eval.Evaluate(results, strings.Split(*relevant, ","), *topK)
		fmt.Println()
		fmt.Println(strings.Repeat("=", 70))
		fmt.Printf("QUALITY METRICS (k=%d):\n", report.K)
		fmt.Printf("  Precision:       %.3f\n", report.Precision)
		fmt.Printf("  Recall:          %.3f\n", report.Recall)
		fmt.Printf("  Reciprocal rank: %.3f\n", report.ReciprocalRank)
	}

	if len(latencies) == 0 {
		return
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("RANK LATENCY (%d runs):\n", len(latencies))
	fmt.Printf("  p50: %s\n", percentile(latencies, 0.50))
	fmt.Printf("  p90: %s\n", percentile(latencies, 0.90))
	fmt.Printf("  p99: %s\n", percentile(latencies, 0.99))
	fmt.Printf("  max: %s\n", latencies[len(latencies)-1])
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}
