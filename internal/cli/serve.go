package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"vsm/internal/domain"
	"vsm/internal/logging"
	"vsm/internal/metrics"
	"vsm/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve rankings over HTTP",
	Long: `Start an HTTP server over the stored corpus.

Endpoints:
  GET  /search?q=...&limit=N&drop_zero=bool&require_all=bool
  POST /reload     rebuild the index from the corpus store
  GET  /stats      document and vocabulary counts
  GET  /health
  GET  /metrics    Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	st, err := openStore(true)
	if err != nil {
		return err
	}
	defer st.Close()

	m := metrics.New()
	ranker, err := newRanker(st, m)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(ranker, m, logging.WithComponent(logger, "server"), server.Options{
		Addr:            addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Defaults: domain.RankOptions{
			DropZero:   cfg.Rank.DropZero,
			RequireAll: cfg.Rank.RequireAll,
			Limit:      cfg.Rank.TopK,
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
