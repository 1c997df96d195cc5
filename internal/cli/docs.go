package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"vsm/internal/adapter/fs"
	"vsm/internal/domain"
	"vsm/internal/logging"
	"vsm/internal/port"
	"vsm/internal/usecase"
)

var docsJSON bool

var docsCmd = &cobra.Command{
	Use:   "docs [id]",
	Short: "List documents in the corpus, or print one document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocs,
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Remove documents from the corpus",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(rmCmd)
	docsCmd.Flags().BoolVar(&docsJSON, "json", false, "output as JSON")
}

type docView struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Bytes   int    `json:"bytes"`
	AddedAt string `json:"added_at"`
	Text    string `json:"text,omitempty"`
}

func newDocView(d domain.Document) docView {
	return docView{
		ID:      d.ID,
		Source:  d.Source,
		Bytes:   len(d.Text),
		AddedAt: d.AddedAt.Format("2006-01-02 15:04:05"),
	}
}

func runDocs(cmd *cobra.Command, args []string) error {
	st, err := openStore(false)
	if err != nil {
		return err
	}
	defer st.Close()

	if len(args) == 1 {
		return showDoc(cmd, st, args[0])
	}

	docs, err := st.ListDocs()
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	views := make([]docView, len(docs))
	for i, d := range docs {
		views[i] = newDocView(d)
	}

	out := cmd.OutOrStdout()
	if docsJSON {
		output, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(output))
		return nil
	}

	if len(views) == 0 {
		fmt.Fprintln(out, "Corpus is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBYTES\tADDED\tSOURCE")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", v.ID, v.Bytes, v.AddedAt, v.Source)
	}
	return tw.Flush()
}

func showDoc(cmd *cobra.Command, st port.CorpusStore, id string) error {
	doc, err := st.GetDoc(id)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return fmt.Errorf("document %q not found", id)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if docsJSON {
		view := newDocView(doc)
		view.Text = doc.Text
		output, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(output))
		return nil
	}
	fmt.Fprintln(out, doc.Text)
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	st, err := openStore(false)
	if err != nil {
		return err
	}
	defer st.Close()

	cfg := GetConfig()
	walker := fs.NewWalker(cfg.Corpus.Includes, cfg.Corpus.Excludes, cfg.Corpus.MaxFileBytes)
	loadUC := usecase.NewLoadUseCase(st, walker, logging.WithComponent(logger, "load"))

	var missing []string
	for _, id := range args {
		if err := loadUC.Remove(id); err != nil {
			if errors.Is(err, domain.ErrDocumentNotFound) {
				missing = append(missing, id)
				continue
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%d document(s) not found: %v", len(missing), missing)
	}
	return nil
}
