package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"vsm/config"
	"vsm/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
	logger  *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vsm",
	Short: "Vector space search - rank documents by TF-IDF cosine similarity",
	Long: `vsm keeps a corpus of text documents and ranks them against free-text
queries using TF-IDF weights and cosine similarity.

Example usage:
  vsm load ./docs                 # Load a directory of text files
  vsm load --id note --text "..."  # Add a single document
  vsm query -q "cat dog"          # Rank documents against a query
  vsm shell                       # Interactive search prompt
  vsm serve                       # HTTP search API`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger = logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./vsm.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "directory holding .vsm/corpus.db (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
