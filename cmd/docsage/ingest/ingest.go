package ingestcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsage/docsage/pkg/ingest"
	"github.com/docsage/docsage/pkg/logger"
	"github.com/docsage/docsage/server"
)

const ingestLongDesc = `Index a source document into the similarity index.

Reads a plain-text or markdown file, splits it into overlapping chunks,
embeds each chunk, and upserts the passage vectors into the index backend
named in the config. The running service picks the new passages up on the
next query; no restart is needed.

Examples:
  docsage ingest dsa.txt
  docsage ingest --config docsage.toml --chunk-size 800 notes.md`

type ingestCommander struct {
	configPath  string
	chunkSize   int
	overlap     int
	concurrency int
	debug       bool
}

// NewIngestCmd builds the ingest subcommand.
func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Index a source document",
		Long:  ingestLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to TOML config file")
	cmd.Flags().IntVar(&cmder.chunkSize, "chunk-size", 1000, "Chunk size in runes")
	cmd.Flags().IntVar(&cmder.overlap, "overlap", 200, "Chunk overlap in runes")
	cmd.Flags().IntVar(&cmder.concurrency, "concurrency", 5, "Concurrent embedding calls")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *ingestCommander) run(cmd *cobra.Command, path string) error {
	log := logger.New(c.debug)
	defer log.Sync()

	config, err := server.LoadConfig(c.configPath)
	if err != nil {
		return err
	}

	gem, err := config.Gemini.NewGeminiClient()
	if err != nil {
		return err
	}
	idx, closeIdx, err := config.Index.OpenIndex()
	if err != nil {
		return err
	}
	defer closeIdx()

	ing := ingest.New(gem, idx,
		ingest.WithSplitter(ingest.NewSplitter(c.chunkSize, c.overlap)),
		ingest.WithConcurrency(c.concurrency),
		ingest.WithLogger(log),
	)

	n, err := ing.IngestFile(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d passages from %s\n", n, path)
	return nil
}
