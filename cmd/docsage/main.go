package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	chatcmder "github.com/docsage/docsage/cmd/docsage/chat"
	ingestcmder "github.com/docsage/docsage/cmd/docsage/ingest"
	servecmder "github.com/docsage/docsage/cmd/docsage/serve"
)

func main() {
	// API keys come from the environment; a local .env is honored.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "docsage",
		Short: "Answer questions about a document with retrieval-grounded generation",
	}

	rootCmd.AddCommand(
		servecmder.NewServeCmd(),
		ingestcmder.NewIngestCmd(),
		chatcmder.NewChatCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
