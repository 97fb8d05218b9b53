package servecmder

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docsage/docsage/pkg/logger"
	"github.com/docsage/docsage/pkg/pipeline"
	"github.com/docsage/docsage/server"
)

const serveLongDesc = `Run the docsage HTTP service.

The service answers questions over POST /api/chat, grounding each answer
in passages retrieved from the configured similarity index. Ingest a
document first with "docsage ingest".

Examples:
  docsage serve
  docsage serve --config docsage.toml --listen :6061 --debug`

type serveCommander struct {
	configPath string
	listen     string
	debug      bool
}

// NewServeCmd builds the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the docsage HTTP service",
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to TOML config file")
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Override the listen address")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *serveCommander) run() error {
	log := logger.New(c.debug)
	defer log.Sync()

	config, err := server.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.listen != "" {
		config.ListenAddr = c.listen
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

	p := pipeline.New(gem, gem, idx,
		pipeline.WithTopK(config.TopK),
		pipeline.WithLogger(log),
	)

	srv := server.New(config, p, log)
	if err := srv.Run(); err != nil {
		log.Error("server failed", zap.Error(err))
		return err
	}
	return nil
}
