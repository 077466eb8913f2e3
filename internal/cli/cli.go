// Package cli provides the command-line interface for curldocs.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/spf13/cobra"

	"github.com/GabrielNunesIT/curldocs/internal/adapters/storage"
	"github.com/GabrielNunesIT/curldocs/internal/config"
	"github.com/GabrielNunesIT/curldocs/internal/domain"
	"github.com/GabrielNunesIT/curldocs/internal/openapi"
	"github.com/GabrielNunesIT/curldocs/internal/service"
)

// CLI holds the command-line interface configuration.
type CLI struct {
	log        logger.ILogger
	rootCmd    *cobra.Command
	configFile string
	dataDir    string

	cfg *config.Config
	svc *service.Service
}

// New creates a new CLI instance.
func New(log logger.ILogger) *CLI {
	cli := &CLI{
		log: log,
	}

	cli.rootCmd = &cobra.Command{
		Use:               "curldocs",
		Short:             "Generate API documentation from cURL commands",
		Long:              "A CLI tool that turns cURL commands into an OpenAPI 3.0 document and renders it as Markdown, PDF, Word (DOCX) or Confluence (ADF) documentation.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.setup,
	}

	cli.setupFlags()

	cli.rootCmd.AddCommand(
		cli.projectCmd(),
		cli.ingestCmd(),
		cli.generateCmd(),
		cli.renderCmd(),
		cli.specCmd(),
		cli.validateCmd(),
		cli.exportCmd(),
		cli.inlineCmd(),
		cli.watchCmd(),
		cli.serveCmd(),
	)

	return cli
}

func (c *CLI) setupFlags() {
	c.rootCmd.PersistentFlags().StringVar(&c.configFile, "config", "", "Path to a configuration file (json or yaml)")
	c.rootCmd.PersistentFlags().StringVar(&c.dataDir, "data-dir", "", "Directory holding the project store (overrides data_dir)")
}

// SetArgs overrides the command-line arguments.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
}

// Execute runs the CLI.
func (c *CLI) Execute() error {
	return c.rootCmd.Execute()
}

// ExecuteContext runs the CLI with ctx.
func (c *CLI) ExecuteContext(ctx context.Context) error {
	return c.rootCmd.ExecuteContext(ctx)
}

// setup loads the configuration and builds the pipeline service.
func (c *CLI) setup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}

	if c.dataDir != "" {
		cfg.DataDir = c.dataDir
	}

	c.cfg = cfg
	c.svc = service.New(c.log, storage.NewFileStore(cfg.DataDir),
		service.WithValidation(cfg.ValidateSpec),
		service.WithDefaultStyle(cfg.DefaultStyle),
	)

	return nil
}

// loadDocument returns the document of the imported file when from is set, otherwise the
// project's stored document.
func (c *CLI) loadDocument(cmd *cobra.Command, args []string, from string) (*domain.OpenAPIDocument, error) {
	if from != "" {
		c.log.Infof("Loading OpenAPI specification from: %s", from)

		return openapi.Import(cmd.Context(), from)
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("a project id or --from is required")
	}

	return c.svc.OpenAPI(args[0])
}

// writeOutput writes through fn to path, or to the command output when path is empty.
func writeOutput(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(cmd.OutOrStdout())
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := fn(file); err != nil {
		_ = file.Close()

		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	return nil
}
