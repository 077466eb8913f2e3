package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GabrielNunesIT/curldocs/internal/adapters/renderers"
	"github.com/GabrielNunesIT/curldocs/internal/curl"
	"github.com/GabrielNunesIT/curldocs/internal/openapi"
	"github.com/GabrielNunesIT/curldocs/internal/service"
)

func (c *CLI) projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	var name string

	create := &cobra.Command{
		Use:   "create <id>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return c.svc.CreateProject(args[0], name)
		},
	}
	create.Flags().StringVar(&name, "name", "", "Display name of the project (defaults to the id)")

	cmd.AddCommand(create)

	return cmd
}

func (c *CLI) ingestCmd() *cobra.Command {
	var (
		text  string
		curls []string
		files []string
	)

	cmd := &cobra.Command{
		Use:   "ingest <id>",
		Short: "Store cURL commands for a project, replacing earlier input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(files) > 0 {
				fromFiles, err := curl.ReadSources(files...)
				if err != nil {
					return fmt.Errorf("failed to read input files: %w", err)
				}

				text = strings.TrimSpace(text + "\n\n" + fromFiles)
			}

			batch, err := c.svc.Ingest(args[0], text, curls)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d request(s)\n", batch.Len())

			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Free text holding one or more cURL commands")
	cmd.Flags().StringArrayVarP(&curls, "curl", "c", nil, "A single cURL command (repeatable)")
	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "Glob of files holding cURL commands (repeatable, ** supported)")

	return cmd
}

func (c *CLI) generateCmd() *cobra.Command {
	var (
		name    string
		baseURL string
		noAI    bool
	)

	cmd := &cobra.Command{
		Use:   "generate <id>",
		Short: "Build the OpenAPI document and Markdown from the ingested requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			aiEnabled := c.cfg.AIEnabled && !noAI

			doc, err := c.svc.Generate(cmd.Context(), args[0], service.GenerateOptions{
				ProjectName: name,
				BaseURL:     baseURL,
				AIEnabled:   &aiEnabled,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d path(s)\n", len(doc.Paths))

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name used in the title (defaults to the stored name)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Base URL of the API (inferred from the first request when empty)")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "Skip operation descriptions")

	return cmd
}

func (c *CLI) renderCmd() *cobra.Command {
	var (
		style  string
		from   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render [id]",
		Short: "Render a project's OpenAPI document as Markdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.loadDocument(cmd, args, from)
			if err != nil {
				return err
			}

			return writeOutput(cmd, output, func(w io.Writer) error {
				_, err := io.WriteString(w, c.svc.Render(doc, style))
				return err
			})
		},
	}

	cmd.Flags().StringVar(&style, "style", renderers.StyleDefault, "Markdown style: "+strings.Join(renderers.Styles(), ", "))
	cmd.Flags().StringVar(&from, "from", "", "Render an existing OpenAPI file instead of a project")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (defaults to stdout)")

	return cmd
}

func (c *CLI) specCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "spec <id>",
		Short: "Print a project's OpenAPI document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.svc.OpenAPI(args[0])
			if err != nil {
				return err
			}

			writer := openapi.NewWriter()

			return writeOutput(cmd, output, func(w io.Writer) error {
				return writer.Write(doc, format, w)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (defaults to stdout)")

	return cmd
}

func (c *CLI) validateCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "validate [id]",
		Short: "Check an OpenAPI document with kin-openapi",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.loadDocument(cmd, args, from)
			if err != nil {
				return err
			}

			if err := openapi.Check(cmd.Context(), doc); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", doc.Info.Title)

			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Validate an existing OpenAPI file instead of a project")

	return cmd
}

func (c *CLI) exportCmd() *cobra.Command {
	var (
		style  string
		format string
		from   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Export a project's documentation as md, pdf, docx or confluence",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.loadDocument(cmd, args, from)
			if err != nil {
				return err
			}

			if format == "" {
				format = c.cfg.DefaultFormat
			}
			if style == "" {
				style = c.cfg.DefaultStyle
			}

			c.log.Infof("Converting to %s format...", format)

			err = writeOutput(cmd, output, func(w io.Writer) error {
				_, err := c.svc.ExportTo(doc, style, format, w)
				return err
			})
			if err != nil {
				return err
			}

			c.log.Infof("Successfully created: %s", output)

			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", "", "Markdown style: "+strings.Join(renderers.Styles(), ", "))
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: md, pdf, docx, confluence")
	cmd.Flags().StringVar(&from, "from", "", "Export an existing OpenAPI file instead of a project")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Path for the output file (required)")

	_ = cmd.MarkFlagRequired("output")

	return cmd
}
