package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/GabrielNunesIT/curldocs/internal/adapters/converters"
	"github.com/GabrielNunesIT/curldocs/internal/adapters/renderers"
	"github.com/GabrielNunesIT/curldocs/internal/curl"
	"github.com/GabrielNunesIT/curldocs/internal/service"
)

// inlineOptions are the flags shared by inline and watch.
type inlineOptions struct {
	baseURL string
	name    string
	style   string
	format  string
	output  string
}

func (o *inlineOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.baseURL, "base-url", "", "Base URL of the API (inferred from the first request when empty)")
	cmd.Flags().StringVar(&o.name, "name", "", "Project name used in the title")
	cmd.Flags().StringVar(&o.style, "style", "", "Markdown style: "+strings.Join(renderers.Styles(), ", "))
	cmd.Flags().StringVar(&o.format, "format", "md", "Output format: "+strings.Join(converters.Formats(), ", "))
}

func (c *CLI) inlineCmd() *cobra.Command {
	var (
		opts     inlineOptions
		patterns []string
	)

	cmd := &cobra.Command{
		Use:   "inline",
		Short: "Generate documentation straight from cURL files without a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeOutput(cmd, opts.output, func(w io.Writer) error {
				return c.runInline(cmd.Context(), patterns, opts, w)
			})
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringArrayVarP(&patterns, "input", "i", nil, "Glob of files holding cURL commands (repeatable, ** supported)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (defaults to stdout)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (c *CLI) watchCmd() *cobra.Command {
	var opts inlineOptions

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Regenerate documentation every time a cURL file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.watch(cmd.Context(), args[0], opts)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Path for the output file (required)")

	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// runInline reads the cURL files matched by patterns and writes the generated
// documentation to w.
func (c *CLI) runInline(ctx context.Context, patterns []string, opts inlineOptions, w io.Writer) error {
	text, err := curl.ReadSources(patterns...)
	if err != nil {
		return fmt.Errorf("failed to read input files: %w", err)
	}

	style := opts.style
	if style == "" {
		style = c.cfg.DefaultStyle
	}

	result, err := c.svc.Inline(ctx, service.InlineRequest{
		CurlsText:   text,
		BaseURL:     opts.baseURL,
		Style:       style,
		ProjectName: opts.name,
	})
	if err != nil {
		return err
	}

	_, err = c.svc.ExportTo(result.Document, style, opts.format, w)

	return err
}

// rebuild regenerates opts.output from path.
func (c *CLI) rebuild(ctx context.Context, path string, opts inlineOptions) error {
	return writeOutput(nil, opts.output, func(w io.Writer) error {
		return c.runInline(ctx, []string{path}, opts, w)
	})
}

// watch builds once, then rebuilds on every write to path until ctx is done.
// The parent directory is watched so editors that replace the file are followed.
func (c *CLI) watch(ctx context.Context, path string, opts inlineOptions) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	if err := c.rebuild(ctx, target, opts); err != nil {
		c.log.Errorf("Build failed: %v", err)
	} else {
		c.log.Infof("Wrote %s", opts.output)
	}

	c.log.Infof("Watching %s", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if err := c.rebuild(ctx, target, opts); err != nil {
				c.log.Errorf("Build failed: %v", err)
				continue
			}

			c.log.Infof("Wrote %s", opts.output)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			c.log.Errorf("Watch error: %v", err)
		}
	}
}
