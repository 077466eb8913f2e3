package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielNunesIT/curldocs/internal/domain"
)

const curls = "curl -X GET 'https://api.ex.com/items/42'\n\n" +
	`curl -X POST 'https://api.ex.com/items' -H 'Content-Type: application/json' -d '{"name":"n"}'`

func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()

	c := New(logger.NewConsoleLogger(io.Discard))

	var out bytes.Buffer
	c.SetOutput(&out)
	c.SetArgs(append([]string{"--data-dir", dataDir}, args...))

	err := c.Execute()

	return out.String(), err
}

func TestProjectPipeline(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()

	_, err := run(t, dataDir, "project", "create", "shop", "--name", "Shop")
	require.NoError(t, err)

	out, err := run(t, dataDir, "ingest", "shop", "-t", curls)
	require.NoError(t, err)
	assert.Equal(t, "Ingested 2 request(s)\n", out)

	out, err = run(t, dataDir, "generate", "shop", "--no-ai")
	require.NoError(t, err)
	assert.Equal(t, "Generated 2 path(s)\n", out)

	out, err = run(t, dataDir, "render", "shop", "--style", "default")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Shop API\n"), out)

	out, err = run(t, dataDir, "spec", "shop", "--format", "yaml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "openapi:"), out)

	out, err = run(t, dataDir, "validate", "shop")
	require.NoError(t, err)
	assert.Equal(t, "Shop API is valid\n", out)

	pdfPath := filepath.Join(outDir, "shop.pdf")
	_, err = run(t, dataDir, "export", "shop", "-f", "pdf", "-o", pdfPath)
	require.NoError(t, err)

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderFromFile(t *testing.T) {
	dataDir := t.TempDir()

	_, err := run(t, dataDir, "project", "create", "shop")
	require.NoError(t, err)
	_, err = run(t, dataDir, "ingest", "shop", "-c", "curl https://api.ex.com/users")
	require.NoError(t, err)
	_, err = run(t, dataDir, "generate", "shop")
	require.NoError(t, err)

	specPath := filepath.Join(t.TempDir(), "openapi.json")
	_, err = run(t, dataDir, "spec", "shop", "-o", specPath)
	require.NoError(t, err)

	out, err := run(t, t.TempDir(), "render", "--from", specPath, "--style", "default")
	require.NoError(t, err)
	assert.Contains(t, out, "## /users")
}

func TestIngestErrors(t *testing.T) {
	dataDir := t.TempDir()

	_, err := run(t, dataDir, "ingest", "missing", "-t", curls)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = run(t, dataDir, "project", "create", "p")
	require.NoError(t, err)

	_, err = run(t, dataDir, "ingest", "p", "-t", "no commands here")
	assert.ErrorIs(t, err, domain.ErrBadInput)

	_, err = run(t, dataDir, "ingest", "p", "-f", filepath.Join(t.TempDir(), "*.curl"))
	assert.ErrorContains(t, err, "no files match")

	_, err = run(t, dataDir, "render")
	assert.ErrorContains(t, err, "a project id or --from is required")
}

func TestInline(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.curl"), []byte("curl https://api.ex.com/a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.curl"), []byte("curl https://api.ex.com/b"), 0o644))

	out, err := run(t, t.TempDir(), "inline", "-i", filepath.Join(dir, "**", "*.curl"), "--style", "default")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Ad-hoc API API\n"), out)
	assert.Contains(t, out, "## /a\n")
	assert.Contains(t, out, "## /b\n")

	_, err = run(t, t.TempDir(), "inline", "-i", filepath.Join(dir, "*.curl"), "--format", "html")
	assert.ErrorIs(t, err, domain.ErrBadInput)
}

func TestWatch_InitialBuild(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "requests.curl")
	output := filepath.Join(dir, "docs.md")
	require.NoError(t, os.WriteFile(input, []byte(curls), 0o644))

	c := New(logger.NewConsoleLogger(io.Discard))
	c.dataDir = t.TempDir()
	require.NoError(t, c.setup(nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, c.watch(ctx, input, inlineOptions{style: "vendor", format: "md", output: output}))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# API Documentation: Ad-hoc API\n"))
}
