package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielNunesIT/curldocs/internal/domain"
	"github.com/GabrielNunesIT/curldocs/internal/jsonval"
)

func createTestDoc(t *testing.T) *domain.OpenAPIDocument {
	t.Helper()

	text := "curl -X GET 'https://api.ex.com/items/42' -H 'Authorization: Bearer t'\n\n" +
		`curl -X POST 'https://api.ex.com/items' -H 'Content-Type: application/json' -d '{"name":"n","qty":2}'`

	return build(t, "", text)
}

func TestWriter_WriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter().WriteJSON(createTestDoc(t), &buf))

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "{\n  \"openapi\": \"3.0.3\",\n  \"info\": {\n"))
	assert.Contains(t, output, `"/items/{id}": {`)
	assert.Contains(t, output, `"bearerFormat": "JWT"`)
	assert.True(t, strings.HasSuffix(output, "}\n"))

	var back domain.OpenAPIDocument
	require.NoError(t, back.UnmarshalJSON(buf.Bytes()))
	assert.Equal(t, createTestDoc(t), &back)
}

func TestWriter_WriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter().WriteYAML(createTestDoc(t), &buf))

	output := buf.String()
	assert.Contains(t, output, "openapi: 3.0.3")
	assert.Contains(t, output, "title: Shop API")
	assert.Contains(t, output, "/items/{id}:")
	assert.Contains(t, output, "schemas: {}")

	order := []string{"openapi:", "info:", "servers:", "paths:", "components:", "security:"}
	last := -1
	for _, key := range order {
		idx := strings.Index(output, "\n"+key)
		if key == "openapi:" {
			idx = strings.Index(output, key)
		}
		require.Greater(t, idx, last, key)
		last = idx
	}

	assert.Less(t, strings.Index(output, "name: n"), strings.Index(output, "qty: 2"))
}

func TestWriter_Write_UnsupportedFormat(t *testing.T) {
	err := NewWriter().Write(createTestDoc(t), "xml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, Check(ctx, createTestDoc(t)))

	broken := createTestDoc(t)
	broken.Info.Version = ""
	assert.Error(t, Check(ctx, broken))
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter()

	for _, name := range []string{"spec.json", "spec.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, writer.WriteFile(createTestDoc(t), path, ""))

			doc, err := Import(context.Background(), path)
			require.NoError(t, err)

			assert.Equal(t, "Shop API", doc.Info.Title)
			assert.Equal(t, "https://api.ex.com", doc.BaseURL())
			assert.Equal(t, []string{domain.BearerAuth}, doc.Security)

			require.Len(t, doc.Paths, 2)
			assert.Equal(t, "/items", doc.Paths[0].Path)
			assert.Equal(t, "/items/{id}", doc.Paths[1].Path)

			post, ok := doc.Operation("/items", "post")
			require.True(t, ok)
			require.NotNil(t, post.RequestBody)
			assert.Equal(t, jsonval.Object{
				{Key: "name", Value: "n"},
				{Key: "qty", Value: json.Number("2")},
			}, post.RequestBody.Example)
			assert.Len(t, post.Responses, 7)
		})
	}
}
