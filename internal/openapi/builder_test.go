package openapi

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielNunesIT/curldocs/internal/curl"
	"github.com/GabrielNunesIT/curldocs/internal/domain"
	"github.com/GabrielNunesIT/curldocs/internal/jsonval"
)

func build(t *testing.T, hint string, text string, opts ...Option) *domain.OpenAPIDocument {
	t.Helper()

	batch := curl.ParseInputs(text, nil)
	require.NotEmpty(t, batch.Requests)

	return NewBuilder(opts...).Build("Shop", hint, batch.Requests)
}

func TestBuild_Scenario(t *testing.T) {
	text := "curl -X GET 'https://api.ex.com/items/42'\n\n" +
		`curl -X POST 'https://api.ex.com/items' -H 'Content-Type: application/json' -d '{"name":"n"}'`

	doc := build(t, "", text)

	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Equal(t, domain.Info{Title: "Shop API", Version: "0.1.0"}, doc.Info)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "https://api.ex.com", doc.Servers[0].URL)

	require.Len(t, doc.Paths, 2)
	assert.Equal(t, "/items/{id}", doc.Paths[0].Path)
	assert.Equal(t, "/items", doc.Paths[1].Path)

	get, ok := doc.Operation("/items/{id}", "get")
	require.True(t, ok)
	assert.Equal(t, "GET /items/42", get.Summary)
	assert.Equal(t, "get_items_42", get.OperationID)
	assert.Equal(t, []string{"items"}, get.Tags)
	assert.Equal(t, []domain.Parameter{
		{In: "path", Name: "id", Required: true, Schema: &domain.Schema{Type: "string"}},
	}, get.Parameters)

	post, ok := doc.Operation("/items", "post")
	require.True(t, ok)
	require.NotNil(t, post.RequestBody)
	assert.Equal(t, "object", post.RequestBody.Schema.Type)
	assert.Equal(t, jsonval.Object{{Key: "name", Value: "n"}}, post.RequestBody.Example)
	assert.Equal(t, []domain.Parameter{
		{In: "header", Name: "Content-Type", Schema: &domain.Schema{Type: "string"}, Example: "application/json"},
	}, post.Parameters)
}

func TestBuild_StandardResponses(t *testing.T) {
	doc := build(t, "", "curl https://h/a")

	op, ok := doc.Operation("/a", "get")
	require.True(t, ok)

	var codes []string
	for _, r := range op.Responses {
		codes = append(codes, r.StatusCode+" "+r.Description)
	}
	assert.Equal(t, []string{
		"200 OK", "400 Bad Request", "401 Unauthorized", "403 Forbidden",
		"404 Not Found", "429 Too Many Requests", "500 Internal Server Error",
	}, codes)
	assert.Equal(t, &domain.Schema{Type: "object"}, op.Responses[0].Schema)
}

func TestBuild_LastRequestWins(t *testing.T) {
	text := "curl https://h/a -H 'X-First: 1'\n\ncurl https://h/b\n\ncurl https://h/a -H 'X-Second: 2'"
	doc := build(t, "", text)

	require.Len(t, doc.Paths, 2)
	assert.Equal(t, "/a", doc.Paths[0].Path)
	require.Len(t, doc.Paths[0].Operations, 1)

	params := doc.Paths[0].Operations[0].Parameters
	require.Len(t, params, 1)
	assert.Equal(t, "X-Second", params[0].Name)
}

func TestBuild_Security(t *testing.T) {
	t.Run("bearer", func(t *testing.T) {
		doc := build(t, "", `curl -H "Authorization: Bearer abc" https://x/y`)

		op, ok := doc.Operation("/y", "get")
		require.True(t, ok)
		assert.Empty(t, op.ParametersIn("header"))
		assert.Equal(t, []string{domain.BearerAuth}, doc.Security)
		assert.Equal(t, []domain.SecurityScheme{
			{Name: domain.BearerAuth, Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
		}, doc.Components.SecuritySchemes)
	})

	t.Run("api key after bearer", func(t *testing.T) {
		text := "curl https://x/a -H 'api-key: k'\n\ncurl https://x/b -H 'authorization: bearer t'"
		doc := build(t, "", text)

		assert.Equal(t, []string{domain.BearerAuth, domain.APIKeyAuth}, doc.Security)
		require.Len(t, doc.Components.SecuritySchemes, 2)
		assert.Equal(t, domain.SecurityScheme{Name: domain.APIKeyAuth, Type: "apiKey", In: "header", HeaderName: "X-API-Key"},
			doc.Components.SecuritySchemes[1])
	})

	t.Run("basic auth stays a masked header", func(t *testing.T) {
		doc := build(t, "", "curl https://x/a -H 'Authorization: Basic dXNlcjpwYXNz'")

		assert.Empty(t, doc.Security)
		op, _ := doc.Operation("/a", "get")
		assert.Equal(t, []domain.Parameter{
			{In: "header", Name: "Authorization", Schema: &domain.Schema{Type: "string"}, Example: "***"},
		}, op.Parameters)
	})
}

func TestBuild_PathTemplating(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://h/users/12345/orders", "/users/{id}/orders"},
		{"https://h/users/1/orders/2", "/users/{id}/orders/2"},
		{"https://h/doc/550e8400-e29b-41d4-a716-446655440000", "/doc/{id}"},
		{"https://h/blob/deadbeef", "/blob/{id}"},
		{"https://h/1234567x/123456", "/1234567x/{id}"},
		{"https://h/abc/list", "/abc/list"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			doc := build(t, "", "curl "+tt.url)
			require.Len(t, doc.Paths, 1)
			assert.Equal(t, tt.expected, doc.Paths[0].Path)

			pathParams := doc.Paths[0].Operations[0].ParametersIn("path")
			if strings.Contains(tt.expected, "{id}") {
				require.Len(t, pathParams, 1)
				assert.Equal(t, "id", pathParams[0].Name)
				assert.True(t, pathParams[0].Required)
			} else {
				assert.Empty(t, pathParams)
			}
		})
	}
}

func TestBuild_QueryParameters(t *testing.T) {
	doc := build(t, "", "curl 'https://h/search?q=1&page=2&&flag'")

	require.Len(t, doc.Paths, 1)
	assert.Equal(t, "/search", doc.Paths[0].Path)

	op := doc.Paths[0].Operations[0]
	assert.Equal(t, "GET /search?q=1&page=2&&flag", op.Summary)
	assert.Equal(t, "get_search_q_1_page_2_flag", op.OperationID)
	assert.Equal(t, []string{"search?q=1&page=2&&flag"}, op.Tags)

	var names []string
	for _, p := range op.ParametersIn("query") {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"q", "page", "flag"}, names)
	assert.Equal(t, "Retrieves data for `/search` with query filters ['q', 'page', 'flag'].", op.Description)
}

func TestBuild_PathResolution(t *testing.T) {
	t.Run("hint wins and is trimmed", func(t *testing.T) {
		doc := build(t, "https://h/api/", "curl https://h/api/v1/x")
		assert.Equal(t, "https://h/api", doc.BaseURL())
		assert.Equal(t, "/v1/x", doc.Paths[0].Path)
		assert.Equal(t, []string{"v1"}, doc.Paths[0].Operations[0].Tags)
	})

	t.Run("relative url", func(t *testing.T) {
		doc := NewBuilder().Build("P", "", []domain.ParsedRequest{{Method: "GET", URL: "items"}})
		assert.Empty(t, doc.Servers)
		assert.Equal(t, "/items", doc.Paths[0].Path)
	})

	t.Run("root with query", func(t *testing.T) {
		doc := NewBuilder().Build("P", "", []domain.ParsedRequest{{Method: "GET", URL: "/?x=1"}})
		assert.Equal(t, "/", doc.Paths[0].Path)
		assert.Equal(t, []string{"?x=1"}, doc.Paths[0].Operations[0].Tags)
	})

	t.Run("tag keeps the query suffix", func(t *testing.T) {
		doc := build(t, "", "curl 'https://h/items?page=1'")
		assert.Equal(t, "/items", doc.Paths[0].Path)
		assert.Equal(t, []string{"items?page=1"}, doc.Paths[0].Operations[0].Tags)
	})

	t.Run("bare root is general", func(t *testing.T) {
		doc := NewBuilder().Build("P", "", []domain.ParsedRequest{{Method: "GET", URL: "/"}})
		assert.Equal(t, []string{"general"}, doc.Paths[0].Operations[0].Tags)
	})
}

func TestBuild_RequestBodyInference(t *testing.T) {
	body := func(s string) *string { return &s }

	tests := []struct {
		name    string
		body    string
		typ     string
		example any
	}{
		{"object", `{"a":1}`, "object", jsonval.Object{{Key: "a", Value: json.Number("1")}}},
		{"array", `[1, 2]`, "array", []any{json.Number("1"), json.Number("2")}},
		{"escaped object", `{\"a\":true}`, "object", jsonval.Object{{Key: "a", Value: true}}},
		{"number", `42`, "object", json.Number("42")},
		{"plain text", `hello`, "string", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := domain.ParsedRequest{Method: "POST", URL: "/a", Body: body(tt.body)}
			doc := NewBuilder().Build("P", "", []domain.ParsedRequest{req})

			op := doc.Paths[0].Operations[0]
			require.NotNil(t, op.RequestBody)
			assert.Equal(t, tt.typ, op.RequestBody.Schema.Type)
			assert.Equal(t, tt.example, op.RequestBody.Example)
		})
	}

	doc := NewBuilder().Build("P", "", []domain.ParsedRequest{{Method: "POST", URL: "/a", Body: body("")}})
	assert.Nil(t, doc.Paths[0].Operations[0].RequestBody)
}

func TestDescribe(t *testing.T) {
	keys := make([]string, 0, 13)
	obj := jsonval.Object{}
	for i := 0; i < 13; i++ {
		key := string(rune('a' + i))
		keys = append(keys, "'"+key+"'")
		obj.Set(key, json.Number("1"))
	}

	doc := &domain.OpenAPIDocument{}
	doc.SetOperation("/a", domain.Operation{
		Method:      "post",
		RequestBody: &domain.RequestBody{Schema: domain.Schema{Type: "object"}, Example: obj},
	})
	doc.SetOperation("/b", domain.Operation{Method: "delete"})
	doc.SetOperation("/c", domain.Operation{
		Method:     "get",
		Parameters: []domain.Parameter{{In: "query", Name: "it's"}},
	})

	Describe(doc)

	assert.Equal(t, "Processes data for `/a` using body fields ["+strings.Join(keys[:12], ", ")+"].",
		doc.Paths[0].Operations[0].Description)
	assert.Equal(t, "Processes data for `/b`.", doc.Paths[1].Operations[0].Description)
	assert.Equal(t, "Retrieves data for `/c` with query filters [\"it's\"].", doc.Paths[2].Operations[0].Description)

	long := &domain.OpenAPIDocument{}
	long.SetOperation("/"+strings.Repeat("x", 900), domain.Operation{Method: "get"})
	Describe(long)
	assert.Len(t, []rune(long.Paths[0].Operations[0].Description), 800)
}

func TestBuild_WithoutDescriptions(t *testing.T) {
	doc := build(t, "", "curl https://h/a", WithDescriptions(false))
	assert.Empty(t, doc.Paths[0].Operations[0].Description)

	doc = build(t, "", "curl https://h/a")
	assert.Equal(t, "Retrieves data for `/a`.", doc.Paths[0].Operations[0].Description)
}
