// Package openapi synthesises OpenAPI documents from parsed cURL requests.
package openapi

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/GabrielNunesIT/curldocs/internal/domain"
	"github.com/GabrielNunesIT/curldocs/internal/jsonval"
)

const (
	documentVersion = "0.1.0"
	defaultTag      = "general"
	maskedValue     = "***"
)

var (
	schemeHost   = regexp.MustCompile(`^(https?://[^/]+)`)
	schemeHostTo = regexp.MustCompile(`^https?://[^/]+(.*)$`)
	hexID        = regexp.MustCompile(`^[0-9a-fA-F-]{6,}$`)
	nonAlnumRuns = regexp.MustCompile(`[^a-zA-Z0-9]+`)
)

// standardResponses are merged into every operation without overwriting codes already set.
var standardResponses = []domain.Response{
	{StatusCode: "400", Description: "Bad Request"},
	{StatusCode: "401", Description: "Unauthorized"},
	{StatusCode: "403", Description: "Forbidden"},
	{StatusCode: "404", Description: "Not Found"},
	{StatusCode: "429", Description: "Too Many Requests"},
	{StatusCode: "500", Description: "Internal Server Error"},
}

// Builder constructs OpenAPI documents from parsed requests.
type Builder struct {
	describe bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithDescriptions toggles the deterministic operation descriptions. They are on by default.
func WithDescriptions(enabled bool) Option {
	return func(b *Builder) {
		b.describe = enabled
	}
}

// NewBuilder creates a new Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{describe: true}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build creates an OpenAPI document from requests.
//
// Requests resolving to the same path template and method overwrite each other; the last
// one wins. baseURLHint, when set, takes precedence over the first absolute request URL.
func (b *Builder) Build(projectName, baseURLHint string, requests []domain.ParsedRequest) *domain.OpenAPIDocument {
	base := resolveBaseURL(requests, baseURLHint)

	doc := &domain.OpenAPIDocument{
		OpenAPI: domain.OpenAPIVersion,
		Info:    domain.Info{Title: projectName + " API", Version: documentVersion},
	}
	if base != "" {
		doc.Servers = []domain.Server{{URL: base}}
	}

	var usesBearer, usesAPIKey bool
	for _, r := range requests {
		path, op, auth := buildOperation(r, base)
		usesBearer = usesBearer || auth.bearer
		usesAPIKey = usesAPIKey || auth.apiKey
		doc.SetOperation(path, op)
	}

	if usesBearer {
		doc.Components.SecuritySchemes = append(doc.Components.SecuritySchemes, domain.SecurityScheme{
			Name:         domain.BearerAuth,
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		})
		doc.Security = append(doc.Security, domain.BearerAuth)
	}

	if usesAPIKey {
		doc.Components.SecuritySchemes = append(doc.Components.SecuritySchemes, domain.SecurityScheme{
			Name:       domain.APIKeyAuth,
			Type:       "apiKey",
			In:         "header",
			HeaderName: "X-API-Key",
		})
		doc.Security = append(doc.Security, domain.APIKeyAuth)
	}

	if b.describe {
		Describe(doc)
	}

	return doc
}

type authUsage struct {
	bearer bool
	apiKey bool
}

func buildOperation(r domain.ParsedRequest, base string) (string, domain.Operation, authUsage) {
	method := strings.ToLower(r.Method)
	if method == "" {
		method = strings.ToLower(http.MethodGet)
	}

	url := r.URL
	if url == "" {
		url = "/"
	}

	rawPath := pathFromURL(url, base)

	op := domain.Operation{
		Method:      method,
		Summary:     strings.ToUpper(method) + " " + rawPath,
		OperationID: strings.Trim(nonAlnumRuns.ReplaceAllString(method+"_"+rawPath, "_"), "_"),
		Tags:        []string{tagFor(rawPath)},
		Responses: []domain.Response{
			{StatusCode: "200", Description: "OK", Schema: &domain.Schema{Type: "object"}},
		},
	}

	path, query, hasQuery := strings.Cut(rawPath, "?")
	if path == "" {
		path = "/"
	}

	if hasQuery {
		for _, pair := range strings.Split(query, "&") {
			if pair == "" {
				continue
			}

			name, _, _ := strings.Cut(pair, "=")
			op.Parameters = append(op.Parameters, domain.Parameter{
				In:     "query",
				Name:   name,
				Schema: &domain.Schema{Type: "string"},
			})
		}
	}

	if templated, ok := templatePath(path); ok {
		path = templated
		op.Parameters = append(op.Parameters, domain.Parameter{
			In:       "path",
			Name:     "id",
			Required: true,
			Schema:   &domain.Schema{Type: "string"},
		})
	}

	var auth authUsage
	for _, h := range r.Headers {
		name := strings.ToLower(h.Name)

		switch {
		case name == "authorization" && strings.HasPrefix(strings.ToLower(h.Value), "bearer"):
			auth.bearer = true
			continue
		case name == "x-api-key" || name == "api-key":
			auth.apiKey = true
			continue
		}

		example := h.Value
		if name == "authorization" {
			example = maskedValue
		}

		op.Parameters = append(op.Parameters, domain.Parameter{
			In:      "header",
			Name:    h.Name,
			Schema:  &domain.Schema{Type: "string"},
			Example: example,
		})
	}

	if r.HasBody() {
		op.RequestBody = requestBody(*r.Body)
	}

	for _, resp := range standardResponses {
		if !op.HasResponse(resp.StatusCode) {
			op.Responses = append(op.Responses, resp)
		}
	}

	return path, op, auth
}

// requestBody infers the body schema and example from the raw payload.
func requestBody(body string) *domain.RequestBody {
	coerced := jsonval.Coerce(body)
	switch coerced.(type) {
	case jsonval.Object:
		return &domain.RequestBody{Schema: domain.Schema{Type: "object"}, Example: coerced}
	case []any:
		return &domain.RequestBody{Schema: domain.Schema{Type: "array"}, Example: coerced}
	}

	if v, err := jsonval.Parse(body); err == nil {
		return &domain.RequestBody{Schema: domain.Schema{Type: "object"}, Example: v}
	}

	return &domain.RequestBody{Schema: domain.Schema{Type: "string"}, Example: body}
}

func resolveBaseURL(requests []domain.ParsedRequest, hint string) string {
	if hint != "" {
		return strings.TrimRight(hint, "/")
	}

	for _, r := range requests {
		if m := schemeHost.FindStringSubmatch(r.URL); m != nil {
			return strings.TrimRight(m[1], "/")
		}
	}

	return ""
}

func pathFromURL(url, base string) string {
	if base != "" && strings.HasPrefix(url, base) {
		if path := url[len(base):]; path != "" {
			return path
		}

		return "/"
	}

	if m := schemeHostTo.FindStringSubmatch(url); m != nil {
		if m[1] != "" {
			return m[1]
		}

		return "/"
	}

	if strings.HasPrefix(url, "/") {
		return url
	}

	return "/" + url
}

func tagFor(path string) string {
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			return seg
		}
	}

	return defaultTag
}

// templatePath replaces the first identifier-looking segment with {id}.
// Later identifier segments stay literal.
func templatePath(path string) (string, bool) {
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		if isIdentifier(seg) {
			segs[i] = "{id}"
			return strings.Join(segs, "/"), true
		}
	}

	return path, false
}

func isIdentifier(seg string) bool {
	if hexID.MatchString(seg) {
		return true
	}

	if seg == "" {
		return false
	}

	for _, c := range seg {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}
