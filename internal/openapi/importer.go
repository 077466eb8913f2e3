package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/GabrielNunesIT/curldocs/internal/domain"
	"github.com/GabrielNunesIT/curldocs/internal/jsonval"
)

// methodOrder is the order operations of an imported path item are listed in.
var methodOrder = []string{"GET", "PUT", "POST", "DELETE", "OPTIONS", "HEAD", "PATCH", "TRACE"}

// Import loads an existing OpenAPI 3 file (JSON or YAML) so it can be rendered like a
// synthesised document. Paths and status codes are sorted since the source order is lost.
func Import(ctx context.Context, path string) (*domain.OpenAPIDocument, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = true

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	spec, err := loader.LoadFromFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI file: %w", err)
	}

	return convertSpec(spec), nil
}

func convertSpec(spec *openapi3.T) *domain.OpenAPIDocument {
	doc := &domain.OpenAPIDocument{OpenAPI: spec.OpenAPI}

	if spec.Info != nil {
		doc.Info = domain.Info{Title: spec.Info.Title, Version: spec.Info.Version}
	}

	for _, server := range spec.Servers {
		if server != nil {
			doc.Servers = append(doc.Servers, domain.Server{URL: server.URL})
		}
	}

	if spec.Paths != nil {
		items := spec.Paths.Map()
		keys := make([]string, 0, len(items))
		for k := range items {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			doc.Paths = append(doc.Paths, domain.Path{Path: k, Operations: convertOperations(items[k])})
		}
	}

	if spec.Components != nil {
		names := make([]string, 0, len(spec.Components.SecuritySchemes))
		for name := range spec.Components.SecuritySchemes {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			ref := spec.Components.SecuritySchemes[name]
			if ref == nil || ref.Value == nil {
				continue
			}

			doc.Components.SecuritySchemes = append(doc.Components.SecuritySchemes, domain.SecurityScheme{
				Name:         name,
				Type:         ref.Value.Type,
				Scheme:       ref.Value.Scheme,
				BearerFormat: ref.Value.BearerFormat,
				In:           ref.Value.In,
				HeaderName:   ref.Value.Name,
			})
		}
	}

	for _, req := range spec.Security {
		names := make([]string, 0, len(req))
		for name := range req {
			names = append(names, name)
		}
		sort.Strings(names)
		doc.Security = append(doc.Security, names...)
	}

	return doc
}

func convertOperations(item *openapi3.PathItem) []domain.Operation {
	if item == nil {
		return nil
	}

	ops := item.Operations()

	var operations []domain.Operation
	for _, method := range methodOrder {
		op, ok := ops[method]
		if !ok || op == nil {
			continue
		}

		operation := domain.Operation{
			Method:      strings.ToLower(method),
			Summary:     op.Summary,
			OperationID: op.OperationID,
			Tags:        op.Tags,
			Description: op.Description,
		}

		params := append(openapi3.Parameters{}, item.Parameters...)
		params = append(params, op.Parameters...)
		for _, param := range params {
			if param == nil || param.Value == nil {
				continue
			}

			operation.Parameters = append(operation.Parameters, domain.Parameter{
				In:       param.Value.In,
				Name:     param.Value.Name,
				Required: param.Value.Required,
				Schema:   convertSchema(param.Value.Schema),
				Example:  normalizeExample(param.Value.Example),
			})
		}

		if op.Responses != nil {
			responses := op.Responses.Map()
			codes := make([]string, 0, len(responses))
			for code := range responses {
				codes = append(codes, code)
			}
			sort.Strings(codes)

			for _, code := range codes {
				ref := responses[code]
				if ref == nil || ref.Value == nil {
					continue
				}

				resp := domain.Response{StatusCode: code}
				if ref.Value.Description != nil {
					resp.Description = *ref.Value.Description
				}
				if media := ref.Value.Content.Get("application/json"); media != nil {
					resp.Schema = convertSchema(media.Schema)
				}
				operation.Responses = append(operation.Responses, resp)
			}
		}

		if op.RequestBody != nil && op.RequestBody.Value != nil {
			if media := op.RequestBody.Value.Content.Get("application/json"); media != nil {
				body := &domain.RequestBody{Example: normalizeExample(media.Example)}
				if schema := convertSchema(media.Schema); schema != nil {
					body.Schema = *schema
				}
				operation.RequestBody = body
			}
		}

		operations = append(operations, operation)
	}

	return operations
}

func convertSchema(ref *openapi3.SchemaRef) *domain.Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}

	schema := &domain.Schema{}
	if ref.Value.Type != nil {
		if types := ref.Value.Type.Slice(); len(types) > 0 {
			schema.Type = types[0]
		}
	}

	return schema
}

// normalizeExample converts generically decoded values into jsonval values.
// Map keys are sorted because their source order is not known.
func normalizeExample(v any) any {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		obj := make(jsonval.Object, 0, len(keys))
		for _, k := range keys {
			obj = append(obj, jsonval.Member{Key: k, Value: normalizeExample(val[k])})
		}

		return obj
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			out = append(out, normalizeExample(item))
		}

		return out
	case float64:
		if math.Trunc(val) == val && math.Abs(val) < 1e15 {
			return json.Number(strconv.FormatInt(int64(val), 10))
		}

		return json.Number(strconv.FormatFloat(val, 'g', -1, 64))
	case int:
		return json.Number(strconv.Itoa(val))
	default:
		return val
	}
}
