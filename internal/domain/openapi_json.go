package domain

import (
	"fmt"

	"github.com/GabrielNunesIT/curldocs/internal/jsonval"
)

const jsonContentType = "application/json"

// Value converts the document into an ordered JSON tree.
func (d *OpenAPIDocument) Value() jsonval.Object {
	doc := jsonval.Object{}
	doc.Set("openapi", d.OpenAPI)
	doc.Set("info", jsonval.Object{
		{Key: "title", Value: d.Info.Title},
		{Key: "version", Value: d.Info.Version},
	})

	servers := []any{}
	for _, s := range d.Servers {
		servers = append(servers, jsonval.Object{{Key: "url", Value: s.URL}})
	}
	doc.Set("servers", servers)

	paths := jsonval.Object{}
	for _, p := range d.Paths {
		ops := jsonval.Object{}
		for _, op := range p.Operations {
			ops.Set(op.Method, op.value())
		}
		paths.Set(p.Path, ops)
	}
	doc.Set("paths", paths)

	components := jsonval.Object{{Key: "schemas", Value: jsonval.Object{}}}
	if len(d.Components.SecuritySchemes) > 0 {
		schemes := jsonval.Object{}
		for _, s := range d.Components.SecuritySchemes {
			schemes.Set(s.Name, s.value())
		}
		components.Set("securitySchemes", schemes)
	}
	doc.Set("components", components)

	if len(d.Security) > 0 {
		security := make([]any, 0, len(d.Security))
		for _, name := range d.Security {
			security = append(security, jsonval.Object{{Key: name, Value: []any{}}})
		}
		doc.Set("security", security)
	}

	return doc
}

func (s SecurityScheme) value() jsonval.Object {
	obj := jsonval.Object{{Key: "type", Value: s.Type}}
	if s.Scheme != "" {
		obj.Set("scheme", s.Scheme)
	}
	if s.BearerFormat != "" {
		obj.Set("bearerFormat", s.BearerFormat)
	}
	if s.In != "" {
		obj.Set("in", s.In)
	}
	if s.HeaderName != "" {
		obj.Set("name", s.HeaderName)
	}

	return obj
}

func (o Operation) value() jsonval.Object {
	tags := make([]any, 0, len(o.Tags))
	for _, t := range o.Tags {
		tags = append(tags, t)
	}

	params := make([]any, 0, len(o.Parameters))
	for _, p := range o.Parameters {
		params = append(params, p.value())
	}

	responses := jsonval.Object{}
	for _, r := range o.Responses {
		resp := jsonval.Object{{Key: "description", Value: r.Description}}
		if r.Schema != nil {
			resp.Set("content", mediaValue(*r.Schema, nil, false))
		}
		responses.Set(r.StatusCode, resp)
	}

	obj := jsonval.Object{
		{Key: "summary", Value: o.Summary},
		{Key: "operationId", Value: o.OperationID},
		{Key: "tags", Value: tags},
		{Key: "parameters", Value: params},
		{Key: "responses", Value: responses},
	}

	if o.RequestBody != nil {
		obj.Set("requestBody", jsonval.Object{
			{Key: "content", Value: mediaValue(o.RequestBody.Schema, o.RequestBody.Example, true)},
		})
	}

	if o.Description != "" {
		obj.Set("description", o.Description)
	}

	return obj
}

func (p Parameter) value() jsonval.Object {
	obj := jsonval.Object{
		{Key: "in", Value: p.In},
		{Key: "name", Value: p.Name},
	}
	if p.Required {
		obj.Set("required", true)
	}
	if p.Schema != nil {
		obj.Set("schema", schemaValue(*p.Schema))
	}
	if p.Example != nil {
		obj.Set("example", p.Example)
	}

	return obj
}

func mediaValue(schema Schema, example any, withExample bool) jsonval.Object {
	media := jsonval.Object{{Key: "schema", Value: schemaValue(schema)}}
	if withExample {
		media.Set("example", example)
	}

	return jsonval.Object{{Key: jsonContentType, Value: media}}
}

func schemaValue(s Schema) jsonval.Object {
	return jsonval.Object{{Key: "type", Value: s.Type}}
}

// MarshalJSON encodes the document with its original key order.
func (d *OpenAPIDocument) MarshalJSON() ([]byte, error) {
	return []byte(jsonval.Compact(d.Value())), nil
}

// UnmarshalJSON decodes a document keeping path, method and example key order.
func (d *OpenAPIDocument) UnmarshalJSON(data []byte) error {
	v, err := jsonval.Parse(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse OpenAPI JSON: %w", err)
	}

	doc, err := DocumentFromValue(v)
	if err != nil {
		return err
	}

	*d = *doc

	return nil
}

// DocumentFromValue rebuilds a document from an ordered JSON tree.
// Keys the synthesiser never writes are ignored.
func DocumentFromValue(v any) (*OpenAPIDocument, error) {
	root, ok := v.(jsonval.Object)
	if !ok {
		return nil, fmt.Errorf("openapi document: expected object, got %T", v)
	}

	doc := &OpenAPIDocument{OpenAPI: str(root, "openapi")}

	info := obj(root, "info")
	doc.Info = Info{Title: str(info, "title"), Version: str(info, "version")}

	for _, s := range arr(root, "servers") {
		if so, ok := s.(jsonval.Object); ok {
			doc.Servers = append(doc.Servers, Server{URL: str(so, "url")})
		}
	}

	for _, pm := range obj(root, "paths") {
		path := Path{Path: pm.Key}
		ops, _ := pm.Value.(jsonval.Object)
		for _, om := range ops {
			opObj, ok := om.Value.(jsonval.Object)
			if !ok {
				continue
			}
			path.Operations = append(path.Operations, operationFromValue(om.Key, opObj))
		}
		doc.Paths = append(doc.Paths, path)
	}

	for _, sm := range obj(obj(root, "components"), "securitySchemes") {
		so, _ := sm.Value.(jsonval.Object)
		doc.Components.SecuritySchemes = append(doc.Components.SecuritySchemes, SecurityScheme{
			Name:         sm.Key,
			Type:         str(so, "type"),
			Scheme:       str(so, "scheme"),
			BearerFormat: str(so, "bearerFormat"),
			In:           str(so, "in"),
			HeaderName:   str(so, "name"),
		})
	}

	for _, req := range arr(root, "security") {
		if ro, ok := req.(jsonval.Object); ok {
			doc.Security = append(doc.Security, ro.Keys()...)
		}
	}

	return doc, nil
}

func operationFromValue(method string, o jsonval.Object) Operation {
	op := Operation{
		Method:      method,
		Summary:     str(o, "summary"),
		OperationID: str(o, "operationId"),
		Description: str(o, "description"),
	}

	for _, t := range arr(o, "tags") {
		if s, ok := t.(string); ok {
			op.Tags = append(op.Tags, s)
		}
	}

	for _, p := range arr(o, "parameters") {
		po, ok := p.(jsonval.Object)
		if !ok {
			continue
		}

		param := Parameter{In: str(po, "in"), Name: str(po, "name")}
		if req, ok := po.Get("required"); ok {
			param.Required, _ = req.(bool)
		}
		if so, ok := po.Get("schema"); ok {
			if schema, ok := so.(jsonval.Object); ok {
				param.Schema = &Schema{Type: str(schema, "type")}
			}
		}
		param.Example, _ = po.Get("example")
		op.Parameters = append(op.Parameters, param)
	}

	for _, rm := range obj(o, "responses") {
		ro, _ := rm.Value.(jsonval.Object)
		resp := Response{StatusCode: rm.Key, Description: str(ro, "description")}
		if media, ok := obj(obj(ro, "content"), jsonContentType).Get("schema"); ok {
			if schema, ok := media.(jsonval.Object); ok {
				resp.Schema = &Schema{Type: str(schema, "type")}
			}
		}
		op.Responses = append(op.Responses, resp)
	}

	if rb, ok := o.Get("requestBody"); ok {
		if rbo, ok := rb.(jsonval.Object); ok {
			media := obj(obj(rbo, "content"), jsonContentType)
			example, _ := media.Get("example")
			op.RequestBody = &RequestBody{
				Schema:  Schema{Type: str(obj(media, "schema"), "type")},
				Example: example,
			}
		}
	}

	return op
}

func obj(o jsonval.Object, key string) jsonval.Object {
	v, _ := o.Get(key)
	child, _ := v.(jsonval.Object)

	return child
}

func arr(o jsonval.Object, key string) []any {
	v, _ := o.Get(key)
	items, _ := v.([]any)

	return items
}

func str(o jsonval.Object, key string) string {
	v, _ := o.Get(key)
	s, _ := v.(string)

	return s
}
