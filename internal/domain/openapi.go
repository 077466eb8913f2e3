// Package domain provides core business models and interfaces for the cURL documentation pipeline.
package domain

import "strings"

// OpenAPIVersion is the version string written into every synthesised document.
const OpenAPIVersion = "3.0.3"

// Security scheme names.
const (
	BearerAuth = "bearerAuth"
	APIKeyAuth = "apiKeyAuth"
)

// OpenAPIDocument represents an OpenAPI document inferred from cURL requests.
// Paths and operations are slices so that insertion order survives rendering.
type OpenAPIDocument struct {
	OpenAPI    string
	Info       Info
	Servers    []Server
	Paths      []Path
	Components Components
	Security   []string // names of the security schemes required globally
}

// Info holds the document title and version.
type Info struct {
	Title   string
	Version string
}

// Server represents an API server.
type Server struct {
	URL string
}

// Components holds reusable definitions. Schemas are always empty.
type Components struct {
	SecuritySchemes []SecurityScheme
}

// SecurityScheme represents a security scheme.
type SecurityScheme struct {
	Name         string
	Type         string // http, apiKey
	Scheme       string
	BearerFormat string
	In           string
	HeaderName   string
}

// Path represents an API endpoint path template.
type Path struct {
	Path       string
	Operations []Operation
}

// Operation represents an HTTP operation on a path.
type Operation struct {
	Method      string // lower case
	Summary     string
	OperationID string
	Tags        []string
	Parameters  []Parameter
	Responses   []Response
	RequestBody *RequestBody
	Description string
}

// Parameter represents a request parameter.
type Parameter struct {
	In       string // query, path, header
	Name     string
	Required bool
	Schema   *Schema
	Example  any
}

// RequestBody is an application/json request body with an example payload.
type RequestBody struct {
	Schema  Schema
	Example any
}

// Response represents an API response keyed by status code.
type Response struct {
	StatusCode  string
	Description string
	Schema      *Schema // application/json content, nil when absent
}

// Schema is the minimal JSON schema the synthesiser emits.
type Schema struct {
	Type string
}

// BaseURL returns the URL of the first server, or "".
func (d *OpenAPIDocument) BaseURL() string {
	if len(d.Servers) == 0 {
		return ""
	}

	return d.Servers[0].URL
}

// RequiresScheme reports whether the named scheme is part of the global security requirement.
func (d *OpenAPIDocument) RequiresScheme(name string) bool {
	for _, s := range d.Security {
		if s == name {
			return true
		}
	}

	return false
}

// SetOperation stores op under path, replacing an operation with the same method in place.
func (d *OpenAPIDocument) SetOperation(path string, op Operation) {
	for i := range d.Paths {
		if d.Paths[i].Path == path {
			d.Paths[i].SetOperation(op)
			return
		}
	}

	d.Paths = append(d.Paths, Path{Path: path, Operations: []Operation{op}})
}

// Operation returns the operation for path and method.
func (d *OpenAPIDocument) Operation(path, method string) (*Operation, bool) {
	for i := range d.Paths {
		if d.Paths[i].Path != path {
			continue
		}

		for j := range d.Paths[i].Operations {
			if d.Paths[i].Operations[j].Method == strings.ToLower(method) {
				return &d.Paths[i].Operations[j], true
			}
		}
	}

	return nil, false
}

// SetOperation stores op, replacing an operation with the same method in place.
func (p *Path) SetOperation(op Operation) {
	for i := range p.Operations {
		if p.Operations[i].Method == op.Method {
			p.Operations[i] = op
			return
		}
	}

	p.Operations = append(p.Operations, op)
}

// ParametersIn returns the parameters located in the given place, in order.
func (o *Operation) ParametersIn(in string) []Parameter {
	var out []Parameter
	for _, p := range o.Parameters {
		if p.In == in {
			out = append(out, p)
		}
	}

	return out
}

// HasResponse reports whether a response for code is already set.
func (o *Operation) HasResponse(code string) bool {
	for _, r := range o.Responses {
		if r.StatusCode == code {
			return true
		}
	}

	return false
}

// BodyExample returns the request body example, or nil when there is no body.
func (o *Operation) BodyExample() any {
	if o.RequestBody == nil {
		return nil
	}

	return o.RequestBody.Example
}
