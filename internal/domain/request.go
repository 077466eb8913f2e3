package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GabrielNunesIT/curldocs/internal/jsonval"
)

// Header is a single request header.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered header mapping. Setting an existing name replaces its value in place.
type Headers []Header

// Set stores value under name, overwriting an earlier header with the same name.
func (h *Headers) Set(name, value string) {
	for i := range *h {
		if (*h)[i].Name == name {
			(*h)[i].Value = value
			return
		}
	}

	*h = append(*h, Header{Name: name, Value: value})
}

// Get returns the value of the header with exactly the given name.
func (h Headers) Get(name string) (string, bool) {
	for _, header := range h {
		if header.Name == name {
			return header.Value, true
		}
	}

	return "", false
}

// MarshalJSON encodes the headers as a JSON object in insertion order.
func (h Headers) MarshalJSON() ([]byte, error) {
	obj := make(jsonval.Object, 0, len(h))
	for _, header := range h {
		obj = append(obj, jsonval.Member{Key: header.Name, Value: header.Value})
	}

	return []byte(jsonval.Compact(obj)), nil
}

// UnmarshalJSON decodes a JSON object of string values keeping key order.
func (h *Headers) UnmarshalJSON(data []byte) error {
	v, err := jsonval.Parse(string(data))
	if err != nil {
		return err
	}

	*h = nil
	if v == nil {
		return nil
	}

	obj, ok := v.(jsonval.Object)
	if !ok {
		return fmt.Errorf("headers: expected object, got %T", v)
	}

	*h = make(Headers, 0, len(obj))
	for _, m := range obj {
		h.Set(m.Key, scalarString(m.Value))
	}

	return nil
}

// ParsedRequest is one HTTP request recognised in a cURL command.
type ParsedRequest struct {
	Method  string  `json:"method"`
	URL     string  `json:"url"`
	Headers Headers `json:"headers"`
	Body    *string `json:"body"`
}

// HasBody reports whether the request carries a non-empty body.
func (r ParsedRequest) HasBody() bool {
	return r.Body != nil && *r.Body != ""
}

// RequestBatch is the ordered list of requests produced by one ingest call.
type RequestBatch struct {
	Requests []ParsedRequest `json:"requests"`
}

// Len returns the number of requests in the batch.
func (b *RequestBatch) Len() int {
	if b == nil {
		return 0
	}

	return len(b.Requests)
}

func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	default:
		return strings.Trim(jsonval.Compact(val), `"`)
	}
}
