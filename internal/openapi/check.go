package openapi

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/GabrielNunesIT/curldocs/internal/domain"
)

// Check loads doc through kin-openapi and validates it.
// Synthesised documents are best effort, so callers report the result instead of failing on it.
func Check(ctx context.Context, doc *domain.OpenAPIDocument) error {
	data, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode OpenAPI document: %w", err)
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx

	spec, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("failed to load OpenAPI document: %w", err)
	}

	if err := spec.Validate(ctx); err != nil {
		return fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	return nil
}
