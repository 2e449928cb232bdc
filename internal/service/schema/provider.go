package schema

import (
	"context"

	"duck-insights/internal/domain"
)

// Compile-time check.
var _ domain.SchemaProvider = (*Provider)(nil)

// Provider builds schema contexts from the model catalog.
type Provider struct {
	catalog *Catalog
}

// NewProvider creates a Provider over catalog, or the default catalog when nil.
func NewProvider(catalog *Catalog) *Provider {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Provider{catalog: catalog}
}

// GetSchema returns the schema context for modelID, or a NotFoundError when
// the model is not in the catalog.
func (p *Provider) GetSchema(_ context.Context, modelID string) (*domain.SchemaContext, error) {
	m, ok := p.catalog.Lookup(modelID)
	if !ok {
		return nil, domain.ErrNotFound("model %q not found", modelID)
	}
	return &domain.SchemaContext{
		ModelID:    m.ID,
		Schema:     m.Schema,
		Metrics:    m.Metrics,
		Dimensions: m.Dimensions,
	}, nil
}
