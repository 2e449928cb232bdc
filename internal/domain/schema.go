package domain

// SchemaContext is the read-only view of a semantic model handed to templates.
// A minimal context carries only ModelID.
type SchemaContext struct {
	ModelID    string   `json:"modelId"`
	Schema     string   `json:"schema,omitempty"`
	Metrics    []string `json:"metrics,omitempty"`
	Dimensions []string `json:"dimensions,omitempty"`
}

// MinimalSchemaContext returns the pass-through context used for unknown models.
func MinimalSchemaContext(modelID string) *SchemaContext {
	return &SchemaContext{ModelID: modelID}
}
