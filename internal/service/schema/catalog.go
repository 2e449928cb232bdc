// Package schema resolves semantic model ids to the schema context handed to
// query templates.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultModelID is the model available when no catalog file is configured.
const DefaultModelID = "default"

// Model maps a semantic model onto a DuckDB schema.
type Model struct {
	ID          string   `yaml:"id"`
	Schema      string   `yaml:"schema"`
	Description string   `yaml:"description,omitempty"`
	Metrics     []string `yaml:"metrics,omitempty"`
	Dimensions  []string `yaml:"dimensions,omitempty"`
}

type catalogFile struct {
	Models []Model `yaml:"models"`
}

// Catalog is the immutable set of known models.
type Catalog struct {
	models map[string]Model
}

// DefaultCatalog returns a catalog holding only the built-in default model.
func DefaultCatalog() *Catalog {
	return &Catalog{models: map[string]Model{
		DefaultModelID: {
			ID:          DefaultModelID,
			Schema:      "main",
			Description: "Demo commerce dataset",
			Metrics:     []string{"revenue", "order_count", "units_sold", "lifetime_value"},
			Dimensions:  []string{"order_date", "status", "segment", "product"},
		},
	}}
}

// LoadCatalog reads a YAML model catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("read model catalog: %w", err)
	}
	cat, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cat, nil
}

// ParseCatalog decodes a YAML model catalog. Unknown fields, duplicate ids,
// and models without an id are rejected. A model without a schema uses "main".
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc catalogFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	cat := &Catalog{models: make(map[string]Model, len(doc.Models))}
	for i, m := range doc.Models {
		m.ID = strings.TrimSpace(m.ID)
		if m.ID == "" {
			return nil, fmt.Errorf("models[%d]: id is required", i)
		}
		if _, dup := cat.models[m.ID]; dup {
			return nil, fmt.Errorf("models[%d]: duplicate id %q", i, m.ID)
		}
		if m.Schema == "" {
			m.Schema = "main"
		}
		cat.models[m.ID] = m
	}
	return cat, nil
}

// Lookup returns the model registered under id.
func (c *Catalog) Lookup(id string) (Model, bool) {
	m, ok := c.models[id]
	return m, ok
}

// SchemaFor returns the DuckDB schema backing a model.
func (c *Catalog) SchemaFor(modelID string) (string, bool) {
	m, ok := c.models[modelID]
	if !ok {
		return "", false
	}
	return m.Schema, true
}

// IDs returns the registered model ids in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.models))
	for id := range c.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
