// Package nlquery turns free-text analytics prompts into SQL using an
// ordered library of pattern templates.
package nlquery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"duck-insights/internal/domain"
)

// FallbackSQL is emitted when no template matches: a basic count and sum
// over the trailing 30 days.
const FallbackSQL = "SELECT COUNT(*) AS total_orders, SUM(total_amount) AS total_revenue " +
	"FROM orders WHERE order_date >= CURRENT_DATE - INTERVAL 30 DAY"

// Generator applies a template library to prompts.
type Generator struct {
	library      *Library
	schemas      domain.SchemaProvider
	strictModels bool
	logger       *slog.Logger
}

// NewGenerator creates a Generator. schemas may be nil, in which case every
// prompt is built against a minimal schema context.
func NewGenerator(library *Library, schemas domain.SchemaProvider, logger *slog.Logger) *Generator {
	if library == nil {
		library = DefaultLibrary()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{library: library, schemas: schemas, logger: logger}
}

// SetStrictModels makes GenerateQuery fail with a NotFoundError for unknown
// model ids instead of passing a minimal context through.
func (g *Generator) SetStrictModels(strict bool) {
	g.strictModels = strict
}

// GenerateQuery builds SQL for the prompt. Unrecognised prompts are not an
// error; they resolve to the fallback query. Schema provider failures degrade
// to a minimal context. The only error returned is an unknown model in strict
// mode.
func (g *Generator) GenerateQuery(ctx context.Context, prompt, modelID string) (*domain.GeneratedQuery, error) {
	schema, err := g.resolveSchema(ctx, modelID)
	if err != nil {
		return nil, err
	}

	params := ExtractParams(prompt)

	tmpl, ok := g.library.Match(prompt)
	if !ok {
		return Fallback(), nil
	}

	return &domain.GeneratedQuery{
		SQL:          tmpl.Generate(schema, params),
		Explanation:  explain(tmpl, params, schema),
		Confidence:   domain.TemplateConfidence,
		TemplateUsed: tmpl.Name,
	}, nil
}

// Fallback returns the default aggregation used when no template matches.
func Fallback() *domain.GeneratedQuery {
	return &domain.GeneratedQuery{
		SQL:          FallbackSQL,
		Explanation:  "No specific pattern recognised; showing order count and revenue for the last 30 days.",
		Confidence:   domain.FallbackConfidence,
		TemplateUsed: domain.FallbackTemplateName,
	}
}

func (g *Generator) resolveSchema(ctx context.Context, modelID string) (*domain.SchemaContext, error) {
	if g.schemas == nil {
		return domain.MinimalSchemaContext(modelID), nil
	}

	schema, err := g.schemas.GetSchema(ctx, modelID)
	if err == nil {
		return schema, nil
	}

	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		g.logger.Warn("schema lookup failed, using minimal schema context", "model_id", modelID, "error", err)
		return domain.MinimalSchemaContext(modelID), nil
	}
	if g.strictModels {
		return nil, err
	}
	g.logger.Debug("unknown model, using minimal schema context", "model_id", modelID)
	return domain.MinimalSchemaContext(modelID), nil
}

func explain(tmpl Template, params domain.ExtractedParams, schema *domain.SchemaContext) string {
	var detail string
	switch tmpl.Name {
	case TemplateRevenueByPeriod:
		detail = fmt.Sprintf("Revenue summed per %s.", params.TimeframeOr(domain.TimeframeMonth))
	case TemplateTopProducts:
		detail = fmt.Sprintf("Top %d products ranked by revenue.", params.Limit)
	default:
		detail = "Matched " + tmpl.Description + "."
	}
	if schema != nil && schema.ModelID != "" {
		return fmt.Sprintf("%s Built from the %q template for model %q.", detail, tmpl.Name, schema.ModelID)
	}
	return fmt.Sprintf("%s Built from the %q template.", detail, tmpl.Name)
}
