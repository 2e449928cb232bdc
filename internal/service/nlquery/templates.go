package nlquery

import (
	"fmt"
	"regexp"

	"duck-insights/internal/domain"
)

// Template recognises one class of analytics intent and builds SQL for it.
// Templates are immutable once registered in a Library.
type Template struct {
	Name        string
	Description string
	pattern     *regexp.Regexp
	build       func(schema *domain.SchemaContext, params domain.ExtractedParams) string
}

// NewTemplate compiles pattern case-insensitively. It panics on an invalid
// pattern since templates are registered once at process start.
func NewTemplate(name, description, pattern string, build func(*domain.SchemaContext, domain.ExtractedParams) string) Template {
	return Template{
		Name:        name,
		Description: description,
		pattern:     regexp.MustCompile(`(?is)` + pattern),
		build:       build,
	}
}

// Matches reports whether the prompt expresses this template's intent.
func (t Template) Matches(prompt string) bool {
	return t.pattern.MatchString(prompt)
}

// Generate builds the SQL for this template.
func (t Template) Generate(schema *domain.SchemaContext, params domain.ExtractedParams) string {
	return t.build(schema, params)
}

// Library is an ordered registry of templates. Order is significant: the
// first template whose pattern matches wins.
type Library struct {
	templates []Template
}

// NewLibrary creates a library evaluated in the given order.
func NewLibrary(templates ...Template) *Library {
	return &Library{templates: append([]Template(nil), templates...)}
}

// Match returns the first template that matches the prompt.
func (l *Library) Match(prompt string) (Template, bool) {
	for _, t := range l.templates {
		if t.Matches(prompt) {
			return t, true
		}
	}
	return Template{}, false
}

// Templates returns the registered templates in evaluation order.
func (l *Library) Templates() []Template {
	return append([]Template(nil), l.templates...)
}

// Template names of the built-in library.
const (
	TemplateRevenueByPeriod  = "revenue_by_period"
	TemplateTopProducts      = "top_products"
	TemplateCustomerSegments = "customer_segments"
	TemplateOrdersByStatus   = "orders_by_status"
)

// DefaultLibrary returns the built-in templates in their evaluation order.
func DefaultLibrary() *Library {
	return NewLibrary(
		NewTemplate(TemplateRevenueByPeriod,
			"revenue aggregated per time period",
			`revenue.*\bby\b.*(day|month|quarter|year)`,
			buildRevenueByPeriod),
		NewTemplate(TemplateTopProducts,
			"best selling products ranked by revenue",
			`\btop\b.*\bproducts?\b`,
			buildTopProducts),
		NewTemplate(TemplateCustomerSegments,
			"customer counts and value per segment",
			`\bcustomers?\b.*\bsegments?\b`,
			buildCustomerSegments),
		NewTemplate(TemplateOrdersByStatus,
			"order counts per fulfilment status",
			`\borders?\b.*\bby\b.*\bstatus\b`,
			buildOrdersByStatus),
	)
}

func buildRevenueByPeriod(_ *domain.SchemaContext, params domain.ExtractedParams) string {
	grain := params.TimeframeOr(domain.TimeframeMonth)
	return fmt.Sprintf(
		"SELECT DATE_TRUNC('%s', order_date) AS period, SUM(total_amount) AS revenue, COUNT(*) AS order_count "+
			"FROM orders GROUP BY period ORDER BY period",
		grain)
}

func buildTopProducts(_ *domain.SchemaContext, params domain.ExtractedParams) string {
	return fmt.Sprintf(
		"SELECT p.name AS product, SUM(oi.quantity) AS units_sold, SUM(oi.quantity * oi.unit_price) AS revenue "+
			"FROM order_items oi JOIN products p ON p.id = oi.product_id "+
			"GROUP BY p.name ORDER BY revenue DESC LIMIT %d",
		params.Limit)
}

func buildCustomerSegments(_ *domain.SchemaContext, _ domain.ExtractedParams) string {
	return "SELECT segment, COUNT(*) AS customer_count, SUM(lifetime_value) AS total_value, " +
		"AVG(lifetime_value) AS avg_value FROM customers GROUP BY segment ORDER BY total_value DESC"
}

func buildOrdersByStatus(_ *domain.SchemaContext, _ domain.ExtractedParams) string {
	return "SELECT status, COUNT(*) AS order_count, SUM(total_amount) AS total_amount " +
		"FROM orders GROUP BY status ORDER BY order_count DESC"
}
