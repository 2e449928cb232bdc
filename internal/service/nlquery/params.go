package nlquery

import (
	"regexp"
	"strconv"
	"strings"

	"duck-insights/internal/domain"
)

var (
	timeframePattern = regexp.MustCompile(`(?i)\b(day|month|quarter|year)`)
	topNPattern      = regexp.MustCompile(`(?i)\btop\s+(\d+)`)
)

// maxQueryLimit bounds "top N" so a prompt cannot request an unbounded scan.
const maxQueryLimit = 1000

// ExtractParams pulls the timeframe and limit out of a prompt. The first
// textual occurrence of a timeframe wins.
func ExtractParams(prompt string) domain.ExtractedParams {
	params := domain.ExtractedParams{Limit: domain.DefaultQueryLimit}

	if m := timeframePattern.FindStringSubmatch(prompt); m != nil {
		params.Timeframe = domain.Timeframe(strings.ToLower(m[1]))
	}

	if m := topNPattern.FindStringSubmatch(prompt); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			params.Limit = min(n, maxQueryLimit)
		}
	}

	return params
}
