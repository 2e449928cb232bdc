package cli

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"duck-insights/internal/api"
)

func newGenerateCmd(client *Client, s *settings) *cobra.Command {
	var (
		prompt string
		run    bool
	)
	cmd := &cobra.Command{
		Use:   "generate [prompt...]",
		Short: "Generate SQL from a natural-language prompt",
		Example: `  nlq generate "top 5 customers by revenue"
  nlq generate --prompt "sales by category this quarter" --run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if prompt == "" {
				prompt = strings.TrimSpace(strings.Join(args, " "))
			}
			if prompt == "" {
				return fmt.Errorf("provide a prompt as arguments or via --prompt")
			}

			var q api.GeneratedQuery
			body := api.GenerateQueryJSONRequestBody{Prompt: prompt, ModelId: optional(s.model)}
			if err := client.Do(cmd.Context(), http.MethodPost, "/generate-query", nil, body, &q); err != nil {
				return err
			}
			if run {
				return runQuery(cmd, client, s, q.Sql, true)
			}

			out := cmd.OutOrStdout()
			if s.quiet {
				_, _ = fmt.Fprintln(out, q.Sql)
				return nil
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(out, q)
			}
			printDetail(out, map[string]string{
				"template":    q.TemplateUsed,
				"confidence":  strconv.FormatFloat(q.Confidence, 'f', 2, 64),
				"explanation": q.Explanation,
			})
			_, _ = fmt.Fprintf(out, "\n%s\n", q.Sql)
			return nil
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "", "Natural-language prompt")
	cmd.Flags().BoolVar(&run, "run", false, "Execute the generated SQL")
	return cmd
}

func newExecuteCmd(client *Client, s *settings) *cobra.Command {
	var (
		sql     string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Execute a SQL query",
		Example: `  nlq execute --sql "SELECT COUNT(*) FROM orders"
  echo "SELECT 1" | nlq execute --no-cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sql == "" {
				piped, err := readPipedInput(cmd.InOrStdin())
				if err != nil {
					return err
				}
				sql = piped
			}
			if sql == "" {
				return fmt.Errorf("provide SQL via --sql flag or stdin pipe")
			}
			return runQuery(cmd, client, s, sql, !noCache)
		},
	}
	cmd.Flags().StringVar(&sql, "sql", "", "SQL query to execute")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the result cache")
	return cmd
}

// readPipedInput reads in when it is not an interactive terminal.
func readPipedInput(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func runQuery(cmd *cobra.Command, client *Client, s *settings, sql string, useCache bool) error {
	body := api.ExecuteQueryJSONRequestBody{Sql: sql, ModelId: optional(s.model), UseCache: &useCache}
	var res api.ExecutionResult
	if err := client.Do(cmd.Context(), http.MethodPost, "/execute-query", nil, body, &res); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if s.quiet {
		_, _ = fmt.Fprintln(out, res.RowCount)
		return nil
	}
	if getOutputFormat(cmd) == "json" {
		return printJSON(out, res)
	}

	headers := make([]string, len(res.Columns))
	for i, c := range res.Columns {
		headers[i] = c.Name
	}
	rows := make([][]string, len(res.Data))
	for i, row := range res.Data {
		rows[i] = make([]string, len(headers))
		for j, h := range headers {
			rows[i][j] = formatCell(row[h])
		}
	}
	printTable(out, headers, rows)

	source := "executed"
	if res.FromCache {
		source = "cached"
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "\n(%d rows, %d ms, %s)\n", res.RowCount, res.ExecutionTimeMs, source)
	return nil
}

func newAnalyticsCmd(client *Client, s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show query execution statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var snap api.AnalyticsSnapshot
			if err := client.Do(cmd.Context(), http.MethodGet, "/query-analytics", nil, nil, &snap); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if s.quiet {
				_, _ = fmt.Fprintln(out, snap.TotalQueries)
				return nil
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(out, snap)
			}
			printDetail(out, map[string]string{
				"total queries":    strconv.FormatInt(snap.TotalQueries, 10),
				"avg execution ms": strconv.FormatFloat(snap.AvgExecutionTimeMs, 'f', 1, 64),
				"cache hits":       strconv.FormatInt(snap.CacheHits, 10),
				"cache misses":     strconv.FormatInt(snap.CacheMisses, 10),
				"failed queries":   strconv.FormatInt(snap.FailedQueries, 10),
			})
			if len(snap.RecentQueries) == 0 {
				return nil
			}
			_, _ = fmt.Fprintln(out)
			rows := make([][]string, len(snap.RecentQueries))
			for i, q := range snap.RecentQueries {
				rows[i] = []string{
					q.Timestamp.Local().Format(time.DateTime),
					string(q.Status),
					strconv.FormatInt(q.ExecutionTimeMs, 10),
					strconv.Itoa(q.RowCount),
					truncate(q.Sql, 60),
				}
			}
			printTable(out, []string{"TIME", "STATUS", "MS", "ROWS", "SQL"}, rows)
			return nil
		},
	}
}

func newHistoryCmd(client *Client, s *settings) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List persisted query history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			var res api.QueryHistory
			query := url.Values{"limit": []string{strconv.Itoa(limit)}}
			if err := client.Do(cmd.Context(), http.MethodGet, "/query-history", query, nil, &res); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if s.quiet {
				for _, e := range res.Queries {
					_, _ = fmt.Fprintln(out, e.Id)
				}
				return nil
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(out, res)
			}
			rows := make([][]string, len(res.Queries))
			for i, e := range res.Queries {
				rows[i] = []string{
					e.Id,
					e.Timestamp.Local().Format(time.DateTime),
					string(e.Status),
					deref(e.Principal),
					strconv.FormatInt(e.ExecutionTimeMs, 10),
					truncate(e.Sql, 50),
				}
			}
			printTable(out, []string{"ID", "TIME", "STATUS", "PRINCIPAL", "MS", "SQL"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries")
	return cmd
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
