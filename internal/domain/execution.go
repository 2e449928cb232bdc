package domain

// Column describes one result column.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// RunResult is what the SQL execution collaborator returns for one query.
type RunResult struct {
	Rows     []map[string]interface{}
	Columns  []Column
	RowCount int
}

// ExecutionResult is the outcome of executing a query through the executor,
// either freshly run or served from the result cache.
type ExecutionResult struct {
	Data            []map[string]interface{} `json:"data"`
	Columns         []Column                 `json:"columns"`
	RowCount        int                      `json:"rowCount"`
	ExecutionTimeMs int64                    `json:"executionTimeMs"`
	QueryID         string                   `json:"queryId"`
	FromCache       bool                     `json:"fromCache"`
}
