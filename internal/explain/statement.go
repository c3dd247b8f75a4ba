package explain

// StatementResponse is one envelope of the upstream's incremental
// statement protocol (POST /v1/statement, then GET nextUri until it's
// empty). Modeled in full — including Stats, Error, and Warnings, none of
// which any rule consults — because the client must follow nextUri across
// multiple round trips and a partial model of the envelope would make
// that loop unreadable.
type StatementResponse struct {
	ID          string          `json:"id"`
	InfoURI     string          `json:"infoUri"`
	NextURI     string          `json:"nextUri,omitempty"`
	Columns     []Column        `json:"columns,omitempty"`
	Data        [][]interface{} `json:"data,omitempty"`
	Stats       Stats           `json:"stats"`
	Error       *QueryError     `json:"error,omitempty"`
	Warnings    []Warning       `json:"warnings,omitempty"`
	UpdateType  string          `json:"updateType,omitempty"`
	UpdateCount *int64          `json:"updateCount,omitempty"`
}

// Column describes one result-set column.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Stats carries the upstream's query-execution progress. Not consulted by
// any rule; modeled for completeness against the wire format.
type Stats struct {
	State           string `json:"state"`
	Queued          bool   `json:"queued"`
	Scheduled       bool   `json:"scheduled"`
	Nodes           int    `json:"nodes"`
	TotalSplits     int    `json:"totalSplits"`
	QueuedSplits    int    `json:"queuedSplits"`
	RunningSplits   int    `json:"runningSplits"`
	CompletedSplits int    `json:"completedSplits"`
}

// QueryError is the upstream's error shape when a statement fails.
type QueryError struct {
	Message   string `json:"message"`
	ErrorCode int    `json:"errorCode"`
	ErrorName string `json:"errorName"`
}

// Warning is a non-fatal diagnostic attached to a statement response.
type Warning struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
