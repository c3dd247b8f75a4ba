package evaluators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starproxy/internal/query"
	"starproxy/internal/rules"
	"starproxy/internal/sqlast"
)

func TestCidrOrigin(t *testing.T) {
	tables := map[string]struct{}{"db.x": {}}
	params := &rules.CidrOriginParams{InboundCIDR: "10.0.0.0/8"}

	tests := []struct {
		name  string
		table string
		xff   string
		want  bool
	}{
		{name: "table not referenced skips", table: "db.other", xff: "8.8.8.8", want: false},
		{name: "missing xff is fail-closed violation", table: "db.x", xff: "", want: true},
		{name: "outside cidr is violation", table: "db.x", xff: "8.8.8.8", want: true},
		{name: "inside cidr is no violation", table: "db.x", xff: "10.1.2.3", want: false},
		{name: "multi-valued xff considers only first", table: "db.x", xff: "10.1.2.3, 8.8.8.8", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			if tt.xff != "" {
				headers.Set("X-Forwarded-For", tt.xff)
			}
			qd := &query.Data{Headers: headers}

			got, err := CidrOrigin(tables, tt.table, params, qd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWhereClause(t *testing.T) {
	stmt, err := sqlast.Parse("SELECT a FROM db.x WHERE tenant_id = 42")
	require.NoError(t, err)
	tables := sqlast.ExtractTables(stmt)

	got, err := WhereClause(stmt, tables, "db.x", &rules.WhereClauseParams{Filter: "tenant_id = 42"})
	require.NoError(t, err)
	assert.False(t, got, "predicate present should not violate")

	stmt2, err := sqlast.Parse("SELECT a FROM db.x WHERE other = 1")
	require.NoError(t, err)
	tables2 := sqlast.ExtractTables(stmt2)
	got2, err := WhereClause(stmt2, tables2, "db.x", &rules.WhereClauseParams{Filter: "tenant_id = 42"})
	require.NoError(t, err)
	assert.True(t, got2, "predicate absent should violate")
}

func TestSelectStarNoLimit(t *testing.T) {
	stmt, err := sqlast.Parse("SELECT * FROM db.x")
	require.NoError(t, err)
	tables := sqlast.ExtractTables(stmt)

	got, err := SelectStarNoLimit(stmt, tables, "db.x")
	require.NoError(t, err)
	assert.True(t, got)

	stmt2, err := sqlast.Parse("SELECT * FROM db.x LIMIT 10")
	require.NoError(t, err)
	tables2 := sqlast.ExtractTables(stmt2)
	got2, err := SelectStarNoLimit(stmt2, tables2, "db.x")
	require.NoError(t, err)
	assert.False(t, got2, "LIMIT present should not violate")
}

func TestScanEstimatesExceedsThreshold(t *testing.T) {
	plan := `{"id":"1","name":"root","estimates":[{"cpuCost":5000}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"q1","infoUri":"http://x","data":[["` + escapeForJSON(plan) + `"]],"stats":{"state":"FINISHED"}}`))
	}))
	defer server.Close()

	stmt, err := sqlast.Parse("SELECT a FROM db.x")
	require.NoError(t, err)
	tables := sqlast.ExtractTables(stmt)

	headers := http.Header{"Authorization": []string{"Basic abc"}}
	qd := &query.Data{SQL: "SELECT a FROM db.x", Headers: headers}

	got, err := ScanEstimates(context.Background(), server.Client(), server.URL, tables, "db.x", &rules.ScanEstimatesParams{MaxCPUCost: 1000}, qd)
	require.NoError(t, err)
	assert.True(t, got, "5000 > 1000 should violate")
}

func TestScanEstimatesMissingAuthorizationErrors(t *testing.T) {
	stmt, err := sqlast.Parse("SELECT a FROM db.x")
	require.NoError(t, err)
	tables := sqlast.ExtractTables(stmt)

	qd := &query.Data{SQL: "SELECT a FROM db.x", Headers: http.Header{}}
	_, err = ScanEstimates(context.Background(), http.DefaultClient, "http://unused", tables, "db.x", &rules.ScanEstimatesParams{MaxCPUCost: 1000}, qd)
	require.Error(t, err, "missing Authorization header should error")
}

func TestScanEstimatesUpstreamFailureIsNoViolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	stmt, err := sqlast.Parse("SELECT a FROM db.x")
	require.NoError(t, err)
	tables := sqlast.ExtractTables(stmt)

	headers := http.Header{"Authorization": []string{"Basic abc"}}
	qd := &query.Data{SQL: "SELECT a FROM db.x", Headers: headers}

	got, err := ScanEstimates(context.Background(), server.Client(), server.URL, tables, "db.x", &rules.ScanEstimatesParams{MaxCPUCost: 1000}, qd)
	require.NoError(t, err, "upstream failure must not surface as an error")
	assert.False(t, got, "fail-open: upstream failure is not a violation")
}

func escapeForJSON(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			out = append(out, '\\', '"')
		} else {
			out = append(out, s[i])
		}
	}
	return string(out)
}
