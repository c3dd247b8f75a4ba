package sqlast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTables(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "single qualified table",
			query: "SELECT a FROM db.x",
			want:  []string{"db.x"},
		},
		{
			name:  "unqualified table",
			query: "SELECT a FROM x",
			want:  []string{"x"},
		},
		{
			name:  "join across two tables",
			query: "SELECT a FROM db.x JOIN db.y ON db.x.id = db.y.id",
			want:  []string{"db.x", "db.y"},
		},
		{
			name:  "no from clause",
			query: "SELECT 1",
			want:  nil,
		},
		{
			name:  "duplicate reference collapses",
			query: "SELECT a FROM db.x WHERE db.x.id IN (SELECT id FROM db.x)",
			want:  []string{"db.x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Parse(tt.query)
			require.NoError(t, err)

			got := ExtractTables(stmt)
			require.Len(t, got, len(tt.want))
			for _, name := range tt.want {
				assert.Contains(t, got, name)
			}
		})
	}
}

func TestExtractTablesStableAcrossCalls(t *testing.T) {
	query := "SELECT a FROM db.x JOIN db.y ON db.x.id = db.y.id"
	stmt, err := Parse(query)
	require.NoError(t, err)

	first := ExtractTables(stmt)
	second := ExtractTables(stmt)
	assert.Equal(t, first, second, "ExtractTables should be stable across calls")
}
