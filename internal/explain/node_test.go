package explain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaxCPUCost(t *testing.T) {
	tests := []struct {
		name string
		json string
		want float64
	}{
		{
			name: "single node finite cost",
			json: `{"id":"1","name":"root","estimates":[{"cpuCost":5000}]}`,
			want: 5000,
		},
		{
			name: "max across children",
			json: `{"id":"1","name":"root","estimates":[{"cpuCost":10}],"children":[{"id":"2","name":"scan","estimates":[{"cpuCost":9000}]}]}`,
			want: 9000,
		},
		{
			name: "markers are skipped, max is zero",
			json: `{"id":"1","name":"root","estimates":[{"cpuCost":"NaN"},{"cpuCost":"Infinity"},{"cpuCost":"-Infinity"}]}`,
			want: 0,
		},
		{
			name: "no estimates at all",
			json: `{"id":"1","name":"root"}`,
			want: 0,
		},
		{
			name: "mixed marker and finite picks finite",
			json: `{"id":"1","name":"root","estimates":[{"cpuCost":"NaN"},{"cpuCost":42}]}`,
			want: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var node Node
			require.NoError(t, json.Unmarshal([]byte(tt.json), &node))
			require.Equal(t, tt.want, MaxCPUCost(&node))
		})
	}
}

func TestNodeDecodesRealisticPayload(t *testing.T) {
	payload := `{
		"id": "1",
		"name": "TableScan",
		"descriptor": {"table": "orders"},
		"outputs": [{"symbol": "orderkey", "type": "bigint"}, {"symbol": "totalprice", "type": "double"}],
		"details": ["orders:orders:orders"],
		"estimates": [{"cpuCost": 1234.5}]
	}`

	var node Node
	require.NoError(t, json.Unmarshal([]byte(payload), &node))
	require.Equal(t, []ColumnOutput{
		{Symbol: "orderkey", Type: "bigint"},
		{Symbol: "totalprice", Type: "double"},
	}, node.Outputs)
}
