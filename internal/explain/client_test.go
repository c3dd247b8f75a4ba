package explain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPlanFollowsNextURI(t *testing.T) {
	plan := `{"id":"1","name":"root","estimates":[{"cpuCost":5000}]}`

	var server *httptest.Server
	calls := 0
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		switch calls {
		case 1:
			w.Write([]byte(`{"id":"q1","infoUri":"http://x/info","nextUri":"` + server.URL + `/v1/statement/q1/2","stats":{"state":"QUEUED"}}`))
		case 2:
			w.Write([]byte(`{"id":"q1","infoUri":"http://x/info","data":[["` + escapeJSON(plan) + `"]],"stats":{"state":"FINISHED"}}`))
		}
	}))
	defer server.Close()

	node, err := FetchPlan(context.Background(), server.Client(), server.URL, http.Header{"Authorization": []string{"Basic abc"}}, "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, "root", node.Name)
	assert.Equal(t, float64(5000), MaxCPUCost(node))
	assert.Equal(t, 2, calls, "expected 2 round trips following nextUri")
}

func TestFetchPlanUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := FetchPlan(context.Background(), server.Client(), server.URL, http.Header{}, "SELECT 1")
	require.Error(t, err, "non-2xx upstream response should fail")
}

func escapeJSON(s string) string {
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
