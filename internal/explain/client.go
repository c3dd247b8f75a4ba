package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// FetchPlan submits sql (prefixed with the logical-explain directive) to
// the upstream's /v1/statement endpoint, follows nextUri until the result
// set is complete, and decodes the single returned cell as the root plan
// node. headers is the already-filtered header set the caller wants
// forwarded on every round trip of the protocol.
func FetchPlan(ctx context.Context, client *http.Client, baseURL string, headers http.Header, sql string) (*Node, error) {
	statement := "EXPLAIN (TYPE LOGICAL, FORMAT JSON) " + sql

	resp, err := doStatementRequest(ctx, client, http.MethodPost, baseURL+"/v1/statement", strings.NewReader(statement), headers)
	if err != nil {
		return nil, fmt.Errorf("submitting explain statement: %w", err)
	}

	var cells [][]interface{}
	for {
		var envelope StatementResponse
		if err := decodeStatementResponse(resp, &envelope); err != nil {
			return nil, err
		}
		cells = append(cells, envelope.Data...)

		if envelope.Error != nil {
			return nil, fmt.Errorf("upstream explain error: %s", envelope.Error.Message)
		}
		if envelope.NextURI == "" {
			break
		}

		resp, err = doStatementRequest(ctx, client, http.MethodGet, envelope.NextURI, nil, headers)
		if err != nil {
			return nil, fmt.Errorf("following nextUri: %w", err)
		}
	}

	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, fmt.Errorf("explain response carried no plan cell")
	}

	raw, ok := cells[0][0].(string)
	if !ok {
		return nil, fmt.Errorf("explain plan cell was not a JSON string")
	}

	var node Node
	if err := json.Unmarshal([]byte(raw), &node); err != nil {
		return nil, fmt.Errorf("decoding explain plan: %w", err)
	}
	return &node, nil
}

func doStatementRequest(ctx context.Context, client *http.Client, method, url string, body *strings.Reader, headers http.Header) (*http.Response, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, url, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	}
	if err != nil {
		return nil, err
	}
	for name, values := range headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}
	return resp, nil
}

func decodeStatementResponse(resp *http.Response, out *StatementResponse) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding statement response: %w", err)
	}
	return nil
}
