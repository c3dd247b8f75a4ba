// Package actions applies the terminal or mutating action attached to a
// violated rule.
package actions

import (
	"net/http"
	"strings"
)

const (
	clientTagsHeader = "X-Trino-Client-Tags"
	lowPriorityTag   = "lowprio"

	// BlockedBody is the literal response body sent on a Block action.
	BlockedBody = "Request blocked"
)

// InjectLowPriorityTag appends the lowprio tag to the outgoing
// X-Trino-Client-Tags header, treating its value as a comma-separated
// list. Repeated calls across distinct violated rules accumulate tags;
// deduplication is not performed.
func InjectLowPriorityTag(headers http.Header) {
	existing := headers.Get(clientTagsHeader)
	if existing == "" {
		headers.Set(clientTagsHeader, lowPriorityTag)
		return
	}
	headers.Set(clientTagsHeader, strings.Join([]string{existing, lowPriorityTag}, ","))
}
