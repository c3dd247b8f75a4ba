// Package query holds the evaluation-time snapshot passed through the
// rule pipeline: one immutable value per request, built once after body
// buffering and discarded at the end of the request.
package query

import "net/http"

// Data is the inbound request's SQL text and its header set, as seen at
// the moment rule evaluation begins. It is never mutated during
// evaluation — actions that need to change outgoing headers operate on a
// separate mutable header set the handler carries alongside it.
type Data struct {
	SQL     string
	Headers http.Header
}
