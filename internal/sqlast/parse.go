// Package sqlast parses inbound query text and walks the resulting syntax
// tree to answer the handful of structural questions the rule evaluators
// need: which tables a statement touches, whether a given predicate is
// present, and whether a SELECT * has no LIMIT.
package sqlast

import (
	"github.com/dolthub/vitess/go/vt/sqlparser"
)

// Parse parses a single SQL statement using the MySQL-compatible dialect.
// Callers treat a non-nil error as fatal for the request (pipeline
// disposition: 500, stop).
func Parse(query string) (sqlparser.Statement, error) {
	return sqlparser.Parse(query)
}

// ParseExpr parses a standalone SQL expression, used to turn a WhereClause
// rule's configured filter text into an AST node comparable against
// expressions found while walking a query.
func ParseExpr(expr string) (sqlparser.Expr, error) {
	return sqlparser.ParseExpr(expr)
}
