package sqlast

import (
	"github.com/dolthub/vitess/go/vt/sqlparser"
)

// ContainsPredicate walks every expression node in stmt and reports whether
// any of them is structurally equal to target. Structural equality is
// decided by canonical SQL text: vitess's AST round-trips deterministically
// through sqlparser.String, so two expressions that render identically are
// the same predicate regardless of how they were originally parenthesized
// or spaced.
func ContainsPredicate(stmt sqlparser.Statement, target sqlparser.Expr) bool {
	want := sqlparser.String(target)
	found := false

	_ = sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		if found {
			return false, nil
		}
		expr, ok := node.(sqlparser.Expr)
		if !ok {
			return true, nil
		}
		if sqlparser.String(expr) == want {
			found = true
			return false, nil
		}
		return true, nil
	}, stmt)

	return found
}

// ExprString renders expr back to canonical SQL text, the same rendering
// ContainsPredicate compares, for callers that need a parsed filter in its
// canonical form.
func ExprString(expr sqlparser.Expr) string {
	return sqlparser.String(expr)
}
