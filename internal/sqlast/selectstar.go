package sqlast

import (
	"github.com/dolthub/vitess/go/vt/sqlparser"
)

// SelectStarWithoutLimit reports whether any sub-query in stmt references
// table, projects a bare wildcard, and has no LIMIT — all three holding
// within that same sub-query's own scope, not scattered across nested
// queries.
func SelectStarWithoutLimit(stmt sqlparser.Statement, table string) bool {
	triggered := false

	_ = sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		if triggered {
			return false, nil
		}
		sel, ok := node.(*sqlparser.Select)
		if !ok {
			return true, nil
		}
		if selectScopeViolates(sel, table) {
			triggered = true
			return false, nil
		}
		return true, nil
	}, stmt)

	return triggered
}

func selectScopeViolates(sel *sqlparser.Select, table string) bool {
	if sel.Limit != nil {
		return false
	}
	if !hasBareWildcard(sel.SelectExprs) {
		return false
	}
	return referencesTable(sel.From, table)
}

func hasBareWildcard(exprs sqlparser.SelectExprs) bool {
	for _, expr := range exprs {
		star, ok := expr.(*sqlparser.StarExpr)
		if !ok {
			continue
		}
		if star.TableName.IsEmpty() {
			return true
		}
	}
	return false
}

// referencesTable checks only the direct table expressions of this FROM
// clause — it does not descend into nested sub-queries, so a wildcard
// scoped to an outer SELECT is not confused with a table named in an inner
// one.
func referencesTable(from sqlparser.TableExprs, table string) bool {
	found := false
	for _, expr := range from {
		walkTableExpr(expr, func(name sqlparser.TableName) {
			if dottedName(name) == table {
				found = true
			}
		})
	}
	return found
}

func walkTableExpr(expr sqlparser.TableExpr, fn func(sqlparser.TableName)) {
	switch e := expr.(type) {
	case *sqlparser.AliasedTableExpr:
		if name, ok := e.Expr.(sqlparser.TableName); ok {
			fn(name)
		}
	case *sqlparser.JoinTableExpr:
		walkTableExpr(e.LeftExpr, fn)
		walkTableExpr(e.RightExpr, fn)
	case *sqlparser.ParenTableExpr:
		for _, inner := range e.Exprs {
			walkTableExpr(inner, fn)
		}
	}
}
