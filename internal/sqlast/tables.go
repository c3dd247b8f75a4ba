package sqlast

import (
	"github.com/dolthub/vitess/go/vt/sqlparser"
)

// ExtractTables walks every table reference in stmt and returns the set of
// their dotted names (qualifier.name, or just name when unqualified). Set
// membership is exact string equality; duplicates collapse. The unqualified
// "dual" table the parser supplies for a statement with no FROM clause is
// not reported, so such a statement yields an empty set.
func ExtractTables(stmt sqlparser.Statement) map[string]struct{} {
	tables := make(map[string]struct{})

	_ = sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		tableName, ok := node.(sqlparser.TableName)
		if !ok {
			return true, nil
		}
		if tableName.Name.IsEmpty() {
			return true, nil
		}
		if tableName.Qualifier.IsEmpty() && tableName.Name.String() == "dual" {
			return true, nil
		}
		tables[dottedName(tableName)] = struct{}{}
		return true, nil
	}, stmt)

	return tables
}

func dottedName(t sqlparser.TableName) string {
	if !t.Qualifier.IsEmpty() {
		return t.Qualifier.String() + "." + t.Name.String()
	}
	return t.Name.String()
}
