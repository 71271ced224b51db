// Package sqlinfo inspects SQL text to decide how a statement should be
// driven: statements that produce a result set are stepped for rows,
// everything else runs for its mutation counts.
package sqlinfo

import (
	"strings"

	"github.com/xwb1989/sqlparser"
)

// ReturnsRows reports whether query produces a result set. The parser
// does not understand every SQLite construct (PRAGMA, WITH, ATTACH), so
// statements it rejects fall back to a leading-keyword check.
func ReturnsRows(query string) bool {
	stmt, err := sqlparser.Parse(query)
	if err != nil {
		return keywordReturnsRows(query)
	}
	switch stmt.(type) {
	case *sqlparser.Select, *sqlparser.Union, *sqlparser.ParenSelect:
		return true
	case *sqlparser.Show, *sqlparser.OtherRead:
		return true
	default:
		return false
	}
}

func keywordReturnsRows(query string) bool {
	q := strings.TrimSpace(query)
	for strings.HasPrefix(q, "(") {
		q = strings.TrimSpace(q[1:])
	}
	i := strings.IndexFunc(q, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '(' || r == ';'
	})
	word := q
	if i >= 0 {
		word = q[:i]
	}
	switch strings.ToUpper(word) {
	case "SELECT", "VALUES", "PRAGMA", "EXPLAIN", "WITH":
		return true
	default:
		return false
	}
}
