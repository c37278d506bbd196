package sqlstore

import (
	"strings"
)

// where accumulates AND-ed conditions with '?' placeholders
type where struct {
	conds []string
	args  []interface{}
}

func (w *where) add(cond string, args ...interface{}) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *where) eq(col string, v interface{}) {
	w.add(col+" = ?", v)
}

// search matches term as a case-insensitive substring of any column. lower
// is the SQL function folding column values the way strings.ToLower folds term.
func (w *where) search(term string, cols []string, lower string) {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return
	}

	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = lower + "(" + c + ") LIKE ? ESCAPE '\\'"
		w.args = append(w.args, pattern)
	}
	w.conds = append(w.conds, "("+strings.Join(parts, " OR ")+")")
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
