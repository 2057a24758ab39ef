package repository

import (
	"strconv"
	"strings"

	"github.com/okian/pokeapi/internal/domain/model"
)

// dialect renders the statements for one SQL flavour. Column names always
// come from the allowlist and are quoted; values are always bound.
type dialect struct {
	// placeholder renders the n-th (1-based) bind parameter.
	placeholder func(n int) string
	// returningID appends a RETURNING clause to inserts.
	returningID bool
}

var postgresDialect = dialect{
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	returningID: true,
}

var sqliteDialect = dialect{
	placeholder: func(int) string { return "?" },
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

var (
	table = quoteIdent(model.Table)
	idCol = quoteIdent(model.IDColumn)
)

func (d dialect) selectAll() string {
	return "SELECT * FROM " + table
}

func (d dialect) selectByID() string {
	return "SELECT * FROM " + table + " WHERE " + idCol + " = " + d.placeholder(1)
}

func (d dialect) deleteByID() string {
	return "DELETE FROM " + table + " WHERE " + idCol + " = " + d.placeholder(1)
}

func (d dialect) insert(fields model.Fields) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)

	keys := fields.Keys()
	args := make([]any, 0, len(keys))
	if len(keys) == 0 {
		b.WriteString(" DEFAULT VALUES")
	} else {
		cols := make([]string, len(keys))
		marks := make([]string, len(keys))
		for i, k := range keys {
			cols[i] = quoteIdent(k)
			marks[i] = d.placeholder(i + 1)
			args = append(args, fields[k])
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(cols, ", "))
		b.WriteString(") VALUES (")
		b.WriteString(strings.Join(marks, ", "))
		b.WriteString(")")
	}
	if d.returningID {
		b.WriteString(" RETURNING ")
		b.WriteString(idCol)
	}
	return b.String(), args
}

// update renders an UPDATE for a non-empty field set.
func (d dialect) update(id int64, fields model.Fields) (string, []any) {
	keys := fields.Keys()
	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		sets[i] = quoteIdent(k) + " = " + d.placeholder(i+1)
		args = append(args, fields[k])
	}
	args = append(args, id)
	q := "UPDATE " + table + " SET " + strings.Join(sets, ", ") +
		" WHERE " + idCol + " = " + d.placeholder(len(keys)+1)
	return q, args
}
