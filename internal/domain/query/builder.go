package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects how placeholders are rendered.
type Dialect int

const (
	// Question renders every placeholder as ? (sqlite, MySQL, MariaDB).
	Question Dialect = iota
	// Dollar renders numbered placeholders $1..$n (postgres).
	Dollar
)

// DialectFor maps a configured driver name to its placeholder dialect.
func DialectFor(driver string) Dialect {
	switch driver {
	case "postgres", "pgx":
		return Dollar
	default:
		return Question
	}
}

func (d Dialect) String() string {
	if d == Dollar {
		return "dollar"
	}
	return "question"
}

type clause struct {
	sql  string
	args []any
}

// Builder accumulates WHERE clauses with their bound values. Clauses use ?
// as the placeholder regardless of dialect.
type Builder struct {
	base    string
	where   []clause
	orderBy []string
	limit   *clause
}

// NewBuilder starts a statement from a fixed SELECT ... FROM ... base.
func NewBuilder(base string) *Builder {
	return &Builder{base: strings.TrimSpace(base)}
}

// Where appends an AND-ed predicate together with the values for its placeholders.
func (b *Builder) Where(sql string, args ...any) *Builder {
	b.where = append(b.where, clause{sql: sql, args: args})
	return b
}

// OrderBy appends ORDER BY terms.
func (b *Builder) OrderBy(terms ...string) *Builder {
	b.orderBy = append(b.orderBy, terms...)
	return b
}

// Limit binds a row limit as the final placeholder.
func (b *Builder) Limit(n int) *Builder {
	b.limit = &clause{sql: "LIMIT ?", args: []any{n}}
	return b
}

// Build renders the statement for d and returns it with its arguments in
// placeholder order.
func (b *Builder) Build(d Dialect) (string, []any, error) {
	var (
		sb   strings.Builder
		args []any
		n    int
	)
	sb.WriteString(b.base)

	write := func(c clause) error {
		m, err := writeClause(&sb, c, d, n)
		if err != nil {
			return err
		}
		n = m
		args = append(args, c.args...)
		return nil
	}

	for i, c := range b.where {
		if i == 0 {
			sb.WriteString("\nWHERE ")
		} else {
			sb.WriteString("\n  AND ")
		}
		if err := write(c); err != nil {
			return "", nil, err
		}
	}
	if len(b.orderBy) > 0 {
		sb.WriteString("\nORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit != nil {
		sb.WriteString("\n")
		if err := write(*b.limit); err != nil {
			return "", nil, err
		}
	}
	return sb.String(), args, nil
}

// writeClause copies c.sql into sb replacing each ? with the dialect's
// placeholder. n is the number of placeholders already written; the new
// total is returned.
func writeClause(sb *strings.Builder, c clause, d Dialect, n int) (int, error) {
	if got := strings.Count(c.sql, "?"); got != len(c.args) {
		return n, fmt.Errorf("%w: %q has %d placeholders and %d values",
			ErrPlaceholderMismatch, c.sql, got, len(c.args))
	}
	for _, r := range c.sql {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}
		n++
		if d == Dollar {
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		} else {
			sb.WriteByte('?')
		}
	}
	return n, nil
}

// Rebind rewrites the ? placeholders of a fixed statement for d.
func Rebind(d Dialect, stmt string) string {
	if d != Dollar {
		return stmt
	}
	var (
		sb strings.Builder
		n  int
	)
	for _, r := range stmt {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}
		n++
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}
