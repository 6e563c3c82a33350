// Package query accumulates typed SQL predicates and assignments and compiles
// them once into a PostgreSQL fragment with positional placeholders.
package query

import (
	"encoding/json"
	"strconv"
	"strings"
)

type kind int

const (
	kindCompare kind = iota
	kindNull
	kindNotNull
	kindAnd
	kindOr
	kindJSONHasAny
	kindExpr
	kindSeek
)

// Clause is a single typed predicate
type Clause struct {
	kind     kind
	column   string
	op       string
	value    any
	children []Clause
	expr     string
	args     []any
	sub      *Builder
}

func compare(column, op string, v any) Clause {
	return Clause{kind: kindCompare, column: column, op: op, value: v}
}

func Eq(column string, v any) Clause  { return compare(column, "=", v) }
func Gte(column string, v any) Clause { return compare(column, ">=", v) }
func Lte(column string, v any) Clause { return compare(column, "<=", v) }

func IsNull(column string) Clause  { return Clause{kind: kindNull, column: column} }
func NotNull(column string) Clause { return Clause{kind: kindNotNull, column: column} }

func And(cs ...Clause) Clause { return Clause{kind: kindAnd, children: cs} }
func Or(cs ...Clause) Clause  { return Clause{kind: kindOr, children: cs} }

// JSONHasAny matches rows whose JSONB string array column shares at least one
// element with values.
func JSONHasAny(column string, values []string) Clause {
	return Clause{kind: kindJSONHasAny, column: column, value: values}
}

// Expr is a raw predicate; each '?' in sql is bound to the next arg.
func Expr(sql string, args ...any) Clause {
	return Clause{kind: kindExpr, expr: sql, args: args}
}

// Seek positions a keyset scan: it matches rows whose tuple of key columns
// sorts at or below the tuple selected from `from` by where. A where that
// selects nothing matches no rows.
func Seek(keys, subKeys, from string, where *Builder) Clause {
	return Clause{kind: kindSeek, column: keys, expr: subKeys + " FROM " + from, sub: where}
}

type compiler struct {
	sb   strings.Builder
	args []any
	base int
}

func (c *compiler) bind(v any) string {
	c.args = append(c.args, v)
	return "$" + strconv.Itoa(c.base+len(c.args))
}

func (c *compiler) clause(cl Clause) {
	switch cl.kind {
	case kindCompare:
		c.sb.WriteString(cl.column + " " + cl.op + " " + c.bind(cl.value))
	case kindNull:
		c.sb.WriteString(cl.column + " IS NULL")
	case kindNotNull:
		c.sb.WriteString(cl.column + " IS NOT NULL")
	case kindAnd, kindOr:
		if len(cl.children) == 0 {
			if cl.kind == kindAnd {
				c.sb.WriteString("TRUE")
			} else {
				c.sb.WriteString("FALSE")
			}
			return
		}
		sep := " AND "
		if cl.kind == kindOr {
			sep = " OR "
		}
		c.sb.WriteString("(")
		for i, child := range cl.children {
			if i > 0 {
				c.sb.WriteString(sep)
			}
			c.clause(child)
		}
		c.sb.WriteString(")")
	case kindJSONHasAny:
		// values travel as one JSON document so the driver never sees a slice
		raw, _ := json.Marshal(cl.value)
		c.sb.WriteString(cl.column + " ?| ARRAY(SELECT jsonb_array_elements_text(" + c.bind(string(raw)) + "::jsonb))")
	case kindExpr:
		next := 0
		for _, r := range cl.expr {
			if r == '?' && next < len(cl.args) {
				c.sb.WriteString(c.bind(cl.args[next]))
				next++
				continue
			}
			c.sb.WriteRune(r)
		}
	case kindSeek:
		c.sb.WriteString("(" + cl.column + ") <= (SELECT " + cl.expr + " WHERE ")
		c.where(cl.sub.clauses)
		c.sb.WriteString(")")
	}
}

func (c *compiler) where(clauses []Clause) {
	if len(clauses) == 0 {
		c.sb.WriteString("TRUE")
		return
	}
	for i, cl := range clauses {
		if i > 0 {
			c.sb.WriteString(" AND ")
		}
		c.clause(cl)
	}
}

// Builder accumulates predicates joined with AND
type Builder struct {
	clauses []Clause
}

// Where starts a builder with the given predicates
func Where(cs ...Clause) *Builder {
	return &Builder{clauses: append([]Clause(nil), cs...)}
}

// And appends a predicate
func (b *Builder) And(c Clause) *Builder {
	b.clauses = append(b.clauses, c)
	return b
}

// When appends c only if cond holds; used for optional filters
func (b *Builder) When(cond bool, c Clause) *Builder {
	if cond {
		b.clauses = append(b.clauses, c)
	}
	return b
}

// Clone copies the builder so a base filter can be extended twice
func (b *Builder) Clone() *Builder {
	return &Builder{clauses: append([]Clause(nil), b.clauses...)}
}

// Build compiles the predicates. Placeholders start at $argOffset+1.
func (b *Builder) Build(argOffset int) (string, []any) {
	c := &compiler{base: argOffset}
	c.where(b.clauses)
	return c.sb.String(), c.args
}

// Set accumulates column assignments for partial updates
type Set struct {
	columns []string
	values  []any
}

// Add assigns v to column
func (s *Set) Add(column string, v any) *Set {
	s.columns = append(s.columns, column)
	s.values = append(s.values, v)
	return s
}

// Len is the number of assignments
func (s *Set) Len() int {
	return len(s.columns)
}

// Build compiles "col = $n, ..." with placeholders starting at $argOffset+1
func (s *Set) Build(argOffset int) (string, []any) {
	parts := make([]string, len(s.columns))
	for i, col := range s.columns {
		parts[i] = col + " = $" + strconv.Itoa(argOffset+i+1)
	}
	return strings.Join(parts, ", "), append([]any(nil), s.values...)
}
