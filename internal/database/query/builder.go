// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package query

import (
	"strconv"
	"strings"
)

// WhereBuilder constructs Postgres WHERE clauses with numbered parameters.
//
//	wb := query.NewWhereBuilder()
//	wb.AddClause("a.is_published = true")
//	wb.AddEquals("a.category", "Nutrisi")
//	wb.AddSearch("folat", "a.title", "a.content")
//	where, args := wb.BuildWithPrefix()
//	// WHERE a.is_published = true AND a.category = $1 AND (a.title ILIKE $2 OR a.content ILIKE $2)
type WhereBuilder struct {
	clauses []string
	args    []any
}

// NewWhereBuilder creates an empty WhereBuilder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []any{},
	}
}

// Param binds v and returns its placeholder.
func (wb *WhereBuilder) Param(v any) string {
	wb.args = append(wb.args, v)
	return "$" + strconv.Itoa(len(wb.args))
}

// AddClause adds a condition. Each ? in clause is bound to the next arg in
// order. The clause must not contain a literal question mark.
func (wb *WhereBuilder) AddClause(clause string, args ...any) *WhereBuilder {
	if len(args) == 0 {
		wb.clauses = append(wb.clauses, clause)
		return wb
	}
	var b strings.Builder
	next := 0
	for _, r := range clause {
		if r == '?' && next < len(args) {
			b.WriteString(wb.Param(args[next]))
			next++
			continue
		}
		b.WriteRune(r)
	}
	wb.clauses = append(wb.clauses, b.String())
	return wb
}

// AddEquals adds "column = $n". An empty value is skipped.
func (wb *WhereBuilder) AddEquals(column, value string) *WhereBuilder {
	if value == "" {
		return wb
	}
	wb.clauses = append(wb.clauses, column+" = "+wb.Param(value))
	return wb
}

// AddSearch adds a case-insensitive substring match of term against any of
// columns. LIKE metacharacters in term match literally. A blank term is
// skipped.
func (wb *WhereBuilder) AddSearch(term string, columns ...string) *WhereBuilder {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return wb
	}
	p := wb.Param("%" + EscapeLike(term) + "%")
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col + " ILIKE " + p
	}
	wb.clauses = append(wb.clauses, "("+strings.Join(parts, " OR ")+")")
	return wb
}

// Build joins the clauses with AND. With no clauses it returns "1=1".
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.clauses) == 0 {
		return "1=1", []any{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix is Build with a leading "WHERE ".
func (wb *WhereBuilder) BuildWithPrefix() (string, []any) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Page returns a LIMIT/OFFSET suffix numbered after the bound args, and a
// copy of the args with limit and offset appended. The builder is unchanged
// so the same filter can back a count query.
func (wb *WhereBuilder) Page(limit, offset int) (string, []any) {
	args := make([]any, 0, len(wb.args)+2)
	args = append(args, wb.args...)
	args = append(args, limit, offset)
	n := len(wb.args)
	return " LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2), args
}

// Count returns the number of clauses.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty reports whether no clauses were added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// EscapeLike escapes LIKE metacharacters so s matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
