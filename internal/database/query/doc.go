// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

// Package query builds parameterized Postgres WHERE clauses for the database
// package.
//
// Filters that depend on optional request input (the journal's category and
// search term) are assembled with a WhereBuilder so placeholder numbering
// stays consistent between the count query and the page query:
//
//	wb := query.NewWhereBuilder().AddClause("a.is_published = true")
//	wb.AddEquals("a.category", f.Category)
//	wb.AddSearch(f.Search, "a.title", "a.content")
//
//	where, args := wb.BuildWithPrefix()
//	db.QueryRowContext(ctx, "SELECT count(*) FROM articles a "+where, args...)
//
//	page, pageArgs := wb.Page(f.Limit, f.Offset)
//	db.QueryContext(ctx, "SELECT ... "+where+" ORDER BY a.created_at DESC"+page, pageArgs...)
//
// User input only ever reaches the database as a bound argument. Column names
// passed to the builder must be constants.
package query
