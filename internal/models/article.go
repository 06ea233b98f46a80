// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package models

import "time"

// Article is a row of articles, optionally joined with its author's name.
type Article struct {
	ID          string
	Title       string
	Content     string
	Excerpt     string
	Category    string
	ImageURL    string
	ReadTime    string
	Views       int
	IsPublished bool
	AuthorID    *string
	AuthorName  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ArticleFilter narrows the public article list.
type ArticleFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// ArticleUpdate carries optional article changes. Nil means unchanged.
type ArticleUpdate struct {
	Title       *string
	Content     *string
	Excerpt     *string
	Category    *string
	ImageURL    *string
	ReadTime    *string
	IsPublished *bool
}

// CategoryCount is the number of published articles in a category.
type CategoryCount struct {
	Category string
	Count    int
}
